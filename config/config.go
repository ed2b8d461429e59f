package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Sitemap  map[string]interface{}
	Build    BuildConfig
	Database struct {
		URL string
	}
	Server struct {
		Port int
	}
	Log struct {
		Level  string
		Format string
		File   string
	}
	Schedule struct {
		Interval string
	}
}

type BuildConfig struct {
	EntryPoints []string
	Outdir      string
	Mode        string
	Bundle      bool
	Minify      bool
	Write       bool
}

// Scalar sitemap options that SITEMAPGEN_SITEMAP_<KEY> can override. paths
// is a list and only comes from the file.
var (
	sitemapStringKeys = []string{"domain", "protocol", "filename", "changefrequency"}
	sitemapBoolKeys   = []string{"productiononly", "setlastmod", "sortpaths"}
)

// LoadConfig reads config.yaml from ./ or ./config, or path when given.
// Without an explicit path a missing file is fine; defaults and
// SITEMAPGEN_* environment variables still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("sitemapgen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Default values
	v.SetDefault("build.mode", "production")
	v.SetDefault("build.outdir", "dist")
	v.SetDefault("build.bundle", true)
	v.SetDefault("build.write", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("schedule.interval", "")
	v.SetDefault("database.url", "")

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range append(sitemapStringKeys, sitemapBoolKeys...) {
		v.BindEnv("sitemap." + key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Sitemap == nil {
		config.Sitemap = map[string]interface{}{}
	}
	// Env values arrive as strings; cast them the way the options expect.
	for _, key := range sitemapStringKeys {
		if v.IsSet("sitemap." + key) {
			config.Sitemap[key] = v.GetString("sitemap." + key)
		}
	}
	for _, key := range sitemapBoolKeys {
		if v.IsSet("sitemap." + key) {
			config.Sitemap[key] = v.GetBool("sitemap." + key)
		}
	}

	return &config, nil
}

// GetScheduleInterval returns the rebuild interval, or 0 when disabled.
func (c *Config) GetScheduleInterval() time.Duration {
	if c.Schedule.Interval == "" {
		return 0
	}
	duration, err := time.ParseDuration(c.Schedule.Interval)
	if err != nil || duration < 0 {
		return 0
	}
	return duration
}
