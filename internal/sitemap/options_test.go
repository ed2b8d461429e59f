package sitemap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DomainShorthand(t *testing.T) {
	cfg, err := NewConfig("example.com")

	require.NoError(t, err)
	assert.Equal(t, "example.com", cfg.Domain)
	assert.True(t, cfg.RunOnlyInFinalBuildMode)
	assert.Equal(t, DefaultFileName, cfg.OutputFileName)
	assert.Equal(t, "https", cfg.Protocol)
	assert.Empty(t, cfg.PathSpecifications)
	assert.Equal(t, Daily, cfg.DefaultChangeFrequency)
	assert.True(t, cfg.SetLastModified)
	assert.True(t, cfg.SortEntries)
	assert.Equal(t, "https://example.com", cfg.Hostname())
}

func TestNewConfig_OverridesWinPerField(t *testing.T) {
	cfg, err := NewConfig(Options{
		Domain:          "example.org",
		Protocol:        "HTTP",
		ProductionOnly:  Bool(false),
		FileName:        "static/map.xml",
		Paths:           []any{"a", "b"},
		ChangeFrequency: String("weekly"),
		SetLastMod:      Bool(false),
		SortPaths:       Bool(false),
	})

	require.NoError(t, err)
	assert.False(t, cfg.RunOnlyInFinalBuildMode)
	assert.Equal(t, "static/map.xml", cfg.OutputFileName)
	assert.Equal(t, "http", cfg.Protocol)
	assert.Equal(t, []any{"a", "b"}, cfg.PathSpecifications)
	assert.Equal(t, Weekly, cfg.DefaultChangeFrequency)
	assert.False(t, cfg.SetLastModified)
	assert.False(t, cfg.SortEntries)
}

func TestNewConfig_EmptyChangeFrequencyDisablesDefault(t *testing.T) {
	cfg, err := NewConfig(&Options{Domain: "example.com", ChangeFrequency: String("")})

	require.NoError(t, err)
	assert.Equal(t, ChangeFrequency(""), cfg.DefaultChangeFrequency)
}

func TestNewConfig_FromLowercasedMap(t *testing.T) {
	cfg, err := NewConfig(map[string]any{
		"domain":          "example.com",
		"productiononly":  false,
		"sortpaths":       false,
		"changefrequency": "monthly",
		"paths":           []any{"x", map[string]any{"url": "y"}},
		"filename":        "site.xml",
	})

	require.NoError(t, err)
	assert.False(t, cfg.RunOnlyInFinalBuildMode)
	assert.False(t, cfg.SortEntries)
	assert.Equal(t, Monthly, cfg.DefaultChangeFrequency)
	assert.Len(t, cfg.PathSpecifications, 2)
	assert.Equal(t, "site.xml", cfg.OutputFileName)
}

func TestNewConfig_MapKeepsDeferredValues(t *testing.T) {
	fileName := Producer(func(ctx context.Context) (any, error) { return "late.xml", nil })

	cfg, err := NewConfig(map[string]any{
		"domain":   "example.com",
		"fileName": fileName,
		"paths":    []string{"a"},
	})

	require.NoError(t, err)
	_, ok := cfg.OutputFileName.(Producer)
	assert.True(t, ok)
	assert.Equal(t, []any{"a"}, cfg.PathSpecifications)
}

func TestNewConfig_MissingDomain(t *testing.T) {
	inputs := []any{
		nil,
		"",
		Options{},
		Options{Protocol: "http", Paths: []any{"a"}, SortPaths: Bool(false)},
		map[string]any{"paths": []any{"a"}},
		"   ",
	}

	for _, in := range inputs {
		_, err := NewConfig(in)
		require.Error(t, err, "input %#v", in)

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr), "input %#v", in)
		assert.Equal(t, "domain", cfgErr.Field)
		assert.Equal(t, PluginName, cfgErr.Plugin)
		assert.True(t, errors.Is(err, ErrMissingDomain))
		assert.Contains(t, err.Error(), PluginName)
	}
}

func TestNewConfig_InvalidEnumerations(t *testing.T) {
	_, err := NewConfig(Options{Domain: "example.com", ChangeFrequency: String("sometimes")})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "changeFrequency", cfgErr.Field)

	_, err = NewConfig(Options{Domain: "example.com", Protocol: "ftp"})
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "protocol", cfgErr.Field)
}

func TestNewConfig_UnsupportedType(t *testing.T) {
	_, err := NewConfig(42)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "options", cfgErr.Field)
}

func TestNewConfig_PathsMustBeList(t *testing.T) {
	_, err := NewConfig(map[string]any{"domain": "example.com", "paths": "a"})

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "paths", cfgErr.Field)
}
