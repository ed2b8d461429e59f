package sitemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PluginName identifies the plugin in errors and as the emit hook name.
const PluginName = "SitemapXmlPlugin"

// ChangeFrequency is the sitemaps.org <changefreq> value.
type ChangeFrequency string

const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

const (
	DefaultFileName = "sitemap.xml"
	DefaultProtocol = "https"
)

// Options is the user-facing option record. Nil pointers and zero values
// mean "not supplied" and fall back to the defaults.
type Options struct {
	ProductionOnly  *bool   `json:"productionOnly,omitempty"`
	FileName        any     `json:"fileName,omitempty"`
	Domain          string  `json:"domain,omitempty"`
	Protocol        string  `json:"protocol,omitempty"`
	Paths           []any   `json:"paths,omitempty"`
	ChangeFrequency *string `json:"changeFrequency,omitempty"`
	SetLastMod      *bool   `json:"setLastMod,omitempty"`
	SortPaths       *bool   `json:"sortPaths,omitempty"`
}

// Bool returns a pointer to v, for the optional boolean fields of Options.
func Bool(v bool) *bool {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

// Config is the normalized plugin configuration. It is built once by
// NewConfig and treated as read-only afterwards.
type Config struct {
	RunOnlyInFinalBuildMode bool
	// OutputFileName is a string or a Resolvable yielding one.
	OutputFileName         any
	Domain                 string
	Protocol               string
	PathSpecifications     []any
	DefaultChangeFrequency ChangeFrequency
	SetLastModified        bool
	SortEntries            bool
}

// DefaultConfig returns the documented defaults. Domain is left empty.
func DefaultConfig() Config {
	return Config{
		RunOnlyInFinalBuildMode: true,
		OutputFileName:          DefaultFileName,
		Protocol:                DefaultProtocol,
		PathSpecifications:      []any{},
		DefaultChangeFrequency:  Daily,
		SetLastModified:         true,
		SortEntries:             true,
	}
}

// NewConfig overlays raw onto DefaultConfig and validates the result.
// raw is a bare domain string, an Options value or pointer, or a
// map[string]any as decoded from a config file.
func NewConfig(raw any) (Config, error) {
	opts, err := toOptions(raw)
	if err != nil {
		return Config{}, err
	}

	cfg := merge(DefaultConfig(), opts)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// merge applies every supplied field of o over base.
func merge(base Config, o Options) Config {
	if o.ProductionOnly != nil {
		base.RunOnlyInFinalBuildMode = *o.ProductionOnly
	}
	if o.FileName != nil && o.FileName != "" {
		base.OutputFileName = o.FileName
	}
	if o.Domain != "" {
		base.Domain = strings.TrimSpace(o.Domain)
	}
	if o.Protocol != "" {
		base.Protocol = strings.ToLower(strings.TrimSpace(o.Protocol))
	}
	if o.Paths != nil {
		base.PathSpecifications = append([]any(nil), o.Paths...)
	}
	if o.ChangeFrequency != nil {
		base.DefaultChangeFrequency = ChangeFrequency(strings.ToLower(*o.ChangeFrequency))
	}
	if o.SetLastMod != nil {
		base.SetLastModified = *o.SetLastMod
	}
	if o.SortPaths != nil {
		base.SortEntries = *o.SortPaths
	}
	return base
}

var validate = validator.New()

// configView maps validated Config fields back to their option names.
type configView struct {
	Domain          string `validate:"required"`
	Protocol        string `validate:"required,oneof=http https"`
	ChangeFrequency string `validate:"omitempty,oneof=always hourly daily weekly monthly yearly never"`
}

var optionNames = map[string]string{
	"Domain":          "domain",
	"Protocol":        "protocol",
	"ChangeFrequency": "changeFrequency",
}

// Validate checks the required domain and the enumerated fields.
func (c Config) Validate() error {
	view := configView{
		Domain:          c.Domain,
		Protocol:        c.Protocol,
		ChangeFrequency: string(c.DefaultChangeFrequency),
	}

	err := validate.Struct(view)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newOptionError("options", err.Error(), err)
	}

	fe := fieldErrs[0]
	name := optionNames[fe.Field()]
	if fe.Field() == "Domain" {
		return newOptionError(name, "required", ErrMissingDomain)
	}
	return newOptionError(name, fmt.Sprintf("invalid value %q (rule %s=%s)", fe.Value(), fe.Tag(), fe.Param()), err)
}

// Hostname is the serializer's base, {protocol}://{domain}.
func (c Config) Hostname() string {
	return c.Protocol + "://" + strings.TrimRight(c.Domain, "/")
}

func toOptions(raw any) (Options, error) {
	switch v := raw.(type) {
	case nil:
		return Options{}, nil
	case string:
		return Options{Domain: v}, nil
	case Options:
		return v, nil
	case *Options:
		if v == nil {
			return Options{}, nil
		}
		return *v, nil
	case map[string]any:
		return optionsFromMap(v)
	default:
		return Options{}, newOptionError("options", fmt.Sprintf("unsupported options type %T", raw), nil)
	}
}

// optionsFromMap decodes the JSON-representable keys through encoding/json
// (field matching is case-insensitive, so viper's lowercased keys work) and
// copies paths and fileName as-is since they may hold Resolvable values.
func optionsFromMap(m map[string]any) (Options, error) {
	plain := make(map[string]any, len(m))
	for k, v := range m {
		switch strings.ToLower(k) {
		case "paths", "filename":
			continue
		}
		plain[k] = v
	}

	data, err := json.Marshal(plain)
	if err != nil {
		return Options{}, newOptionError("options", "failed to serialize options: "+err.Error(), err)
	}

	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, newOptionError("options", "failed to parse options: "+err.Error(), err)
	}

	if v, ok := lookup(m, "fileName"); ok {
		opts.FileName = v
	}
	if v, ok := lookup(m, "paths"); ok && v != nil {
		paths, ok := toSlice(v)
		if !ok {
			return Options{}, newOptionError("paths", fmt.Sprintf("expected a list, got %T", v), nil)
		}
		opts.Paths = paths
	}
	return opts, nil
}

func lookup(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
