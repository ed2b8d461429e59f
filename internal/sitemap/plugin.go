package sitemap

import (
	"context"
	"fmt"
	"time"

	"github.com/romangod6/sitemap-xml-plugin/internal/bundler"
	"github.com/romangod6/sitemap-xml-plugin/internal/utils"
)

// Plugin emits the sitemap document as a build asset.
type Plugin struct {
	config Config
	logger *utils.BuildLogger
	now    func() time.Time
}

// PluginOption customizes a Plugin.
type PluginOption func(*Plugin)

// WithLogger sets the plugin's logger.
func WithLogger(logger *utils.BuildLogger) PluginOption {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces time.Now as the source of the build-start timestamp.
func WithClock(now func() time.Time) PluginOption {
	return func(p *Plugin) {
		if now != nil {
			p.now = now
		}
	}
}

// New normalizes raw options (see NewConfig) into a Plugin.
func New(raw any, opts ...PluginOption) (*Plugin, error) {
	cfg, err := NewConfig(raw)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, opts...), nil
}

// NewWithConfig builds a Plugin from an already normalized Config. The
// config is validated again by Apply.
func NewWithConfig(cfg Config, opts ...PluginOption) *Plugin {
	p := &Plugin{
		config: cfg,
		logger: utils.NewNopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the plugin's normalized configuration.
func (p *Plugin) Config() Config {
	return p.config
}

// Apply registers the emit handler on compiler. Outside production mode it
// does nothing when RunOnlyInFinalBuildMode is set.
func (p *Plugin) Apply(compiler bundler.Compiler) error {
	if err := p.config.Validate(); err != nil {
		return err
	}
	if p.config.RunOnlyInFinalBuildMode && compiler.Mode() != bundler.ModeProduction {
		p.logger.LogDebug("%s skipped in %s mode", PluginName, compiler.Mode())
		return nil
	}

	compiler.TapEmit(PluginName, p.emit)
	return nil
}

// emit captures the build-start timestamp once, then resolves, renders and
// stores the sitemap. Nothing is written unless every step succeeds.
func (p *Plugin) emit(ctx context.Context, c *bundler.Compilation) error {
	buildStart := p.now()

	doc, entries, err := p.Render(ctx, buildStart)
	if err != nil {
		return err
	}

	fileName, err := p.FileName(ctx)
	if err != nil {
		return err
	}

	c.EmitAsset(fileName, bundler.NewAsset([]byte(doc)))
	p.logger.LogDebug("%s emitted %s with %d entries (%d bytes)", PluginName, fileName, entries, len(doc))
	return nil
}

// Render resolves the entries for a build started at buildStart and
// serializes them. It returns the document and the number of entries.
func (p *Plugin) Render(ctx context.Context, buildStart time.Time) (string, int, error) {
	entries, err := ResolveEntries(ctx, p.config, buildStart)
	if err != nil {
		return "", 0, err
	}

	doc, _, err := Render(entries, p.config.Hostname())
	if err != nil {
		return "", 0, err
	}
	return doc, len(entries), nil
}

// FileName resolves the configured output file name.
func (p *Plugin) FileName(ctx context.Context) (string, error) {
	v, err := ResolveValue(ctx, p.config.OutputFileName)
	if err != nil {
		return "", &ResolutionError{Plugin: PluginName, Target: "fileName", Index: -1, Err: err}
	}

	name, ok := v.(string)
	if !ok || name == "" {
		return "", &ResolutionError{
			Plugin: PluginName,
			Target: "fileName",
			Index:  -1,
			Err:    fmt.Errorf("expected a non-empty string, got %T %v", v, v),
		}
	}
	return name, nil
}
