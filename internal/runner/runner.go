package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/romangod6/sitemap-xml-plugin/config"
	"github.com/romangod6/sitemap-xml-plugin/internal/bundler"
	"github.com/romangod6/sitemap-xml-plugin/internal/models"
	"github.com/romangod6/sitemap-xml-plugin/internal/sitemap"
	"github.com/romangod6/sitemap-xml-plugin/internal/storage"
	"github.com/romangod6/sitemap-xml-plugin/internal/utils"
)

// Runner performs build invocations from the loaded configuration and
// records each one in the ledger when a store is configured.
type Runner struct {
	cfg    *config.Config
	store  storage.Store
	logger *utils.BuildLogger
	now    func() time.Time
}

func New(cfg *config.Config, store storage.Store, logger *utils.BuildLogger) *Runner {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Run performs one build in mode. The returned record describes the
// outcome; a failed build also returns its error.
func (r *Runner) Run(ctx context.Context, mode bundler.Mode) (*models.BuildRecord, error) {
	record := models.NewBuildRecord(string(mode), domainOf(r.cfg.Sitemap))
	logger := r.logger.With("build", record.ID.String())

	count, fileName, size, err := r.run(ctx, mode, logger)
	switch {
	case err != nil:
		record.Status = models.BuildFailed
		record.Error = err.Error()
		logger.LogError("Build failed: %v", err)
	case fileName == "":
		record.Status = models.BuildSkipped
		logger.LogInfo("Sitemap skipped in %s mode", mode)
	default:
		record.Status = models.BuildEmitted
		record.FileName = fileName
		record.EntryCount = count
		record.Size = size
		logger.LogInfo("Emitted %s: %d entries, %d bytes", fileName, count, size)
	}

	if r.store != nil {
		if storeErr := r.store.CreateBuildRecord(context.WithoutCancel(ctx), record); storeErr != nil {
			logger.LogError("Failed to record build: %v", storeErr)
		}
	}

	return record, err
}

func (r *Runner) run(ctx context.Context, mode bundler.Mode, logger *utils.BuildLogger) (int, string, int, error) {
	plugin, err := sitemap.New(r.cfg.Sitemap, sitemap.WithLogger(logger), sitemap.WithClock(r.now))
	if err != nil {
		return 0, "", 0, err
	}

	var assets *bundler.Compilation
	if len(r.cfg.Build.EntryPoints) == 0 {
		// Nothing to bundle: run the emit hooks alone and write their output.
		host := bundler.NewHost(mode)
		if err := plugin.Apply(host); err != nil {
			return 0, "", 0, err
		}
		if assets, err = host.Run(ctx); err != nil {
			return 0, "", 0, err
		}
		if r.cfg.Build.Write {
			if err := assets.WriteTo(r.cfg.Build.Outdir); err != nil {
				return 0, "", 0, err
			}
		}
	} else {
		b := bundler.NewBundler(mode, r.buildOptions(), logger)
		if err := plugin.Apply(b); err != nil {
			return 0, "", 0, err
		}
		result, err := b.Run(ctx)
		if err != nil {
			return 0, "", 0, err
		}
		assets = result.Assets
	}

	return summarize(ctx, plugin, assets)
}

// summarize reports the sitemap asset among the build's assets. Other emit
// hooks may have added assets of their own.
func summarize(ctx context.Context, plugin *sitemap.Plugin, assets *bundler.Compilation) (int, string, int, error) {
	if len(assets.Names()) == 0 {
		return 0, "", 0, nil
	}
	fileName, err := plugin.FileName(ctx)
	if err != nil {
		return 0, "", 0, err
	}
	asset, ok := assets.Asset(fileName)
	if !ok {
		return 0, "", 0, nil
	}
	doc, err := sitemap.Parse(asset.Source())
	if err != nil {
		return 0, "", 0, fmt.Errorf("emitted asset %s: %w", fileName, err)
	}
	return len(doc.URLs), fileName, asset.Size(), nil
}

// Preview renders the sitemap for the configured options without running a
// build or applying the build-mode gate.
func (r *Runner) Preview(ctx context.Context) (string, error) {
	plugin, err := sitemap.New(r.cfg.Sitemap, sitemap.WithLogger(r.logger))
	if err != nil {
		return "", err
	}
	doc, _, err := plugin.Render(ctx, r.now())
	return doc, err
}

func (r *Runner) buildOptions() api.BuildOptions {
	b := r.cfg.Build
	outdir := b.Outdir
	if abs, err := filepath.Abs(outdir); err == nil {
		outdir = abs
	}
	return api.BuildOptions{
		EntryPoints:       b.EntryPoints,
		Outdir:            outdir,
		Bundle:            b.Bundle,
		Write:             b.Write,
		MinifyWhitespace:  b.Minify,
		MinifyIdentifiers: b.Minify,
		MinifySyntax:      b.Minify,
		LogLevel:          api.LogLevelSilent,
	}
}

func domainOf(raw map[string]interface{}) string {
	domain, _ := raw["domain"].(string)
	return domain
}
