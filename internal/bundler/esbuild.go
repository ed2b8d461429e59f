package bundler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/romangod6/sitemap-xml-plugin/internal/utils"
)

const bridgePluginName = "emit-hooks"

// Bundler runs an esbuild build and exposes esbuild's end-of-build callback
// as the Compiler emit hook. Emitted assets are written next to esbuild's
// own output when Write is set and returned in Result either way.
type Bundler struct {
	Hooks
	mode    Mode
	options api.BuildOptions
	logger  *utils.BuildLogger
}

// Result is what one Run produced.
type Result struct {
	OutputFiles []api.OutputFile
	Assets      *Compilation
	Warnings    []api.Message
}

func NewBundler(mode Mode, options api.BuildOptions, logger *utils.BuildLogger) *Bundler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Bundler{
		mode:    mode,
		options: options,
		logger:  logger,
	}
}

func (b *Bundler) Mode() Mode {
	return b.mode
}

// Run performs one build invocation. A failing emit hook fails the build
// and its error is returned as-is.
func (b *Bundler) Run(ctx context.Context) (*Result, error) {
	opts := b.options
	comp := NewCompilation()

	var emitted []api.OutputFile
	var emitErr error

	opts.Plugins = append(append([]api.Plugin(nil), b.options.Plugins...), api.Plugin{
		Name: bridgePluginName,
		Setup: func(pb api.PluginBuild) {
			pb.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					return api.OnEndResult{}, nil
				}
				if err := b.RunEmit(ctx, comp); err != nil {
					emitErr = err
					return api.OnEndResult{}, err
				}
				files, err := b.finalize(comp, opts)
				if err != nil {
					emitErr = err
					return api.OnEndResult{}, err
				}
				emitted = files
				return api.OnEndResult{}, nil
			})
		},
	})

	b.logger.LogDebug("Starting esbuild (%d entry points, mode %s)", len(opts.EntryPoints), b.mode)
	result := api.Build(opts)

	if emitErr != nil {
		return nil, emitErr
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("esbuild failed: %s", formatMessages(result.Errors))
	}

	return &Result{
		OutputFiles: mergeOutputs(result.OutputFiles, emitted),
		Assets:      comp,
		Warnings:    result.Warnings,
	}, nil
}

// finalize turns emitted assets into output files, writing them to the
// output directory when the build writes to disk.
func (b *Bundler) finalize(comp *Compilation, opts api.BuildOptions) ([]api.OutputFile, error) {
	names := comp.Names()
	if len(names) == 0 {
		return nil, nil
	}

	dir, err := outputDir(opts)
	if err != nil {
		return nil, err
	}

	if opts.Write {
		if err := comp.WriteTo(dir); err != nil {
			return nil, err
		}
	}

	files := make([]api.OutputFile, 0, len(names))
	for _, name := range names {
		asset, _ := comp.Asset(name)
		path := filepath.Join(dir, filepath.FromSlash(name))
		b.logger.LogDebug("Emitted asset %s (%d bytes)", path, asset.Size())
		files = append(files, api.OutputFile{Path: path, Contents: asset.Source()})
	}
	return files, nil
}

var errNoOutputDir = errors.New("emitting assets requires outdir or outfile")

func outputDir(opts api.BuildOptions) (string, error) {
	dir := opts.Outdir
	if dir == "" && opts.Outfile != "" {
		dir = filepath.Dir(opts.Outfile)
	}
	if dir == "" {
		return "", errNoOutputDir
	}
	if !filepath.IsAbs(dir) && opts.AbsWorkingDir != "" {
		dir = filepath.Join(opts.AbsWorkingDir, dir)
	}
	return filepath.Abs(dir)
}

// mergeOutputs lists esbuild's outputs followed by emitted ones; an emitted
// file replaces an esbuild output with the same path.
func mergeOutputs(outputs, emitted []api.OutputFile) []api.OutputFile {
	replaced := make(map[string]struct{}, len(emitted))
	for _, f := range emitted {
		replaced[f.Path] = struct{}{}
	}

	merged := make([]api.OutputFile, 0, len(outputs)+len(emitted))
	for _, f := range outputs {
		if _, ok := replaced[f.Path]; ok {
			continue
		}
		merged = append(merged, f)
	}
	return append(merged, emitted...)
}

func formatMessages(msgs []api.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		text := m.Text
		if m.PluginName != "" {
			text = "[" + m.PluginName + "] " + text
		}
		if m.Location != nil {
			text = fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "; ")
}
