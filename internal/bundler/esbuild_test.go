package bundler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEntry(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	entry := filepath.Join(dir, "index.js")
	require.NoError(t, os.WriteFile(entry, []byte("export const answer = 42;\nconsole.log(answer);\n"), 0644))
	return entry
}

func TestBundler_EmitsAssetInMemory(t *testing.T) {
	entry := writeEntry(t)
	outdir := filepath.Join(t.TempDir(), "dist")

	b := NewBundler(ModeProduction, api.BuildOptions{
		EntryPoints: []string{entry},
		Outdir:      outdir,
		Bundle:      true,
		Write:       false,
		LogLevel:    api.LogLevelSilent,
	}, nil)
	b.TapEmit("test", func(ctx context.Context, c *Compilation) error {
		c.EmitAsset("sitemap.xml", NewAsset([]byte("<urlset/>")))
		return nil
	})

	result, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap.xml"}, result.Assets.Names())

	var paths []string
	for _, f := range result.OutputFiles {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, filepath.Join(outdir, "index.js"))
	assert.Contains(t, paths, filepath.Join(outdir, "sitemap.xml"))

	_, statErr := os.Stat(filepath.Join(outdir, "sitemap.xml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBundler_WritesAssetToOutdir(t *testing.T) {
	entry := writeEntry(t)
	outdir := filepath.Join(t.TempDir(), "dist")

	b := NewBundler(ModeProduction, api.BuildOptions{
		EntryPoints: []string{entry},
		Outdir:      outdir,
		Bundle:      true,
		Write:       true,
		LogLevel:    api.LogLevelSilent,
	}, nil)
	b.TapEmit("test", func(ctx context.Context, c *Compilation) error {
		c.EmitAsset("sitemap.xml", NewAsset([]byte("<urlset/>")))
		return nil
	})

	_, err := b.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outdir, "sitemap.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<urlset/>", string(data))
	_, err = os.Stat(filepath.Join(outdir, "index.js"))
	assert.NoError(t, err)
}

func TestBundler_HookErrorFailsBuild(t *testing.T) {
	boom := errors.New("boom")
	entry := writeEntry(t)

	b := NewBundler(ModeProduction, api.BuildOptions{
		EntryPoints: []string{entry},
		Outdir:      filepath.Join(t.TempDir(), "dist"),
		Bundle:      true,
		LogLevel:    api.LogLevelSilent,
	}, nil)
	b.TapEmit("broken", func(ctx context.Context, c *Compilation) error { return boom })

	result, err := b.Run(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, boom)
}

func TestBundler_EsbuildErrorSkipsHooks(t *testing.T) {
	called := false
	b := NewBundler(ModeProduction, api.BuildOptions{
		EntryPoints: []string{filepath.Join(t.TempDir(), "missing.js")},
		Outdir:      filepath.Join(t.TempDir(), "dist"),
		LogLevel:    api.LogLevelSilent,
	}, nil)
	b.TapEmit("never", func(ctx context.Context, c *Compilation) error {
		called = true
		return nil
	})

	_, err := b.Run(context.Background())

	assert.Error(t, err)
	assert.False(t, called)
}

func TestMergeOutputs_EmittedReplacesSamePath(t *testing.T) {
	merged := mergeOutputs(
		[]api.OutputFile{{Path: "/out/a.js"}, {Path: "/out/sitemap.xml", Contents: []byte("old")}},
		[]api.OutputFile{{Path: "/out/sitemap.xml", Contents: []byte("new")}},
	)

	require.Len(t, merged, 2)
	assert.Equal(t, "/out/a.js", merged[0].Path)
	assert.Equal(t, "new", string(merged[1].Contents))
}

func TestOutputDir(t *testing.T) {
	dir, err := outputDir(api.BuildOptions{Outfile: "/srv/out/app.js"})
	require.NoError(t, err)
	assert.Equal(t, "/srv/out", dir)

	_, err = outputDir(api.BuildOptions{})
	assert.ErrorIs(t, err, errNoOutputDir)
}
