package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Mode is the build mode a host runs in.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
	ModeNone        Mode = "none"
)

// ParseMode accepts production, development, or none (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeProduction, ModeDevelopment, ModeNone:
		return m, nil
	case "":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown build mode %q", s)
	}
}

// Asset is one file in a build's output.
type Asset struct {
	source []byte
}

func NewAsset(source []byte) Asset {
	return Asset{source: source}
}

func (a Asset) Source() []byte {
	return a.source
}

func (a Asset) Size() int {
	return len(a.source)
}

// Compilation holds the assets emitted by hooks during one build.
type Compilation struct {
	mutex  sync.RWMutex
	assets map[string]Asset
}

func NewCompilation() *Compilation {
	return &Compilation{
		assets: make(map[string]Asset),
	}
}

// EmitAsset adds or replaces the asset stored under name.
func (c *Compilation) EmitAsset(name string, asset Asset) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.assets[name] = asset
}

func (c *Compilation) Asset(name string) (Asset, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	asset, exists := c.assets[name]
	return asset, exists
}

// Names returns the emitted asset names in sorted order.
func (c *Compilation) Names() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := make([]string, 0, len(c.assets))
	for name := range c.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteTo writes every asset below dir, creating directories as needed.
func (c *Compilation) WriteTo(dir string) error {
	for _, name := range c.Names() {
		asset, _ := c.Asset(name)
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, asset.Source(), 0644); err != nil {
			return fmt.Errorf("failed to write asset %s: %w", name, err)
		}
	}
	return nil
}

// EmitFunc runs before a build's assets are finalized.
type EmitFunc func(ctx context.Context, c *Compilation) error

// Compiler is the part of the host build system a plugin sees.
type Compiler interface {
	Mode() Mode
	TapEmit(name string, fn EmitFunc)
}

type tap struct {
	name string
	fn   EmitFunc
}

// Hooks is the emit hook registry. Hooks run sequentially in tap order and
// the first failure stops the rest.
type Hooks struct {
	mutex sync.Mutex
	taps  []tap
}

func (h *Hooks) TapEmit(name string, fn EmitFunc) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.taps = append(h.taps, tap{name: name, fn: fn})
}

// RunEmit invokes every tapped hook against c.
func (h *Hooks) RunEmit(ctx context.Context, c *Compilation) error {
	h.mutex.Lock()
	taps := append([]tap(nil), h.taps...)
	h.mutex.Unlock()

	for _, t := range taps {
		if err := t.fn(ctx, c); err != nil {
			return fmt.Errorf("emit hook %s: %w", t.name, err)
		}
	}
	return nil
}

// Host is an in-memory Compiler that only runs emit hooks.
type Host struct {
	Hooks
	mode Mode
}

func NewHost(mode Mode) *Host {
	return &Host{mode: mode}
}

func (h *Host) Mode() Mode {
	return h.mode
}

// Run executes one build invocation and returns its assets.
func (h *Host) Run(ctx context.Context) (*Compilation, error) {
	c := NewCompilation()
	if err := h.RunEmit(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
