package sitemap

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// ResolveEntries expands the configured path specifications, preceded by
// the site root, into the final entry list: materialized, defaulted,
// rewritten to absolute URLs under cfg.Hostname(), deduplicated by url
// (first wins) and optionally sorted by url.
//
// buildStart is stamped as lastmod on every entry lacking one.
func ResolveEntries(ctx context.Context, cfg Config, buildStart time.Time) ([]Entry, error) {
	specs := make([]any, 0, len(cfg.PathSpecifications)+1)
	specs = append(specs, "")
	specs = append(specs, cfg.PathSpecifications...)

	resolved, err := resolveAll(ctx, specs)
	if err != nil {
		return nil, err
	}

	lastMod := FormatLastMod(buildStart)
	entries := make([]Entry, 0, len(specs))
	for i, values := range resolved {
		for _, v := range values {
			e, err := materialize(i-1, v)
			if err != nil {
				return nil, err
			}
			entries = append(entries, applyDefaults(e, cfg, lastMod))
		}
	}

	hostname := cfg.Hostname()
	for i := range entries {
		entries[i].URL = absoluteURL(hostname, entries[i].URL)
	}

	entries = dedupe(entries)
	if cfg.SortEntries {
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].URL < entries[b].URL
		})
	}
	return entries, nil
}

// resolveAll resolves every specification concurrently. Results are stored
// by input position so the output order never depends on completion order.
// A resolved list is flattened in place.
func resolveAll(ctx context.Context, specs []any) ([][]any, error) {
	results := make([][]any, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			v, err := ResolveValue(gctx, spec)
			if err != nil {
				return &ResolutionError{Plugin: PluginName, Target: "paths", Index: i - 1, Err: err}
			}

			items, ok := toSlice(v)
			if !ok {
				results[i] = []any{v}
				return nil
			}
			for j, item := range items {
				if items[j], err = ResolveValue(gctx, item); err != nil {
					return &ResolutionError{Plugin: PluginName, Target: "paths", Index: i - 1, Err: err}
				}
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, ok := seen[e.URL]; ok {
			continue
		}
		seen[e.URL] = struct{}{}
		out = append(out, e)
	}
	return out
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return append([]any(nil), s...), true
	case []string:
		out := make([]any, len(s))
		for i, p := range s {
			out[i] = p
		}
		return out, true
	case []Entry:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}
