package sitemap

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// lastModLayout matches JavaScript's Date.toISOString.
const lastModLayout = "2006-01-02T15:04:05.000Z"

// Entry is one sitemap URL with its metadata. Until serialization URL holds
// the path relative to the site root ("" is the root itself).
type Entry struct {
	URL        string          `json:"url"`
	LastMod    string          `json:"lastmod,omitempty"`
	ChangeFreq ChangeFrequency `json:"changefreq,omitempty"`
	Priority   string          `json:"priority,omitempty"`
}

// FormatLastMod renders t the way lastmod values are stamped.
func FormatLastMod(t time.Time) string {
	return t.UTC().Format(lastModLayout)
}

// materialize turns one resolved path specification into an Entry.
func materialize(index int, v any) (Entry, error) {
	switch s := v.(type) {
	case string:
		return Entry{URL: relativePath(s)}, nil
	case Entry:
		return entryFromStruct(index, s)
	case *Entry:
		if s == nil {
			return Entry{}, newEntryError(index, "url", "nil entry", ErrMissingURL)
		}
		return entryFromStruct(index, *s)
	case map[string]any:
		return entryFromMap(index, s)
	case map[string]string:
		m := make(map[string]any, len(s))
		for k, val := range s {
			m[k] = val
		}
		return entryFromMap(index, m)
	default:
		return Entry{}, newEntryError(index, "paths", fmt.Sprintf("unsupported path specification type %T", v), nil)
	}
}

func entryFromStruct(index int, e Entry) (Entry, error) {
	if e.URL == "" {
		return Entry{}, newEntryError(index, "url", "entry object has no url", ErrMissingURL)
	}
	e.URL = relativePath(e.URL)
	return e, nil
}

func entryFromMap(index int, m map[string]any) (Entry, error) {
	raw, ok := lookup(m, "url")
	if !ok {
		return Entry{}, newEntryError(index, "url", "entry object has no url", ErrMissingURL)
	}
	u, ok := raw.(string)
	if !ok {
		return Entry{}, newEntryError(index, "url", fmt.Sprintf("url must be a string, got %T", raw), nil)
	}

	e := Entry{URL: relativePath(u)}
	for _, key := range []string{"lastmodISO", "lastmod"} {
		if v, ok := lookup(m, key); ok && v != nil {
			e.LastMod = stringify(v)
			break
		}
	}
	for _, key := range []string{"changefreq", "changeFrequency"} {
		if v, ok := lookup(m, key); ok && v != nil {
			e.ChangeFreq = ChangeFrequency(strings.ToLower(stringify(v)))
			break
		}
	}
	if v, ok := lookup(m, "priority"); ok && v != nil {
		e.Priority = stringify(v)
	}
	return e, nil
}

// applyDefaults fills fields the specification left unset.
func applyDefaults(e Entry, cfg Config, lastMod string) Entry {
	if e.LastMod == "" && cfg.SetLastModified {
		e.LastMod = lastMod
	}
	if e.ChangeFreq == "" && cfg.DefaultChangeFrequency != "" {
		e.ChangeFreq = cfg.DefaultChangeFrequency
	}
	return e
}

// relativePath strips leading slashes so "/a" and "a" name the same page.
// Absolute URLs are kept verbatim.
func relativePath(p string) string {
	if isAbsolute(p) {
		return p
	}
	return strings.TrimLeft(p, "/")
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// absoluteURL joins a relative entry path onto hostname.
func absoluteURL(hostname, p string) string {
	if isAbsolute(p) {
		return p
	}
	return strings.TrimRight(hostname, "/") + "/" + strings.TrimLeft(p, "/")
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return FormatLastMod(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(v)
	}
}
