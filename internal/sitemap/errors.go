package sitemap

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDomain is matched by the ConfigurationError raised when no domain is configured.
	ErrMissingDomain = errors.New("domain is required")
	// ErrMissingURL is matched by the ConfigurationError raised for an entry object without a url.
	ErrMissingURL = errors.New("entry has no url")
)

// ConfigurationError reports plugin options or path entries that cannot be used.
// Entry is the index of the offending path specification, or -1 when the
// problem is not tied to a single entry.
type ConfigurationError struct {
	Plugin string
	Field  string
	Entry  int
	Reason string
	cause  error
}

func (e *ConfigurationError) Error() string {
	if e.Entry >= 0 {
		return fmt.Sprintf("%s: path entry %d: option %s: %s", e.Plugin, e.Entry, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: option %s: %s", e.Plugin, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.cause
}

func newOptionError(field, reason string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Plugin: PluginName,
		Field:  field,
		Entry:  -1,
		Reason: reason,
		cause:  cause,
	}
}

func newEntryError(index int, field, reason string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Plugin: PluginName,
		Field:  field,
		Entry:  index,
		Reason: reason,
		cause:  cause,
	}
}

// ResolutionError wraps the failure of a deferred value. Target is "paths"
// or "fileName"; Index is the path specification index or -1.
type ResolutionError struct {
	Plugin string
	Target string
	Index  int
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: resolving %s[%d]: %v", e.Plugin, e.Target, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: resolving %s: %v", e.Plugin, e.Target, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
