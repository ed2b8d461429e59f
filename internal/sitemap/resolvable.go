package sitemap

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// maxResolveDepth bounds producers that keep returning further deferred values.
const maxResolveDepth = 16

// Resolvable is a value that only becomes concrete at build time.
type Resolvable interface {
	Resolve(ctx context.Context) (any, error)
}

// Literal is a value that is already concrete.
type Literal struct {
	Value any
}

func (l Literal) Resolve(context.Context) (any, error) {
	return l.Value, nil
}

// Producer is invoked at build time. The value it returns may itself be
// Resolvable, in which case it is resolved in turn.
type Producer func(ctx context.Context) (any, error)

func (p Producer) Resolve(ctx context.Context) (any, error) {
	if p == nil {
		return nil, errNilDeferred
	}
	return p(ctx)
}

// Awaitable is a value settled asynchronously, once. It can be awaited any
// number of times, including across builds.
type Awaitable struct {
	done chan struct{}
	once sync.Once
	val  any
	err  error
}

// NewAwaitable returns an unsettled Awaitable; call Settle to complete it.
func NewAwaitable() *Awaitable {
	return &Awaitable{done: make(chan struct{})}
}

// Async runs fn on its own goroutine and returns an Awaitable for its result.
func Async(ctx context.Context, fn func(ctx context.Context) (any, error)) *Awaitable {
	a := NewAwaitable()
	go func() {
		a.Settle(fn(ctx))
	}()
	return a
}

// Settle completes the Awaitable. Only the first call has an effect.
func (a *Awaitable) Settle(v any, err error) {
	a.once.Do(func() {
		a.val, a.err = v, err
		close(a.done)
	})
}

func (a *Awaitable) Resolve(ctx context.Context) (any, error) {
	if a == nil || a.done == nil {
		return nil, errNilDeferred
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.done:
		return a.val, a.err
	}
}

var (
	errResolveDepth = errors.New("deferred value nests too deeply")
	errNilDeferred  = errors.New("deferred value is nil")
)

// ResolveValue turns any of literal, Resolvable, or zero-argument function
// into a concrete value, propagating the first failure.
func ResolveValue(ctx context.Context, v any) (any, error) {
	for depth := 0; depth < maxResolveDepth; depth++ {
		var err error
		switch r := v.(type) {
		case Resolvable:
			v, err = r.Resolve(ctx)
		case func(context.Context) (any, error):
			if r == nil {
				return nil, errNilDeferred
			}
			v, err = r(ctx)
		case func() (any, error):
			if r == nil {
				return nil, errNilDeferred
			}
			v, err = r()
		case func() any:
			if r == nil {
				return nil, errNilDeferred
			}
			v = r()
		case func() string:
			if r == nil {
				return nil, errNilDeferred
			}
			v = r()
		default:
			return v, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w (limit %d)", errResolveDepth, maxResolveDepth)
}
