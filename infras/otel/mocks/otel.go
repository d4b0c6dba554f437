package mocks

import (
	"context"
	"sync"
	"todoapi/infras/otel"
)

// Otel hands out recording scopes and keeps them in creation order.
type Otel struct {
	mu     sync.Mutex
	scopes []*Scope
}

// NewScope implements otel.Otel.
func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	scope := &Scope{Name: spanName}

	o.mu.Lock()
	o.scopes = append(o.scopes, scope)
	o.mu.Unlock()

	return ctx, scope
}

// Shutdown implements otel.Otel.
func (o *Otel) Shutdown(_ context.Context) error {
	return nil
}

// Scope returns the first scope opened as spanName.
func (o *Otel) Scope(spanName string) (*Scope, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, scope := range o.scopes {
		if scope.Name == spanName {
			return scope, true
		}
	}

	return nil, false
}

func NewOtel() otel.Otel {
	return NewRecorder()
}

// NewRecorder is NewOtel for tests that inspect the scopes afterwards.
func NewRecorder() *Otel {
	return &Otel{}
}
