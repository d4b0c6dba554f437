package mocks

import (
	"sync"
	"todoapi/infras/otel"
)

var _ otel.Scope = (*Scope)(nil)

// Scope records what the code under test reported on its span.
type Scope struct {
	Name string

	mu         sync.Mutex
	attributes map[string]any
	events     []string
	errs       []error
	ended      bool
}

// AddEvent implements otel.Scope.
func (s *Scope) AddEvent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, name)
}

// End implements otel.Scope.
func (s *Scope) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ended = true
}

// SetAttribute implements otel.Scope.
func (s *Scope) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attributes == nil {
		s.attributes = map[string]any{}
	}

	s.attributes[key] = value
}

// SetAttributes implements otel.Scope.
func (s *Scope) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

// TraceError implements otel.Scope.
func (s *Scope) TraceError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errs = append(s.errs, err)
}

// TraceIfError implements otel.Scope.
func (s *Scope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

// Attribute returns the last value set for key.
func (s *Scope) Attribute(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.attributes[key]

	return value, ok
}

func (s *Scope) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.events...)
}

func (s *Scope) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]error(nil), s.errs...)
}

func (s *Scope) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ended
}
