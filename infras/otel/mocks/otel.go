// Package mocks provides an otel.Otel that records spans in memory.
package mocks

import (
	"context"
	"maps"
	"staybook/infras/otel"
	"sync"
)

type span struct {
	name       string
	attributes map[string]any
	errors     []error
}

type Recorder struct {
	mu    sync.Mutex
	spans []*span
}

func NewOtel() otel.Otel {
	return NewRecorder()
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &span{name: spanName, attributes: map[string]any{}}
	r.spans = append(r.spans, s)

	return ctx, &scope{recorder: r, span: s}
}

// Shutdown implements otel.Otel.
func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

// Spans returns the span names in the order they were opened.
func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.spans))
	for _, s := range r.spans {
		names = append(names, s.name)
	}

	return names
}

// Errors returns the errors traced on spans named spanName.
func (r *Recorder) Errors(spanName string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error

	for _, s := range r.spans {
		if s.name == spanName {
			errs = append(errs, s.errors...)
		}
	}

	return errs
}

// Attributes returns the attributes of the last span named spanName, nil if there is none.
func (r *Recorder) Attributes(spanName string) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.spans) - 1; i >= 0; i-- {
		if r.spans[i].name == spanName {
			return maps.Clone(r.spans[i].attributes)
		}
	}

	return nil
}

type scope struct {
	recorder *Recorder
	span     *span
}

func (s *scope) End() {}

func (s *scope) SetName(name string) {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.span.name = name
}

func (s *scope) TraceError(err error) {
	if err == nil {
		return
	}

	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.span.errors = append(s.span.errors, err)
}

func (s *scope) TraceIfError(err error) {
	s.TraceError(err)
}

func (s *scope) AddEvent(_ string) {}

func (s *scope) SetAttribute(key string, value any) {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.span.attributes[key] = value
}

func (s *scope) SetAttributes(attributes map[string]any) {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	maps.Copy(s.span.attributes, attributes)
}
