package otel

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Scope is one span as seen by the layer that opened it.
type Scope interface {
	End()
	SetName(name string)
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scope struct {
	span oteltrace.Span
}

func NewScope(span oteltrace.Span) Scope {
	return &scope{span: span}
}

func (s *scope) End() {
	s.span.End()
}

// SetName renames the span, for names only known once the work has run.
func (s *scope) SetName(name string) {
	s.span.SetName(name)
}

// TraceError marks the span failed. A nil err is ignored.
func (s *scope) TraceError(err error) {
	if err == nil {
		return
	}

	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scope) TraceIfError(err error) {
	s.TraceError(err)
}

func (s *scope) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scope) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *scope) SetAttributes(attributes map[string]any) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, toAttribute(key, value))
	}

	s.span.SetAttributes(kvs...)
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Milliseconds())
	case time.Time:
		return attribute.String(key, v.UTC().Format(time.RFC3339))
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
