package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNoopTracer(t *testing.T) {
	_, span := NoopTracer().Start(context.Background(), "noop")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("Expected the no-op tracer to produce invalid span contexts")
	}
}

func TestTracer_UsesGlobalProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(previous)

	_, span := Tracer("test").Start(context.Background(), "test.span")
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 recorded span, got %d", len(spans))
	}
	if spans[0].Name() != "test.span" {
		t.Errorf("Expected span name test.span, got %q", spans[0].Name())
	}
	if got := spans[0].InstrumentationScope().Name; got != "captain-veggie/test" {
		t.Errorf("Expected scope captain-veggie/test, got %q", got)
	}
}
