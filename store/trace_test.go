package store

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDispatchSpans(t *testing.T) {
	ctx := context.Background()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	s := newStore(t)
	s.tracer = tp.Tracer(tracerName)

	p, _ := s.Product(ctx, "2")
	s.AddToCart(ctx, "1", p)
	s.ClearCart(ctx, "1")
	s.Checkout(ctx, "1")

	spans := rec.Ended()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	if spans[0].Name() != "store.cart.item_added" {
		t.Fatalf("unexpected span name %s", spans[0].Name())
	}
	if spans[2].Status().Code != codes.Error {
		t.Fatal("refused checkout not marked as an error")
	}
}
