package siv

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedDAEAD decorates a DeterministicAEAD with OpenTelemetry metrics
// and trace spans. The engine itself stays context-free (operations are
// CPU-bound and never block); the decorator adds the context-aware surface
// that instrumented callers need.
//
// Error details are never attached to spans beyond the error itself, so the
// telemetry cannot become an authentication oracle richer than the API.
type InstrumentedDAEAD struct {
	next    DeterministicAEAD
	metrics OperationMetrics
	tracer  trace.Tracer
}

// NewInstrumentedDAEAD wraps a DeterministicAEAD with metrics recording and
// tracing. The metrics may be nil to record spans only.
func NewInstrumentedDAEAD(next DeterministicAEAD, metrics OperationMetrics, tracer trace.Tracer) *InstrumentedDAEAD {
	return &InstrumentedDAEAD{
		next:    next,
		metrics: metrics,
		tracer:  tracer,
	}
}

// EncryptDeterministically encrypts via the wrapped engine, recording a span
// and operation metrics.
func (d *InstrumentedDAEAD) EncryptDeterministically(
	ctx context.Context,
	plaintext, associatedData []byte,
) ([]byte, error) {
	ctx, span := d.tracer.Start(ctx, "siv.encrypt")
	defer span.End()

	start := time.Now()
	ciphertext, err := d.next.EncryptDeterministically(plaintext, associatedData)
	d.record(ctx, span, "encrypt", time.Since(start), err)

	return ciphertext, err
}

// DecryptDeterministically decrypts via the wrapped engine, recording a span
// and operation metrics.
func (d *InstrumentedDAEAD) DecryptDeterministically(
	ctx context.Context,
	ciphertext, associatedData []byte,
) ([]byte, error) {
	ctx, span := d.tracer.Start(ctx, "siv.decrypt")
	defer span.End()

	start := time.Now()
	plaintext, err := d.next.DecryptDeterministically(ciphertext, associatedData)
	d.record(ctx, span, "decrypt", time.Since(start), err)

	return plaintext, err
}

func (d *InstrumentedDAEAD) record(
	ctx context.Context,
	span trace.Span,
	operation string,
	duration time.Duration,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
	}

	if d.metrics != nil {
		d.metrics.RecordOperation(ctx, operation, status)
		d.metrics.RecordDuration(ctx, operation, duration, status)
	}
}
