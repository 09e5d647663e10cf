// Package application holds the pieces every application service shares:
// each use case runs in its own unit of work inside its own span.
package application

import (
	"context"

	"ordercore/domain/shared"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Run executes fn in a fresh unit of work inside a span called name.
func Run(ctx context.Context, tracer trace.Tracer, uows shared.UnitOfWorkFactory, name string,
	fn func(ctx context.Context, uow shared.UnitOfWork) error) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	uow := uows.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		return fn(ctx, uow)
	})
	record(span, err)
	return err
}

// Query runs a read-only fn inside a span called name.
func Query[T any](ctx context.Context, tracer trace.Tracer, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	result, err := fn(ctx)
	record(span, err)
	return result, err
}

func record(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
