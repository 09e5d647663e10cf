package shared

import "context"

// Specification encapsulates a query rule over T. In-memory repositories
// evaluate it directly; SQL repositories translate the concrete types they
// know about.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, candidate T) bool
}

// SpecFunc adapts a plain predicate.
type SpecFunc[T any] func(ctx context.Context, candidate T) bool

func (f SpecFunc[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return f(ctx, candidate)
}

type AndSpecification[T any] struct {
	Left, Right Specification[T]
}

func (s AndSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return s.Left.IsSatisfiedBy(ctx, candidate) && s.Right.IsSatisfiedBy(ctx, candidate)
}

func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

type OrSpecification[T any] struct {
	Left, Right Specification[T]
}

func (s OrSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return s.Left.IsSatisfiedBy(ctx, candidate) || s.Right.IsSatisfiedBy(ctx, candidate)
}

func Or[T any](left, right Specification[T]) Specification[T] {
	return OrSpecification[T]{Left: left, Right: right}
}

type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (s NotSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return !s.Spec.IsSatisfiedBy(ctx, candidate)
}

func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}
