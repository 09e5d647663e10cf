package specification

import (
	"context"
	"testing"
	"time"

	"ordercore/domain/order"
	"ordercore/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestTranslateOrderLeaves(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		spec shared.Specification[*order.Order]
		want clause.Expression
	}{
		{"customer", order.NewByCustomerIDSpecification("c-1"), clause.Eq{Column: "customer_id", Value: "c-1"}},
		{"status", order.NewByStatusSpecification(order.StatusPaid), clause.Eq{Column: "status", Value: "PAID"}},
		{"open ended range", order.NewByDateRangeSpecification(start, time.Time{}),
			clause.And(clause.Gte{Column: "created_at", Value: start})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TranslateOrder(tt.spec)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateOrderComposites(t *testing.T) {
	spec := shared.And(
		order.NewByCustomerIDSpecification("c-1"),
		shared.Not(order.NewByStatusSpecification(order.StatusCancelled)),
	)

	got, ok := TranslateOrder(spec)
	require.True(t, ok)
	assert.Equal(t, clause.And(
		clause.Eq{Column: "customer_id", Value: "c-1"},
		clause.Not(clause.Eq{Column: "status", Value: "CANCELLED"}),
	), got)
}

func TestTranslateOrderRejectsPredicates(t *testing.T) {
	anything := shared.SpecFunc[*order.Order](func(context.Context, *order.Order) bool { return true })

	_, ok := TranslateOrder(anything)
	assert.False(t, ok)

	_, ok = TranslateOrder(shared.Or(order.NewByStatusSpecification(order.StatusPaid), anything))
	assert.False(t, ok, "one untranslatable side spoils the whole tree")
}
