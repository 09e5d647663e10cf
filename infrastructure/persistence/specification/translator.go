// Package specification turns order specifications into SQL conditions.
package specification

import (
	"ordercore/domain/order"
	"ordercore/domain/shared"

	"gorm.io/gorm/clause"
)

// TranslateOrder returns the WHERE expression for spec. ok is false when
// some part of spec has no SQL form; the caller then filters in memory.
func TranslateOrder(spec shared.Specification[*order.Order]) (expr clause.Expression, ok bool) {
	switch s := spec.(type) {
	case order.ByCustomerIDSpecification:
		return clause.Eq{Column: "customer_id", Value: s.CustomerID}, true
	case order.ByStatusSpecification:
		return clause.Eq{Column: "status", Value: s.Status.String()}, true
	case order.ByDateRangeSpecification:
		var exprs []clause.Expression
		if !s.Start.IsZero() {
			exprs = append(exprs, clause.Gte{Column: "created_at", Value: s.Start})
		}
		if !s.End.IsZero() {
			exprs = append(exprs, clause.Lte{Column: "created_at", Value: s.End})
		}
		if len(exprs) == 0 {
			return clause.Expr{SQL: "1 = 1"}, true
		}
		return clause.And(exprs...), true
	case order.ContainsProductSpecification:
		return clause.Expr{
			SQL:  "id IN (SELECT order_id FROM order_items WHERE product_id = ?)",
			Vars: []any{s.ProductID},
		}, true
	case shared.AndSpecification[*order.Order]:
		return both(s.Left, s.Right, clause.And)
	case shared.OrSpecification[*order.Order]:
		return both(s.Left, s.Right, clause.Or)
	case shared.NotSpecification[*order.Order]:
		inner, ok := TranslateOrder(s.Spec)
		if !ok {
			return nil, false
		}
		return clause.Not(inner), true
	}
	return nil, false
}

func both(left, right shared.Specification[*order.Order], join func(...clause.Expression) clause.Expression) (clause.Expression, bool) {
	l, ok := TranslateOrder(left)
	if !ok {
		return nil, false
	}
	r, ok := TranslateOrder(right)
	if !ok {
		return nil, false
	}
	return join(l, r), true
}
