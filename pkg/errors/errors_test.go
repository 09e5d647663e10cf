package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   ErrorCode
		status int
	}{
		{"order not found", order.NewOrderNotFoundError("o-1"), CodeOrderNotFound, http.StatusNotFound},
		{"wrapped product not found", fmt.Errorf("load: %w", product.NewProductNotFoundError("p-1")), CodeProductNotFound, http.StatusNotFound},
		{"not editable", order.NewNotEditableError("o-1", order.StatusPaid), CodeOrderNotEditable, http.StatusUnprocessableEntity},
		{"bad transition", order.NewInvalidTransitionError("o-1", order.StatusShipped, order.StatusCancelled), CodeInvalidOrderState, http.StatusUnprocessableEntity},
		{"stock", order.NewStockUnavailableError("o-1", []string{"p-1"}), CodeInsufficientStock, http.StatusUnprocessableEntity},
		{"stale version", order.NewConcurrentModificationError("o-1"), CodeConcurrentModification, http.StatusConflict},
		{"last item falls back to kind", order.NewLastItemError("o-1"), CodeConflict, http.StatusConflict},
		{"validation", shared.NewValidationError("money", "currency", "bad"), CodeValidation, http.StatusBadRequest},
		{"plain error", errors.New("disk on fire"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.status, appErr.HTTPStatusCode())
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}

func TestFromDomainErrorKeepsDomainMessage(t *testing.T) {
	appErr := FromDomainError(fmt.Errorf("use case: %w", order.NewLastItemError("o-9")))
	assert.Equal(t, "order o-9: order must have at least one item", appErr.Message)

	internal := FromDomainError(errors.New("connection reset"))
	assert.Equal(t, "internal server error", internal.Message)
}

func TestFromDomainErrorPassesThroughAppError(t *testing.T) {
	original := Validation("bad body")
	assert.Same(t, original, FromDomainError(fmt.Errorf("wrapped: %w", original)))
	assert.Nil(t, FromDomainError(nil))
	assert.True(t, Is(original, CodeValidation))
}
