package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPredicates(t *testing.T) {
	cases := []struct {
		status                                      Status
		editable, cancellable, shippable, finalized bool
		reduced                                     ReducedStatus
	}{
		{StatusCreated, true, true, false, false, ReducedCreated},
		{StatusPendingPayment, true, true, false, false, ReducedCreated},
		{StatusPaid, false, true, true, false, ReducedPlaced},
		{StatusProcessing, false, true, true, false, ReducedPlaced},
		{StatusShipped, false, false, false, false, ReducedPlaced},
		{StatusDelivered, false, false, false, true, ReducedCompleted},
		{StatusCancelled, false, false, false, true, ReducedCancelled},
		{StatusReturned, false, false, false, true, ReducedCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.editable, tc.status.IsEditable())
			assert.Equal(t, tc.cancellable, tc.status.IsCancellable())
			assert.Equal(t, tc.shippable, tc.status.IsShippable())
			assert.Equal(t, tc.finalized, tc.status.IsFinalized())
			assert.Equal(t, tc.reduced, tc.status.Reduced())
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("PENDING_PAYMENT")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingPayment, s)

	_, err = ParseStatus("pending")
	assert.Error(t, err)
}
