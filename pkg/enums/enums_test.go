package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusFulfilled))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusCancelled))

	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusFulfilled))
	assert.False(t, OrderStatusFulfilled.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusConfirmed))
	assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPending))

	assert.True(t, OrderStatusFulfilled.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusConfirmed.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusConfirmed, status)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.False(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusFailed))
	assert.False(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusPaid))
	assert.False(t, PaymentStatus("refunded").IsValid())
}

func TestParseAddressTypeDefaultsToHome(t *testing.T) {
	kind, err := ParseAddressType("  ")
	require.NoError(t, err)
	assert.Equal(t, AddressTypeHome, kind)

	kind, err = ParseAddressType("Work")
	require.NoError(t, err)
	assert.Equal(t, AddressTypeWork, kind)

	_, err = ParseAddressType("villa")
	assert.Error(t, err)
}

func TestSectionFilters(t *testing.T) {
	section, ok := SectionForFilter("deals")
	require.True(t, ok)
	assert.Equal(t, SectionBestDeals, section)

	_, ok = SectionForFilter("all")
	assert.False(t, ok)

	parsed, err := ParseSection("New Arrivals")
	require.NoError(t, err)
	assert.Equal(t, SectionNewArrivals, parsed)
	assert.Len(t, Sections, 3)
}
