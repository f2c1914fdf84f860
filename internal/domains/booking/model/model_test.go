package model_test

import (
	"purohit/internal/domains/booking/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNormalize_BackfillsMissingFields(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	record := model.Booking{ID: "b-1", Name: "Asha", Email: "asha@example.com", Phone: "+91 98765 43210", Location: ptr("")}.
		Normalize("BK", now)

	assert.Equal(t, "BKUNKNOWN", record.BookingReference)
	assert.Equal(t, model.DefaultPoojaType, record.PoojaType)
	assert.Equal(t, model.DefaultLocation, record.Location)
	assert.Equal(t, model.StatusPending, record.Status)
	assert.Empty(t, record.UserID)
	assert.Empty(t, record.Date)
	assert.Empty(t, record.Time)
	assert.Empty(t, record.SpecialRequests)
	assert.Equal(t, now, record.CreatedAt)
	assert.Equal(t, now, record.UpdatedAt)
}

func TestNormalize_KeepsStoredValues(t *testing.T) {
	created := time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	stored := model.Booking{
		ID:               "b-2",
		BookingReference: ptr("BK123456"),
		UserID:           ptr("uid-1"),
		PoojaType:        ptr("Lakshmi Puja"),
		Date:             ptr("2026-11-01"),
		Time:             ptr("10:00"),
		Location:         ptr("Pune"),
		Status:           ptr(string(model.StatusConfirmed)),
		CreatedAt:        &created,
		UpdatedAt:        &updated,
	}

	record := stored.Normalize("BK", time.Now())

	assert.Equal(t, "BK123456", record.BookingReference)
	assert.Equal(t, "uid-1", record.UserID)
	assert.Equal(t, "Lakshmi Puja", record.PoojaType)
	assert.Equal(t, "Pune", record.Location)
	assert.Equal(t, model.StatusConfirmed, record.Status)
	assert.Equal(t, created, record.CreatedAt)
	assert.Equal(t, updated, record.UpdatedAt)
}

func TestNormalize_CreatedAtFallsBackToUpdatedAt(t *testing.T) {
	updated := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	record := model.Booking{ID: "b-3", UpdatedAt: &updated}.Normalize("BK", time.Now())

	assert.Equal(t, updated, record.CreatedAt)
	assert.Equal(t, updated, record.UpdatedAt)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Pending Confirmation", model.StatusPending.Label())
	assert.Equal(t, "Unknown", model.Status("archived").Label())

	assert.True(t, model.StatusCompleted.Final())
	assert.True(t, model.StatusCancelled.Final())
	assert.False(t, model.StatusConfirmed.Final())

	assert.True(t, model.StatusCancelled.Settable())
	assert.False(t, model.StatusExpired.Settable())
}
