package shared_test

import (
	"purohit/shared"
	"purohit/shared/constant"
	"purohit/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformFields(t *testing.T) {
	type update struct {
		Status  string  `db:"status"`
		Name    string  `db:"name"`
		Note    *string `db:"note"`
		Skipped string  `db:"-"`
		NoTag   string
	}

	t.Run("keeps non-zero tagged fields and stamps updated_at", func(t *testing.T) {
		note := "call before arriving"

		result := shared.TransformFields(update{Status: "confirmed", Note: &note, Skipped: "x", NoTag: "y"})

		assert.Equal(t, "confirmed", result["status"])
		assert.Equal(t, note, result["note"])
		assert.NotContains(t, result, "name")
		assert.NotContains(t, result, "-")
		assert.Len(t, result, 3)

		_, ok := result[constant.FieldUpdatedAt].(time.Time)
		assert.True(t, ok)
	})

	t.Run("zero struct only stamps updated_at", func(t *testing.T) {
		result := shared.TransformFields(update{})

		require.Len(t, result, 1)
		assert.Contains(t, result, constant.FieldUpdatedAt)
	})

	t.Run("accepts a pointer", func(t *testing.T) {
		result := shared.TransformFields(&update{Name: "Asha"})

		assert.Equal(t, "Asha", result["name"])
	})
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("550e8400-e29b-41d4-a716-446655440000", "id", "bookings")

	require.Len(t, result.Filters, 1)
	assert.Equal(t, dto.Filter{
		Field:    "id",
		Value:    "550e8400-e29b-41d4-a716-446655440000",
		Operator: dto.FilterOperatorEq,
		Table:    "bookings",
	}, result.Filters[0])

	where, args := result.GetWhereClause()
	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{name: "prefix only", prefix: "limiter", expected: "limiter"},
		{name: "prefix with parts", prefix: "limiter", parts: []string{"10.0.0.1", "curl"}, expected: "limiter:10.0.0.1:curl"},
		{name: "revoked token", prefix: "session:revoked", parts: []string{"jti-1"}, expected: "session:revoked:jti-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.BuildCacheKey(tt.prefix, tt.parts...))
		})
	}
}
