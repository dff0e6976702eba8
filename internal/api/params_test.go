package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeQuery(city, from, to string) url.Values {
	values := url.Values{}
	values.Set("city", city)
	values.Set("from", from)
	values.Set("to", to)
	return values
}

func TestValidateQueryParams(t *testing.T) {
	t.Run("valid query with defaults", func(t *testing.T) {
		p := ValidateQueryParams(rangeQuery("Paris", "2024-01-01", "2024-01-31"))

		assert.True(t, p.IsValid())
		assert.Equal(t, "Paris", p.City)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
	})

	t.Run("all violations accumulate", func(t *testing.T) {
		values := url.Values{}
		values.Set("page", "abc")
		values.Set("limit", "xyz")

		p := ValidateQueryParams(values)
		require.False(t, p.IsValid())
		assert.Len(t, p.Violations(), 5)

		msg := p.ErrorMessage()
		assert.Contains(t, msg, `"city" parameter is required.`)
		assert.Contains(t, msg, `"from" parameter is required.`)
		assert.Contains(t, msg, `"to" parameter is required.`)
		assert.Contains(t, msg, `"page" parameter needs to be an integer.`)
		assert.Contains(t, msg, `"limit" parameter needs to be an integer.`)
	})

	t.Run("violations keep declaration order", func(t *testing.T) {
		values := url.Values{}
		values.Set("page", "abc")

		p := ValidateQueryParams(values)
		require.Len(t, p.Violations(), 4)
		assert.Equal(t, `"city" parameter is required.`, p.Violations()[0])
		assert.Equal(t, `"page" parameter needs to be an integer.`, p.Violations()[3])
	})

	t.Run("from after to", func(t *testing.T) {
		p := ValidateQueryParams(rangeQuery("Paris", "2024-02-01", "2024-01-01"))
		require.False(t, p.IsValid())
		assert.Contains(t, p.ErrorMessage(), `"from" date needs to be before the "to" date.`)
	})

	t.Run("from equal to to is valid", func(t *testing.T) {
		p := ValidateQueryParams(rangeQuery("Paris", "2024-01-01", "2024-01-01"))
		assert.True(t, p.IsValid())
	})

	t.Run("explicit pagination", func(t *testing.T) {
		values := rangeQuery("Paris", "2024-01-01", "2024-01-31")
		values.Set("page", "3")
		values.Set("limit", "25")

		p := ValidateQueryParams(values)
		require.True(t, p.IsValid())
		assert.Equal(t, 3, p.Page)
		assert.Equal(t, 25, p.Limit)
	})

	t.Run("non-positive pagination clamps to 1", func(t *testing.T) {
		values := rangeQuery("Paris", "2024-01-01", "2024-01-31")
		values.Set("page", "0")
		values.Set("limit", "-5")

		p := ValidateQueryParams(values)
		require.True(t, p.IsValid())
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.Limit)
	})

	t.Run("validation is idempotent", func(t *testing.T) {
		values := rangeQuery("", "2024-02-01", "2024-01-01")

		first := ValidateQueryParams(values)
		second := ValidateQueryParams(values)
		assert.Equal(t, first.Violations(), second.Violations())
	})

	t.Run("parameters are trimmed", func(t *testing.T) {
		p := ValidateQueryParams(rangeQuery("  Paris ", " 2024-01-01", "2024-01-31 "))
		require.True(t, p.IsValid())
		assert.Equal(t, "Paris", p.City)
		assert.Equal(t, "2024-01-01", p.From)
		assert.Equal(t, "2024-01-31", p.To)
	})
}
