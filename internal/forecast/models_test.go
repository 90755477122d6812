package forecast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/fasalmitra/internal/forecast"
)

func TestParseDate(t *testing.T) {
	d, err := forecast.ParseDate("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", d.String())

	_, err = forecast.ParseDate("15-01-2026")
	require.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	d, err := forecast.ParseDate("2026-01-15")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-15"`, string(b))

	var decoded forecast.Date
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, d, decoded)
}

func TestDate_Before(t *testing.T) {
	a, err := forecast.ParseDate("2026-01-14")
	require.NoError(t, err)
	b, err := forecast.ParseDate("2026-01-15")
	require.NoError(t, err)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}
