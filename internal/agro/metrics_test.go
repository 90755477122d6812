package agro_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fasalmitra/fasalmitra/internal/agro"
	"github.com/fasalmitra/fasalmitra/internal/forecast"
)

func TestComputeMetrics(t *testing.T) {
	m := agro.ComputeMetrics(forecast.DailyObservation{
		TempMax:  30,
		TempMin:  20,
		PrecipMM: 4,
	})

	assert.Equal(t, 25.0, m.Temp)

	// 0.0023 * sqrt(10) * (25 + 17.8)
	wantET0 := 0.0023 * math.Sqrt(10) * 42.8
	assert.InDelta(t, wantET0, m.ET0, 1e-9)
	assert.InDelta(t, 4/(wantET0+0.01), m.AridityIndex, 1e-9)
}

func TestComputeMetrics_ZeroDiurnalRange(t *testing.T) {
	m := agro.ComputeMetrics(forecast.DailyObservation{
		TempMax:  22,
		TempMin:  22,
		PrecipMM: 1,
	})

	assert.Equal(t, 0.0, m.ET0)
	assert.InDelta(t, 100.0, m.AridityIndex, 1e-9) // 1 / 0.01
}

func TestComputeMetrics_InvertedRange(t *testing.T) {
	// A provider glitch can report temp_max below temp_min. The diurnal
	// range is undefined, so ET0 and the aridity index are NaN.
	m := agro.ComputeMetrics(forecast.DailyObservation{
		TempMax: 18,
		TempMin: 22,
	})

	assert.True(t, math.IsNaN(m.ET0))
	assert.True(t, math.IsNaN(m.AridityIndex))
}

func TestComputeMetrics_NoPrecipitation(t *testing.T) {
	m := agro.ComputeMetrics(forecast.DailyObservation{
		TempMax:  40,
		TempMin:  25,
		PrecipMM: 0,
	})

	assert.Equal(t, 0.0, m.AridityIndex)
}
