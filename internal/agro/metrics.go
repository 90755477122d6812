package agro

import (
	"math"

	"github.com/fasalmitra/fasalmitra/internal/forecast"
)

// DerivedMetrics are the per-day indices computed from one observation.
type DerivedMetrics struct {
	// Temp is the midpoint of the daily temperature extremes.
	Temp float64

	// ET0 is a Hargreaves-style reference evapotranspiration estimate.
	// NaN when temp_max < temp_min (the diurnal range is undefined).
	ET0 float64

	// AridityIndex is precipitation over ET0. The +0.01 offset keeps the
	// ratio finite when ET0 is near zero.
	AridityIndex float64
}

// ComputeMetrics derives the stress indices for one observation.
// Pure per-row function, no cross-day dependency.
func ComputeMetrics(o forecast.DailyObservation) DerivedMetrics {
	temp := (o.TempMin + o.TempMax) / 2
	et0 := 0.0023 * math.Sqrt(o.TempMax-o.TempMin) * (temp + 17.8)
	return DerivedMetrics{
		Temp:         temp,
		ET0:          et0,
		AridityIndex: o.PrecipMM / (et0 + 0.01),
	}
}
