package agro

import (
	"github.com/fasalmitra/fasalmitra/internal/forecast"
)

// DayOutlook is one day of the final advisory output. Numeric fields are
// rounded to one decimal for presentation; classification and rule
// evaluation always run on the full-precision values.
type DayOutlook struct {
	Date           forecast.Date `json:"date"`
	TempMax        float64       `json:"temp_max"`
	TempMin        float64       `json:"temp_min"`
	PrecipMM       float64       `json:"precip_mm"`
	Humidity       *float64      `json:"humidity"` // nil when no humidity data exists
	WindSpeed      float64       `json:"wind_speed"`
	Flags          StressFlags   `json:"flags"`
	Recommendation string        `json:"recommendation"`
}

// ForecastResult is the full advisory for one district and forecast window.
type ForecastResult struct {
	District string `json:"district"`
	Crop     string `json:"crop,omitempty"`

	// Summary is a natural-language digest: mean max temperature, total
	// precipitation and an overall favorable/challenging verdict.
	Summary string `json:"summary"`

	// KeyInsights lists critical-day warnings. Never empty: when no day is
	// critical it holds a single all-clear sentence.
	KeyInsights []string `json:"key_insights"`

	Daily []DayOutlook `json:"daily_forecast"`
}
