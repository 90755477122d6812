package forecast

import (
	"encoding/json"
	"errors"
	"time"
)

// Forecast errors.
var (
	ErrProviderUnavailable = errors.New("forecast provider unavailable")
	ErrEmptyForecast       = errors.New("forecast provider returned no daily data")
)

const dateLayout = "2006-01-02"

// Date is a calendar date that marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// DailyRecord is one day of daily-resolution fields as returned by the
// forecast provider, before humidity has been merged in.
type DailyRecord struct {
	Date      Date
	TempMax   float64 // degrees Celsius
	TempMin   float64 // degrees Celsius
	PrecipMM  float64 // daily precipitation total, mm
	WindSpeed float64 // km/h
	WindGusts float64 // km/h
}

// HumiditySample is one hourly relative humidity reading.
type HumiditySample struct {
	Time     time.Time
	Humidity float64 // percent (0-100)
}

// DailyObservation is the normalized per-day weather record: the daily
// fields plus the daily mean relative humidity.
//
// Humidity is NaN only when the provider's hourly series was entirely
// empty; gaps within the series are filled forward then backward.
type DailyObservation struct {
	Date      Date
	TempMax   float64
	TempMin   float64
	PrecipMM  float64
	WindSpeed float64
	WindGusts float64
	Humidity  float64
}
