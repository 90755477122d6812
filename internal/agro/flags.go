package agro

import (
	"encoding/json"

	"github.com/fasalmitra/fasalmitra/internal/forecast"
)

// StressLevel is the categorical classification of one stressor axis.
type StressLevel int

const (
	LevelSafe StressLevel = iota
	LevelCaution
	LevelAlert
)

func (l StressLevel) String() string {
	switch l {
	case LevelCaution:
		return "caution"
	case LevelAlert:
		return "alert"
	default:
		return "safe"
	}
}

// MarshalJSON encodes the level as its lowercase name.
func (l StressLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// StressFlags classify one day on four independent stressor axes.
type StressFlags struct {
	Heat  StressLevel `json:"heat"`
	Cold  StressLevel `json:"cold"`
	Water StressLevel `json:"water"`
	Wind  StressLevel `json:"wind"`
}

// AnyAlert reports whether any axis is at alert level.
func (f StressFlags) AnyAlert() bool {
	return f.Heat == LevelAlert || f.Cold == LevelAlert ||
		f.Water == LevelAlert || f.Wind == LevelAlert
}

// Fixed classification thresholds. Not configurable per crop.
const (
	heatAlertMax   = 38.0 // temp_max above this: heat stress
	heatCautionMax = 32.0

	coldAlertMin   = 5.0 // temp_min below this: frost risk
	coldCautionMin = 10.0

	waterAlertIndex   = 0.5 // aridity index below this: irrigation needed
	waterCautionIndex = 1.0

	windAlertGusts   = 60.0 // gusts above this: lodging risk
	windCautionGusts = 40.0
)

// ClassifyFlags assigns stress levels for one observation. Thresholds are
// strict boundaries: a value exactly at the alert threshold stays one level
// below.
func ClassifyFlags(o forecast.DailyObservation, m DerivedMetrics) StressFlags {
	var f StressFlags

	switch {
	case o.TempMax > heatAlertMax:
		f.Heat = LevelAlert
	case o.TempMax > heatCautionMax:
		f.Heat = LevelCaution
	}

	switch {
	case o.TempMin < coldAlertMin:
		f.Cold = LevelAlert
	case o.TempMin < coldCautionMin:
		f.Cold = LevelCaution
	}

	switch {
	case m.AridityIndex < waterAlertIndex:
		f.Water = LevelAlert
	case m.AridityIndex < waterCautionIndex:
		f.Water = LevelCaution
	}

	switch {
	case o.WindGusts > windAlertGusts:
		f.Wind = LevelAlert
	case o.WindGusts > windCautionGusts:
		f.Wind = LevelCaution
	}

	return f
}
