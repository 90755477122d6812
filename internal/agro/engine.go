// Package agro derives agronomic stress indices from normalized weather
// observations and evaluates crop-specific advisory rules over them.
package agro

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/fasalmitra/fasalmitra/internal/forecast"
	"github.com/fasalmitra/fasalmitra/internal/knowledge"
)

// Fixed recommendation sentences.
const (
	// NoCropText substitutes rule evaluation when no crop was requested.
	NoCropText = "No crop specified. Showing general weather data only."

	// FavorableText is used when no rule fires for a day.
	FavorableText = "Conditions are favorable. Monitor the crop."

	// NoWarningsText is the sole key insight when no day is critical.
	NoWarningsText = "No critical warnings identified. Conditions are generally stable."
)

// UnknownCropText is the per-day recommendation for a crop the knowledge
// base does not cover.
func UnknownCropText(cropName string) string {
	return fmt.Sprintf("No knowledge base for '%s'.", cropName)
}

// Engine evaluates the crop knowledge base over normalized observations.
// The knowledge base is immutable after construction, so one Engine may
// serve concurrent analyses.
type Engine struct {
	kb     *knowledge.KnowledgeBase
	logger zerolog.Logger
}

// NewEngine creates a rule engine bound to a loaded knowledge base.
func NewEngine(kb *knowledge.KnowledgeBase, logger zerolog.Logger) *Engine {
	return &Engine{kb: kb, logger: logger}
}

// Analyze computes derived metrics, stress flags and recommendations for
// every observation and synthesizes the summary and critical-day warnings.
//
// cropName may be empty (no rule evaluation) or unknown (flags and metrics
// are still produced, the recommendation states the gap). Single pass,
// stateless, pure given its inputs.
func (e *Engine) Analyze(district string, observations []forecast.DailyObservation, cropName string) (*ForecastResult, error) {
	if len(observations) == 0 {
		return nil, forecast.ErrEmptyForecast
	}

	var rules []knowledge.Rule
	cropKnown := false
	if cropName != "" {
		rules, cropKnown = e.kb.Rules(cropName)
		if !cropKnown {
			e.logger.Warn().
				Str("crop", cropName).
				Msg("crop not in knowledge base, returning weather data without recommendations")
		}
	}

	daily := make([]DayOutlook, 0, len(observations))
	var warnings []string
	var tempMaxSum, precipSum float64
	challenging := false

	for _, obs := range observations {
		metrics := ComputeMetrics(obs)
		flags := ClassifyFlags(obs, metrics)

		recommendation, firedAlert := e.recommend(obs, metrics, cropName, rules, cropKnown)

		critical := flags.AnyAlert() || firedAlert
		if critical {
			challenging = true
			warnings = append(warnings, fmt.Sprintf("On %s: %s", obs.Date, recommendation))
		}

		daily = append(daily, DayOutlook{
			Date:           obs.Date,
			TempMax:        round1(obs.TempMax),
			TempMin:        round1(obs.TempMin),
			PrecipMM:       round1(obs.PrecipMM),
			Humidity:       roundHumidity(obs.Humidity),
			WindSpeed:      round1(obs.WindSpeed),
			Flags:          flags,
			Recommendation: recommendation,
		})

		tempMaxSum += obs.TempMax
		precipSum += obs.PrecipMM
	}

	if len(warnings) == 0 {
		warnings = []string{NoWarningsText}
	}

	return &ForecastResult{
		District:    district,
		Crop:        cropName,
		Summary:     summarize(district, cropName, len(observations), tempMaxSum/float64(len(observations)), precipSum, challenging),
		KeyInsights: warnings,
		Daily:       daily,
	}, nil
}

// recommend evaluates the crop rule set for one day. The second return
// reports whether any fired rule carries an alert-level severity.
func (e *Engine) recommend(obs forecast.DailyObservation, metrics DerivedMetrics, cropName string, rules []knowledge.Rule, cropKnown bool) (string, bool) {
	if cropName == "" {
		return NoCropText, false
	}
	if !cropKnown {
		return UnknownCropText(cropName), false
	}

	vars := conditionVars(obs, metrics)

	var fired []string
	firedAlert := false
	for _, rule := range rules {
		if !rule.Matches(vars) {
			continue
		}
		fired = append(fired, rule.Render())
		if rule.IsAlert() {
			firedAlert = true
		}
	}

	if len(fired) == 0 {
		return FavorableText, false
	}
	return strings.Join(fired, " | "), firedAlert
}

// conditionVars binds the observation and derived fields under the names
// rule conditions may reference.
func conditionVars(o forecast.DailyObservation, m DerivedMetrics) map[string]float64 {
	return map[string]float64{
		"temp_max":      o.TempMax,
		"temp_min":      o.TempMin,
		"precip_mm":     o.PrecipMM,
		"wind_speed":    o.WindSpeed,
		"wind_gusts":    o.WindGusts,
		"humidity":      o.Humidity,
		"temp":          m.Temp,
		"et0":           m.ET0,
		"aridity_index": m.AridityIndex,
	}
}

func summarize(district, cropName string, days int, meanTempMax, totalPrecip float64, challenging bool) string {
	verdict := "favorable"
	if challenging {
		verdict = "challenging"
	}

	subject := titleCase(district)
	if cropName != "" {
		subject = titleCase(cropName) + " in " + titleCase(district)
	}

	return fmt.Sprintf(
		"%d-day forecast for %s. Average max temperature: %.1f°C. Total precipitation: %.1f mm. Overall conditions appear %s.",
		days, subject, meanTempMax, totalPrecip, verdict,
	)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// roundHumidity rounds to one decimal, mapping NaN (no humidity data at
// all) to nil so it serializes as null rather than breaking JSON encoding.
func roundHumidity(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	r := round1(v)
	return &r
}

// titleCase uppercases the first rune of each space-separated word. District
// and crop names arrive in any script, so the first letter cannot be assumed
// single-byte or cased.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
