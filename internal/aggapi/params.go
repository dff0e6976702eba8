package aggapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/weather-app/weather-pipeline/internal/aggregate"
	"github.com/weather-app/weather-pipeline/internal/models"
)

const (
	minDays = 1
	maxDays = 10

	// Applied when a days value is present but not an integer. An absent
	// value defaults to 1 instead.
	fallbackDays = 5
)

// AggregationParams is the validated form of a /weather/:city request.
// Unlike the storage service validator, unrecognized agg/unit values and
// unparseable day counts fall back silently instead of failing.
type AggregationParams struct {
	City string
	Date time.Time
	Days int
	Agg  aggregate.Mode
	Unit aggregate.Unit

	violations []string
}

func (p *AggregationParams) IsValid() bool {
	return len(p.violations) == 0
}

func (p *AggregationParams) ErrorMessage() string {
	return strings.Join(p.violations, " ")
}

func (p *AggregationParams) Violations() []string {
	return p.violations
}

// ValidateAggregationParams checks the path city and query parameters of
// an aggregation request. All checks run; violations accumulate.
func ValidateAggregationParams(city string, values url.Values) AggregationParams {
	p := AggregationParams{
		Days: minDays,
		Agg:  aggregate.ModeDaily,
		Unit: aggregate.UnitCelsius,
	}

	p.City = strings.TrimSpace(city)
	if p.City == "" {
		p.violations = append(p.violations, `"city" parameter is required.`)
	}

	dateStr := strings.TrimSpace(values.Get("date"))
	if dateStr == "" {
		p.violations = append(p.violations, `"date" parameter is required.`)
	} else {
		date, err := time.Parse(models.DateOnly, dateStr)
		if err != nil {
			p.violations = append(p.violations, `"date" format was incorrect. Expected format is 'YYYY-MM-DD'.`)
		} else {
			p.Date = date
		}
	}

	if raw := strings.TrimSpace(values.Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			p.Days = fallbackDays
		} else {
			p.Days = min(maxDays, max(minDays, days))
		}
	}

	agg := aggregate.Mode(strings.ToLower(strings.TrimSpace(values.Get("agg"))))
	if agg == aggregate.ModeRolling7 {
		p.Agg = aggregate.ModeRolling7
	}

	unit := aggregate.Unit(strings.ToUpper(strings.TrimSpace(values.Get("unit"))))
	if unit == aggregate.UnitFahrenheit {
		p.Unit = aggregate.UnitFahrenheit
	}

	return p
}
