package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/weather-app/weather-pipeline/internal/models"
)

var errEmptyField = errors.New("empty field")

// ParseDate parses a CSV date field in YYYY/MM/DD format. Leading and
// trailing whitespace is ignored; an empty field is an error.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errEmptyField
	}

	date, err := time.Parse(models.CSVDate, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY/MM/DD", raw)
	}
	return date, nil
}

// ParseDecimal parses a measurement field, tolerating a comma as decimal
// separator ("12,5" and "12.5" both parse to 12.5).
func ParseDecimal(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errEmptyField
	}

	raw = strings.Replace(raw, ",", ".", 1)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q", raw)
	}
	return v, nil
}

// RowResult is the per-line verdict of the row parser: either a record
// ready for storage, or a rejection reason used for logging and counting.
type RowResult struct {
	Record *models.WeatherRecord
	Reason string
}

// OK reports whether the row parsed well enough to be stored.
func (r RowResult) OK() bool {
	return r.Reason == ""
}

// ParseRow splits one CSV line on ';' and binds each field to its column by
// position. A failed required column rejects the row; a failed measurement
// column leaves that field null. Rows with fewer fields than columns are
// accepted with the trailing columns left at their zero value.
func ParseRow(line string) RowResult {
	fields := strings.Split(strings.TrimSpace(line), ";")

	rec := &models.WeatherRecord{}
	for i, col := range weatherColumns {
		if i >= len(fields) {
			break
		}

		if err := col.bind(rec, strings.TrimSpace(fields[i])); err != nil {
			if col.required {
				return RowResult{Reason: fmt.Sprintf("column %s: %v", col.name, err)}
			}
		}
	}

	return RowResult{Record: rec}
}
