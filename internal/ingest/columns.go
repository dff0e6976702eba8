package ingest

import (
	"github.com/weather-app/weather-pipeline/internal/models"
)

// column binds one positional CSV field to a WeatherRecord field. required
// columns reject the whole row when they fail to parse; optional ones leave
// the field null instead.
type column struct {
	name     string
	required bool
	bind     func(rec *models.WeatherRecord, raw string) error
}

// weatherColumns is the fixed CSV column order:
// date;city;temp_max;temp_min;precipitation;cloudiness
var weatherColumns = []column{
	{
		name:     "date",
		required: true,
		bind: func(rec *models.WeatherRecord, raw string) error {
			date, err := ParseDate(raw)
			if err != nil {
				return err
			}
			rec.Date = date
			return nil
		},
	},
	{
		// An empty city is accepted here; the read path enforces
		// non-emptiness in its own validator.
		name: "city",
		bind: func(rec *models.WeatherRecord, raw string) error {
			rec.City = raw
			return nil
		},
	},
	{
		name: "temp_max",
		bind: bindMeasurement(func(rec *models.WeatherRecord, v *float64) { rec.TempMax = v }),
	},
	{
		name: "temp_min",
		bind: bindMeasurement(func(rec *models.WeatherRecord, v *float64) { rec.TempMin = v }),
	},
	{
		name: "precipitation",
		bind: bindMeasurement(func(rec *models.WeatherRecord, v *float64) { rec.Precipitation = v }),
	},
	{
		name: "cloudiness",
		bind: bindMeasurement(func(rec *models.WeatherRecord, v *float64) { rec.Cloudiness = v }),
	},
}

func bindMeasurement(set func(rec *models.WeatherRecord, v *float64)) func(*models.WeatherRecord, string) error {
	return func(rec *models.WeatherRecord, raw string) error {
		v, err := ParseDecimal(raw)
		if err != nil {
			return err
		}
		set(rec, &v)
		return nil
	}
}
