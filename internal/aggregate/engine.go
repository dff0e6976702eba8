package aggregate

// Mode selects how a run of daily records is aggregated.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModeRolling7 Mode = "rolling7"
)

// Unit is the temperature unit of the aggregated output.
type Unit string

const (
	UnitCelsius    Unit = "C"
	UnitFahrenheit Unit = "F"
)

// RollingWindow is the fixed trailing window of the rolling7 mode. Means
// are always divided by this size, never by the count of non-null inputs.
const RollingWindow = 7

// Day is one raw upstream day. Measurement fields are nil when the stored
// value is null.
type Day struct {
	Date          string   `json:"date"`
	City          string   `json:"city,omitempty"`
	TempMax       *float64 `json:"temp_max"`
	TempMin       *float64 `json:"temp_min"`
	Precipitation *float64 `json:"precipitation"`
	Cloudiness    *float64 `json:"cloudiness"`
}

// DailyDay is the daily-mode output: the input day passed through with a
// derived temperature mean.
type DailyDay struct {
	Date          string   `json:"date"`
	TempMin       *float64 `json:"temp_min"`
	TempMax       *float64 `json:"temp_max"`
	TempMean      *float64 `json:"temp_mean"`
	Precipitation *float64 `json:"precipitation"`
	Cloudiness    *float64 `json:"cloudiness"`
}

// RollingDay is the rolling7-mode output for one day.
type RollingDay struct {
	Date                     string   `json:"date"`
	TempRollingMean          *float64 `json:"temp_rolling_mean"`
	CloudinessRollingMean    *float64 `json:"cloudiness_rolling_mean"`
	PrecipitationRollingMean *float64 `json:"precipitation_rolling_mean"`
}

// CToF converts a Celsius temperature to Fahrenheit.
func CToF(c float64) float64 {
	return c*9.0/5.0 + 32.0
}

func convert(v *float64, unit Unit) *float64 {
	if v == nil || unit != UnitFahrenheit {
		return v
	}
	f := CToF(*v)
	return &f
}

// Daily passes each input day through unchanged, adding the derived
// temp_mean = (temp_min + temp_max) / 2. Each field propagates null
// independently; temperatures are converted when unit is Fahrenheit,
// precipitation and cloudiness never are.
func Daily(days []Day, unit Unit) []DailyDay {
	out := make([]DailyDay, 0, len(days))
	for _, d := range days {
		day := DailyDay{
			Date:          d.Date,
			TempMin:       convert(d.TempMin, unit),
			TempMax:       convert(d.TempMax, unit),
			Precipitation: d.Precipitation,
			Cloudiness:    d.Cloudiness,
		}
		if d.TempMin != nil && d.TempMax != nil {
			mean := (*d.TempMin + *d.TempMax) / 2
			day.TempMean = convert(&mean, unit)
		}
		out = append(out, day)
	}
	return out
}

// Rolling7 computes trailing 7-day means over a date-ordered run of raw
// days. The first RollingWindow-1 days are lookback only: len(days)-6
// outputs are produced, one per remaining day. A null temp_min or temp_max
// anywhere in a window nulls that window's temperature mean; cloudiness and
// precipitation propagate nulls independently from their own inputs. Only
// the temperature mean is unit-converted. Fewer than 7 input days produce
// no output at all.
func Rolling7(days []Day, unit Unit) []RollingDay {
	out := []RollingDay{}
	for end := RollingWindow; end <= len(days); end++ {
		window := days[end-RollingWindow : end]

		var tempSum, cloudSum, precipSum float64
		tempNull, cloudNull, precipNull := false, false, false

		for _, d := range window {
			if d.TempMin == nil || d.TempMax == nil {
				tempNull = true
			} else {
				tempSum += (*d.TempMin + *d.TempMax) / 2
			}
			if d.Cloudiness == nil {
				cloudNull = true
			} else {
				cloudSum += *d.Cloudiness
			}
			if d.Precipitation == nil {
				precipNull = true
			} else {
				precipSum += *d.Precipitation
			}
		}

		day := RollingDay{Date: window[RollingWindow-1].Date}
		if !tempNull {
			mean := tempSum / RollingWindow
			day.TempRollingMean = convert(&mean, unit)
		}
		if !cloudNull {
			mean := cloudSum / RollingWindow
			day.CloudinessRollingMean = &mean
		}
		if !precipNull {
			mean := precipSum / RollingWindow
			day.PrecipitationRollingMean = &mean
		}
		out = append(out, day)
	}
	return out
}
