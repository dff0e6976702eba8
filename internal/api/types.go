package api

type weatherLine struct {
	ID            int64    `json:"id"`
	Date          string   `json:"date"`
	City          string   `json:"city"`
	TempMax       *float64 `json:"temp_max"`
	TempMin       *float64 `json:"temp_min"`
	Precipitation *float64 `json:"precipitation"`
	Cloudiness    *float64 `json:"cloudiness"`
}

type day struct {
	Date          string   `json:"date"`
	City          string   `json:"city"`
	TempMax       *float64 `json:"temp_max"`
	TempMin       *float64 `json:"temp_min"`
	Precipitation *float64 `json:"precipitation"`
	Cloudiness    *float64 `json:"cloudiness"`
}
