package models

import "time"

// DateOnly is the wire format for calendar days on the query path.
const DateOnly = "2006-01-02"

// CSVDate is the date format used inside uploaded CSV files.
const CSVDate = "2006/01/02"

// WeatherRecord is one daily observation for a city. The surrogate ID is
// assigned by storage on insert and never changes. The four measurement
// fields are independently nullable; date and city are required for a row
// to be persisted.
type WeatherRecord struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"-"`
	City          string    `json:"city"`
	TempMax       *float64  `json:"temp_max"`
	TempMin       *float64  `json:"temp_min"`
	Precipitation *float64  `json:"precipitation"`
	Cloudiness    *float64  `json:"cloudiness"`
}

// DateString renders the record date in the query-path wire format.
func (r *WeatherRecord) DateString() string {
	return r.Date.Format(DateOnly)
}

// IngestionSummary reports the outcome of one CSV upload. It is ephemeral:
// built per request, returned to the caller, never persisted.
type IngestionSummary struct {
	UploadID     string        `json:"upload_id"`
	RowsInserted int           `json:"rows_inserted"`
	RowsRejected int           `json:"rows_rejected"`
	Elapsed      time.Duration `json:"-"`
	ElapsedMS    int64         `json:"elapsed_ms"`
	FileChecksum string        `json:"file_checksum"`
}
