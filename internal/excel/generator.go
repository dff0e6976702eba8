package excel

import (
	"fmt"
	"time"

	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/models"
	"github.com/xuri/excelize/v2"
)

// Generator renders query results as an xlsx workbook. Null measurements
// become empty cells.
type Generator struct {
	logger logger.Logger
}

func NewGenerator(log logger.Logger) *Generator {
	return &Generator{
		logger: log.WithField("component", "excel_generator"),
	}
}

func (g *Generator) GenerateWeatherExport(city, from, to string, records []*models.WeatherRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetDocProps(&excelize.DocProperties{
		Title:       fmt.Sprintf("Weather Export - %s", city),
		Subject:     "Daily weather observations",
		Creator:     "weather-store",
		Description: fmt.Sprintf("Weather records for %s, period %s to %s", city, from, to),
		Created:     time.Now().Format(time.RFC3339),
	})

	sheetName := "Weather Data"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "City", "Temp Max (°C)", "Temp Min (°C)", "Precipitation (mm)", "Cloudiness (%)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, rec := range records {
		row := rowIdx + 2

		f.SetCellValue(sheetName, g.cell(1, row), rec.DateString())
		f.SetCellValue(sheetName, g.cell(2, row), rec.City)
		g.setMeasurement(f, sheetName, 3, row, rec.TempMax)
		g.setMeasurement(f, sheetName, 4, row, rec.TempMin)
		g.setMeasurement(f, sheetName, 5, row, rec.Precipitation)
		g.setMeasurement(f, sheetName, 6, row, rec.Cloudiness)
	}

	for i := 1; i <= len(headers); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	g.logger.Infof("Generated export for %s with %d rows", city, len(records))
	return buf.Bytes(), nil
}

func (g *Generator) setMeasurement(f *excelize.File, sheet string, col, row int, v *float64) {
	if v == nil {
		return
	}
	f.SetCellValue(sheet, g.cell(col, row), *v)
}

func (g *Generator) cell(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
