package service

import (
	"math"
	"testing"
	"time"

	"github.com/smartcity/airquality/internal/dataset"
	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
)

var nan = math.NaN()

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// reading builds an observation with PM2.5, CO, TEMP and WSPM set; other
// columns are missing
func reading(station, date string, hour int, wd string, pm25, co, temp, wspm float64) domain.Observation {
	v := domain.MissingMeasurements()
	v[domain.PM25] = pm25
	v[domain.CO] = co
	v[domain.Temp] = temp
	v[domain.WindSpeed] = wspm
	return domain.Observation{
		Station:       station,
		Date:          day(date),
		Hour:          hour,
		HourPeriod:    hourperiod.Default().Classify(hour),
		WindDirection: wd,
		Values:        v,
	}
}

func sampleRows() []domain.Observation {
	return []domain.Observation{
		reading("Shunyi", "2023-01-01", 0, "N", 10, 900, -5, 1.0),
		reading("Shunyi", "2023-01-01", 8, "NE", 20, 1100, -2, 2.0),
		reading("Shunyi", "2023-01-02", 13, "N", 30, nan, 1, 3.0),
		reading("Shunyi", "2023-01-03", 18, "SW", nan, 700, 0, 4.5),
		reading("Tiantan", "2023-01-01", 0, "N", 40, 1000, -6, 0.5),
		reading("Tiantan", "2023-01-02", 8, "E", 50, 1200, -1, 1.5),
		reading("Tiantan", "2023-01-02", 22, "E", 60, 800, -3, 2.5),
		reading("Tiantan", "2023-01-03", 13, "SW", 70, 600, 2, nan),
	}
}

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.New("test", sampleRows())
	if err != nil {
		t.Fatalf("dataset.New() error: %v", err)
	}
	return table
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
