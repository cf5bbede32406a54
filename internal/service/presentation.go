package service

import (
	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/pkg/utils"
)

// metricPlaces is the rounding applied to displayed scalar metrics
const metricPlaces = 2

// Metric is one scalar card on the dashboard
type Metric struct {
	Column  string        `json:"column"`
	Label   string        `json:"label"`
	Value   domain.Rollup `json:"value"`
	Display string        `json:"display"`
}

// overviewColumns is the display order of the pollutant cards
var overviewColumns = []domain.Column{domain.PM25, domain.SO2, domain.CO, domain.PM10, domain.NO2, domain.O3}

// ParameterOverview averages each pollutant's daily means. A pollutant with
// no daily mean reports no data.
func ParameterOverview(daily []domain.DailySummary) []Metric {
	metrics := make([]Metric, 0, len(overviewColumns))
	for _, c := range overviewColumns {
		values := make([]float64, 0, len(daily))
		for _, d := range daily {
			values = append(values, d.Means.Get(c))
		}
		mean, n := utils.MeanSkipNaN(values)

		value := domain.NoDataRollup()
		if n > 0 {
			value = domain.Rollup{Value: utils.RoundTo(mean, metricPlaces)}
		}
		metrics = append(metrics, Metric{
			Column:  c.String(),
			Label:   "Avg " + c.String(),
			Value:   value,
			Display: value.String(),
		})
	}
	return metrics
}

func roundRollup(r domain.Rollup) domain.Rollup {
	if r.NoData {
		return r
	}
	return domain.Rollup{Value: utils.RoundTo(r.Value, metricPlaces)}
}

// Point is one x/y pair of a chart series; Y is nil when the value is missing
type Point struct {
	X string   `json:"x"`
	Y *float64 `json:"y"`
}

// Series is one named line or bar group
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Chart describes a chart for the front end to draw
type Chart struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Kind   string   `json:"kind"`
	XLabel string   `json:"x_label,omitempty"`
	YLabel string   `json:"y_label,omitempty"`
	Series []Series `json:"series"`
}

func dailySeries(daily []domain.DailySummary, c domain.Column) Series {
	points := make([]Point, 0, len(daily))
	for _, d := range daily {
		points = append(points, Point{X: d.Date.Format(DateLayout), Y: domain.NullableFloat(d.Means.Get(c))})
	}
	return Series{Name: c.String(), Points: points}
}

func hourlySeries(hourly []domain.HourlySummary, c domain.Column) Series {
	points := make([]Point, 0, len(hourly))
	for _, h := range hourly {
		points = append(points, Point{X: h.Period, Y: domain.NullableFloat(h.Means.Get(c))})
	}
	return Series{Name: c.String(), Points: points}
}

func windSeries(rows []domain.WindSummary) Series {
	points := make([]Point, 0, len(rows))
	for _, w := range rows {
		points = append(points, Point{X: w.Direction, Y: domain.NullableFloat(w.MeanSpeed)})
	}
	return Series{Name: domain.WindSpeed.String(), Points: points}
}

// BuildCharts lays out the dashboard charts from the summary tables. hourly
// must already be in presentation order.
func BuildCharts(daily []domain.DailySummary, hourly []domain.HourlySummary, strongest, slowest []domain.WindSummary) []Chart {
	charts := []Chart{
		{
			ID:     "daily-pm",
			Title:  "PM2.5 and PM10",
			Kind:   "line",
			Series: []Series{dailySeries(daily, domain.PM25), dailySeries(daily, domain.PM10)},
		},
		{
			ID:     "daily-gases",
			Title:  "SO2 and NO2",
			Kind:   "line",
			Series: []Series{dailySeries(daily, domain.SO2), dailySeries(daily, domain.NO2)},
		},
	}

	hourlyCharts := []struct {
		id    string
		title string
		col   domain.Column
	}{
		{"hourly-co", "Carbon monoxide (CO)", domain.CO},
		{"hourly-o3", "Ozone (O3)", domain.O3},
		{"hourly-temp", "Temperature", domain.Temp},
		{"hourly-dewp", "Dewpoint", domain.DewPoint},
	}
	for _, hc := range hourlyCharts {
		charts = append(charts, Chart{
			ID:     hc.id,
			Title:  hc.title,
			Kind:   "bar",
			Series: []Series{hourlySeries(hourly, hc.col)},
		})
	}

	charts = append(charts,
		Chart{
			ID:     "wind-strongest",
			Title:  "Strongest wind direction",
			Kind:   "bar",
			XLabel: "Avg wind speed (m/s)",
			Series: []Series{windSeries(strongest)},
		},
		Chart{
			ID:     "wind-slowest",
			Title:  "Slowest wind direction",
			Kind:   "bar",
			XLabel: "Avg wind speed (m/s)",
			Series: []Series{windSeries(slowest)},
		},
	)
	return charts
}
