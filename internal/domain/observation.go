package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Column identifies one numeric measurement of an observation
type Column int

const (
	PM25 Column = iota
	PM10
	SO2
	NO2
	CO
	O3
	Temp
	DewPoint
	WindSpeed

	NumColumns
)

var columnNames = [NumColumns]string{
	PM25:      "PM2.5",
	PM10:      "PM10",
	SO2:       "SO2",
	NO2:       "NO2",
	CO:        "CO",
	O3:        "O3",
	Temp:      "TEMP",
	DewPoint:  "DEWP",
	WindSpeed: "WSPM",
}

// String returns the dataset header name of the column
func (c Column) String() string {
	if c < 0 || c >= NumColumns {
		return "unknown"
	}
	return columnNames[c]
}

// Pollutants are the concentration columns averaged by the daily view
var Pollutants = []Column{PM25, PM10, SO2, NO2, CO, O3}

// HourlyColumns are the columns averaged per hour period
var HourlyColumns = []Column{PM25, PM10, SO2, NO2, CO, O3, Temp, DewPoint}

// AllColumns lists every measurement column in dataset order
func AllColumns() []Column {
	cols := make([]Column, 0, NumColumns)
	for c := Column(0); c < NumColumns; c++ {
		cols = append(cols, c)
	}
	return cols
}

// ParseColumn resolves a dataset header name to its column
func ParseColumn(name string) (Column, bool) {
	for c, n := range columnNames {
		if n == name {
			return Column(c), true
		}
	}
	return 0, false
}

// Measurements holds one value per column; missing values are NaN
type Measurements [NumColumns]float64

// MissingMeasurements returns a set with every value missing
func MissingMeasurements() Measurements {
	var m Measurements
	for i := range m {
		m[i] = math.NaN()
	}
	return m
}

// Observation is one row of the dataset: a station reading at a date and hour
type Observation struct {
	Station       string       `json:"station"`
	Date          time.Time    `json:"date"`
	Hour          int          `json:"hour"`
	HourPeriod    string       `json:"hour_period"`
	WindDirection string       `json:"wind_direction"`
	Values        Measurements `json:"-"`
}

// Value returns the measurement for c, NaN when missing
func (o Observation) Value(c Column) float64 {
	return o.Values[c]
}

// Timestamp combines the date and hour of the observation
func (o Observation) Timestamp() time.Time {
	return o.Date.Add(time.Duration(o.Hour) * time.Hour)
}

// TruncateDay normalizes t to midnight UTC of its calendar date
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// ParseDate accepts a calendar date with or without a time part and
// truncates it to the day
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
