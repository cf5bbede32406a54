package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Means maps a column to its arithmetic mean. NaN means no valid value.
type Means map[Column]float64

// Get returns the mean of c, NaN when c has no entry
func (m Means) Get(c Column) float64 {
	v, ok := m[c]
	if !ok {
		return math.NaN()
	}
	return v
}

// MarshalJSON keys the means by column header and renders NaN as null
func (m Means) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(m))
	for c, v := range m {
		out[c.String()] = NullableFloat(v)
	}
	return json.Marshal(out)
}

// NullableFloat returns nil for NaN so JSON encoding does not fail
func NullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// DailySummary holds pollutant means for one calendar day
type DailySummary struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Means Means     `json:"means"`
}

// HourlySummary holds pollutant, temperature and dew point means for one hour period
type HourlySummary struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
	Means  Means  `json:"means"`
}

// WindSummary holds the mean wind speed for one direction bucket
type WindSummary struct {
	Direction string  `json:"direction"`
	Count     int     `json:"count"`
	MeanSpeed float64 `json:"-"`
}

// MarshalJSON renders a missing mean speed as null
func (w WindSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Direction string   `json:"direction"`
		Count     int      `json:"count"`
		MeanSpeed *float64 `json:"mean_speed"`
	}{w.Direction, w.Count, NullableFloat(w.MeanSpeed)})
}

// Rollup is a scalar summary value; NoData is set when nothing was aggregated
type Rollup struct {
	Value  float64 `json:"value"`
	NoData bool    `json:"no_data"`
}

// NoDataRollup is the rollup reported for an empty summary table
func NoDataRollup() Rollup {
	return Rollup{NoData: true}
}

// String formats the rollup for display
func (r Rollup) String() string {
	if r.NoData {
		return "no data"
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// WindRollups are max, mean and min of the per-direction mean speeds
type WindRollups struct {
	Max  Rollup `json:"max"`
	Mean Rollup `json:"mean"`
	Min  Rollup `json:"min"`
}
