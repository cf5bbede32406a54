// Package memory serves observations held in memory, including a generated
// demo dataset used when the configured source is unreachable.
package memory

import (
	"context"
	"math"
	"time"

	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
)

// SampleStations are the stations of the demo dataset
var SampleStations = []string{"Shunyi", "Tiantan"}

// SampleDays is the length of the demo dataset in days
const SampleDays = 14

var sampleStart = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

var compass = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Source implements domain.ObservationSource for in-memory and demo data
type Source struct {
	rows []domain.Observation
	mock bool
}

// New serves the given rows
func New(rows []domain.Observation) *Source {
	return &Source{rows: rows}
}

// NewSample serves the generated demo dataset
func NewSample(periods *hourperiod.Scheme) *Source {
	return &Source{rows: Sample(periods), mock: true}
}

// Name identifies the source
func (s *Source) Name() string {
	if s.mock {
		return "memory-sample"
	}
	return "memory"
}

// Load returns a copy of the rows
func (s *Source) Load(ctx context.Context) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Observation, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Health always returns nil
func (s *Source) Health(ctx context.Context) error {
	return nil
}

// Sample builds hourly readings for every sample station over SampleDays.
// Values follow smooth daily cycles; every 37th reading drops its PM2.5 so
// missing data shows up in the demo.
func Sample(periods *hourperiod.Scheme) []domain.Observation {
	if periods == nil {
		periods = hourperiod.Default()
	}

	rows := make([]domain.Observation, 0, len(SampleStations)*SampleDays*24)
	i := 0
	for s, station := range SampleStations {
		offset := float64(s)
		for d := 0; d < SampleDays; d++ {
			date := sampleStart.AddDate(0, 0, d)
			for h := 0; h < 24; h++ {
				phase := 2 * math.Pi * float64(h) / 24
				trend := math.Sin(float64(d)/3 + offset)

				var v domain.Measurements
				v[domain.PM25] = round1(60 + 25*trend + 15*math.Cos(phase) + 5*offset)
				v[domain.PM10] = round1(90 + 30*trend + 20*math.Cos(phase))
				v[domain.SO2] = round1(12 + 4*trend + 2*offset)
				v[domain.NO2] = round1(45 + 15*math.Cos(phase) + 3*offset)
				v[domain.CO] = math.Round(900 + 300*trend + 150*math.Cos(phase))
				v[domain.O3] = round1(40 - 25*math.Cos(phase) + 2*offset)
				v[domain.Temp] = round1(-2 + 6*math.Sin(phase-math.Pi/2) + trend)
				v[domain.DewPoint] = round1(-15 + 3*trend)
				v[domain.WindSpeed] = round1(1.5 + math.Abs(2*math.Sin(phase+offset+float64(d))))
				if i%37 == 0 {
					v[domain.PM25] = math.NaN()
				}

				rows = append(rows, domain.Observation{
					Station:       station,
					Date:          date,
					Hour:          h,
					HourPeriod:    periods.Classify(h),
					WindDirection: compass[(h+d+s*5)%len(compass)],
					Values:        v,
				})
				i++
			}
		}
	}
	return rows
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
