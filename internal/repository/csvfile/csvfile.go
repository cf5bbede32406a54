// Package csvfile loads observations from the dashboard's CSV export.
package csvfile

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
)

const (
	colStation    = "station"
	colDate       = "date"
	colHour       = "hour"
	colWindDir    = "windir"
	colWindDirAlt = "wd"
	colHourPeriod = "hour_periods"
)

// missing marks cells read as NaN
var nanValues = []string{"NA", "NaN", "nan", "<nil>", ""}

// Source implements domain.ObservationSource over a CSV file
type Source struct {
	path    string
	periods *hourperiod.Scheme
}

// New creates a CSV source. periods fills in hour periods missing from the file.
func New(path string, periods *hourperiod.Scheme) *Source {
	if periods == nil {
		periods = hourperiod.Default()
	}
	return &Source{path: path, periods: periods}
}

// Name identifies the source
func (s *Source) Name() string {
	return "csv"
}

// Load reads and parses the whole file
func (s *Source) Load(ctx context.Context) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	return Parse(f, s.periods)
}

// Health checks the file is readable
func (s *Source) Health(ctx context.Context) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("csvfile: health check failed: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("csvfile: health check failed: %s is a directory", s.path)
	}
	return nil
}

// Parse reads observations from CSV with a header row. Measurement cells
// that are empty, NA or NaN become NaN.
func Parse(r io.Reader, periods *hourperiod.Scheme) ([]domain.Observation, error) {
	if periods == nil {
		periods = hourperiod.Default()
	}

	types := map[string]series.Type{
		colStation:    series.String,
		colDate:       series.String,
		colHour:       series.String,
		colWindDir:    series.String,
		colWindDirAlt: series.String,
		colHourPeriod: series.String,
	}
	for _, c := range domain.AllColumns() {
		types[c.String()] = series.Float
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("csvfile: failed to read csv: %w", df.Err)
	}

	names := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		names[n] = true
	}

	required := []string{colStation, colDate, colHour}
	for _, c := range domain.AllColumns() {
		required = append(required, c.String())
	}
	for _, n := range required {
		if !names[n] {
			return nil, fmt.Errorf("csvfile: %w: %s", domain.ErrMissingColumn, n)
		}
	}

	windCol := colWindDir
	if !names[windCol] {
		windCol = colWindDirAlt
	}
	if !names[windCol] {
		return nil, fmt.Errorf("csvfile: %w: %s", domain.ErrMissingColumn, colWindDir)
	}

	stations := df.Col(colStation).Records()
	dates := df.Col(colDate).Records()
	hours := df.Col(colHour).Records()
	winds := df.Col(windCol).Records()

	var periodLabels []string
	if names[colHourPeriod] {
		periodLabels = df.Col(colHourPeriod).Records()
	}

	values := make([][]float64, domain.NumColumns)
	for _, c := range domain.AllColumns() {
		values[c] = df.Col(c.String()).Float()
	}

	out := make([]domain.Observation, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		line := i + 2 // header is line 1

		station := label(stations[i])
		if station == "" {
			return nil, fmt.Errorf("csvfile: line %d: missing station", line)
		}
		date, err := domain.ParseDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("csvfile: line %d: %w", line, err)
		}
		hour, err := parseHour(hours[i])
		if err != nil {
			return nil, fmt.Errorf("csvfile: line %d: %w", line, err)
		}

		period := ""
		if periodLabels != nil {
			period = label(periodLabels[i])
		}
		if period == "" {
			period = periods.Classify(hour)
		}

		o := domain.Observation{
			Station:       station,
			Date:          date,
			Hour:          hour,
			HourPeriod:    period,
			WindDirection: label(winds[i]),
		}
		for c := range values {
			o.Values[c] = values[c][i]
		}
		out = append(out, o)
	}

	return out, nil
}

func parseHour(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > 23 {
		return 0, fmt.Errorf("invalid hour %q", s)
	}
	return int(f), nil
}

// label cleans a categorical cell; NaN markers become ""
func label(s string) string {
	s = strings.TrimSpace(s)
	for _, n := range nanValues {
		if s == n {
			return ""
		}
	}
	return s
}
