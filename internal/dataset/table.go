// Package dataset holds the immutable observation table shared by every request.
package dataset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/smartcity/airquality/internal/domain"
)

// Table is a read-only, sorted observation table. It is created once per
// process and never mutated; accessors hand out copies.
type Table struct {
	id       string
	source   string
	loadedAt time.Time
	rows     []domain.Observation
	stations []string
	minDate  time.Time
	maxDate  time.Time
}

// Load reads all observations from src and builds a table
func Load(ctx context.Context, src domain.ObservationSource) (*Table, error) {
	rows, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to load from %s: %w", src.Name(), err)
	}
	return New(src.Name(), rows)
}

// New copies rows, normalizes dates to calendar days and sorts by (date, hour).
// Duplicate (station, date, hour) rows are rejected.
func New(source string, rows []domain.Observation) (*Table, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	own := make([]domain.Observation, len(rows))
	copy(own, rows)

	type key struct {
		station string
		ts      time.Time
	}
	seen := make(map[key]struct{}, len(own))
	stationSet := make(map[string]struct{})

	for i := range own {
		o := &own[i]
		if o.Hour < 0 || o.Hour > 23 {
			return nil, fmt.Errorf("dataset: row %d: hour %d out of range", i, o.Hour)
		}
		if o.Station == "" {
			return nil, fmt.Errorf("dataset: row %d: empty station", i)
		}
		o.Date = domain.TruncateDay(o.Date)

		k := key{o.Station, o.Timestamp()}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("dataset: duplicate observation for %s at %s", o.Station, k.ts.Format(time.RFC3339))
		}
		seen[k] = struct{}{}
		stationSet[o.Station] = struct{}{}
	}

	sort.SliceStable(own, func(i, j int) bool {
		if !own[i].Date.Equal(own[j].Date) {
			return own[i].Date.Before(own[j].Date)
		}
		return own[i].Hour < own[j].Hour
	})

	stations := make([]string, 0, len(stationSet))
	for s := range stationSet {
		stations = append(stations, s)
	}
	sort.Strings(stations)

	return &Table{
		id:       uuid.NewString(),
		source:   source,
		loadedAt: time.Now().UTC(),
		rows:     own,
		stations: stations,
		minDate:  own[0].Date,
		maxDate:  own[len(own)-1].Date,
	}, nil
}

// ID uniquely identifies this loaded table
func (t *Table) ID() string { return t.id }

// Source names the loader the table came from
func (t *Table) Source() string { return t.source }

// LoadedAt is when the table was built
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// At returns row i in (date, hour) order
func (t *Table) At(i int) domain.Observation { return t.rows[i] }

// Rows returns a copy of all rows
func (t *Table) Rows() []domain.Observation {
	out := make([]domain.Observation, len(t.rows))
	copy(out, t.rows)
	return out
}

// Stations returns the sorted set of station names
func (t *Table) Stations() []string {
	out := make([]string, len(t.stations))
	copy(out, t.stations)
	return out
}

// HasStation reports whether name is one of the table's stations
func (t *Table) HasStation(name string) bool {
	i := sort.SearchStrings(t.stations, name)
	return i < len(t.stations) && t.stations[i] == name
}

// DateBounds returns the first and last calendar day in the table
func (t *Table) DateBounds() (time.Time, time.Time) {
	return t.minDate, t.maxDate
}
