package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/smartcity/airquality/internal/dataset"
	"github.com/smartcity/airquality/internal/domain"
)

// DateLayout is the calendar date format accepted and rendered by the dashboard
const DateLayout = "2006-01-02"

// Query selects the rows the dashboard aggregates: a station (or All) and an
// inclusive date range.
type Query struct {
	Station string
	Start   time.Time
	End     time.Time
}

// Validate checks the date range is complete and not inverted
func (q Query) Validate() error {
	if q.Start.IsZero() || q.End.IsZero() {
		return fmt.Errorf("%w: you must pick a start and end date", domain.ErrInvalidDateRange)
	}
	start, end := domain.TruncateDay(q.Start), domain.TruncateDay(q.End)
	if start.After(end) {
		return fmt.Errorf("%w: start %s is after end %s",
			domain.ErrInvalidDateRange, start.Format(DateLayout), end.Format(DateLayout))
	}
	return nil
}

func (q Query) normalized() Query {
	station := q.Station
	if station == "" {
		station = domain.AllStations
	}
	return Query{
		Station: station,
		Start:   domain.TruncateDay(q.Start),
		End:     domain.TruncateDay(q.End),
	}
}

// Filter returns the rows of table whose date lies in [q.Start, q.End] and
// whose station matches q.Station (any station for All). The result keeps
// table order; an empty result is not an error.
func Filter(table *dataset.Table, q Query) ([]domain.Observation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.normalized()

	if q.Station != domain.AllStations && !table.HasStation(q.Station) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStation, q.Station)
	}

	// rows are sorted by date, so the range is a contiguous block
	first := sort.Search(table.Len(), func(i int) bool {
		return !table.At(i).Date.Before(q.Start)
	})

	out := make([]domain.Observation, 0)
	for i := first; i < table.Len(); i++ {
		o := table.At(i)
		if o.Date.After(q.End) {
			break
		}
		if q.Station != domain.AllStations && o.Station != q.Station {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
