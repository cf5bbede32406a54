// Package rowscan maps rows of the observations table onto domain observations.
// It is shared by the SQL backed sources.
package rowscan

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
)

// SelectObservations reads the whole observations table in (date, hour) order
const SelectObservations = `
	SELECT station, date, hour,
		   pm25, pm10, so2, no2, co, o3, temp, dewp, wspm,
		   wind_direction, hour_period
	FROM observations
	ORDER BY date, hour, station
`

// Columns is the column order of the observations table
var Columns = []string{
	"station", "date", "hour",
	"pm25", "pm10", "so2", "no2", "co", "o3", "temp", "dewp", "wspm",
	"wind_direction", "hour_period",
}

// Values flattens o into Columns order. NaN measurements and empty labels
// become nil so they are stored as NULL. dateFormat, when set, stores the
// date as text.
func Values(o domain.Observation, dateFormat string) []any {
	var date any = domain.TruncateDay(o.Date)
	if dateFormat != "" {
		date = o.Date.Format(dateFormat)
	}
	vals := []any{o.Station, date, o.Hour}
	for _, v := range o.Values {
		if math.IsNaN(v) {
			vals = append(vals, nil)
		} else {
			vals = append(vals, v)
		}
	}
	return append(vals, nullable(o.WindDirection), nullable(o.HourPeriod))
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Record receives one scanned row. Nullable columns scan into pointers.
type Record struct {
	Station       string
	Date          time.Time
	DateText      string
	Hour          int
	Values        [domain.NumColumns]*float64
	WindDirection *string
	HourPeriod    *string
}

// Targets returns scan destinations in SelectObservations column order.
// When textDate is true the date scans into DateText instead of Date.
func (r *Record) Targets(textDate bool) []any {
	var date any = &r.Date
	if textDate {
		date = &r.DateText
	}
	dest := []any{&r.Station, date, &r.Hour}
	for c := range r.Values {
		dest = append(dest, &r.Values[c])
	}
	return append(dest, &r.WindDirection, &r.HourPeriod)
}

// Observation converts the record, turning NULL measurements into NaN and
// classifying a missing hour period
func (r *Record) Observation(periods *hourperiod.Scheme) (domain.Observation, error) {
	date := r.Date
	if r.DateText != "" {
		d, err := domain.ParseDate(r.DateText)
		if err != nil {
			return domain.Observation{}, fmt.Errorf("station %s: %w", r.Station, err)
		}
		date = d
	}

	o := domain.Observation{
		Station:       strings.TrimSpace(r.Station),
		Date:          domain.TruncateDay(date),
		Hour:          r.Hour,
		WindDirection: deref(r.WindDirection),
		HourPeriod:    deref(r.HourPeriod),
	}
	for c, v := range r.Values {
		if v == nil {
			o.Values[c] = math.NaN()
		} else {
			o.Values[c] = *v
		}
	}
	if o.HourPeriod == "" && periods != nil {
		o.HourPeriod = periods.Classify(o.Hour)
	}
	return o, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
