package service

import (
	"math"
	"sort"
	"time"

	"github.com/smartcity/airquality/internal/domain"
)

// DefaultWindTopK is how many directions the strongest and slowest views show
const DefaultWindTopK = 5

// accumulator sums each column independently, skipping NaN values
type accumulator struct {
	rows int
	sum  [domain.NumColumns]float64
	n    [domain.NumColumns]int
}

func (a *accumulator) add(o domain.Observation, cols []domain.Column) {
	a.rows++
	for _, c := range cols {
		v := o.Value(c)
		if math.IsNaN(v) {
			continue
		}
		a.sum[c] += v
		a.n[c]++
	}
}

func (a *accumulator) mean(c domain.Column) float64 {
	if a.n[c] == 0 {
		return math.NaN()
	}
	return a.sum[c] / float64(a.n[c])
}

func (a *accumulator) means(cols []domain.Column) domain.Means {
	m := make(domain.Means, len(cols))
	for _, c := range cols {
		m[c] = a.mean(c)
	}
	return m
}

// groupBy accumulates rows per key, remembering first-seen key order.
// Rows with an empty key are dropped.
func groupBy(rows []domain.Observation, key func(domain.Observation) string, cols []domain.Column) ([]string, map[string]*accumulator) {
	var keys []string
	groups := make(map[string]*accumulator)
	for _, o := range rows {
		k := key(o)
		if k == "" {
			continue
		}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
			keys = append(keys, k)
		}
		acc.add(o, cols)
	}
	return keys, groups
}

// AggregateDaily returns one row per calendar day present in rows with the
// mean of every pollutant, ascending by date.
func AggregateDaily(rows []domain.Observation) []domain.DailySummary {
	dates := make(map[string]time.Time)
	keys, groups := groupBy(rows, func(o domain.Observation) string {
		d := domain.TruncateDay(o.Date)
		k := d.Format(DateLayout)
		dates[k] = d
		return k
	}, domain.Pollutants)

	out := make([]domain.DailySummary, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, domain.DailySummary{
			Date:  dates[k],
			Count: acc.rows,
			Means: acc.means(domain.Pollutants),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// AggregateHourly returns one row per hour period present in rows with the
// mean of the pollutants, temperature and dew point, sorted by label.
// Presentation order is applied by the caller.
func AggregateHourly(rows []domain.Observation) []domain.HourlySummary {
	keys, groups := groupBy(rows, func(o domain.Observation) string {
		return o.HourPeriod
	}, domain.HourlyColumns)
	sort.Strings(keys)

	out := make([]domain.HourlySummary, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, domain.HourlySummary{
			Period: k,
			Count:  acc.rows,
			Means:  acc.means(domain.HourlyColumns),
		})
	}
	return out
}

// AggregateWind returns the mean wind speed per direction present in rows,
// sorted by direction label.
func AggregateWind(rows []domain.Observation) []domain.WindSummary {
	cols := []domain.Column{domain.WindSpeed}
	keys, groups := groupBy(rows, func(o domain.Observation) string {
		return o.WindDirection
	}, cols)
	sort.Strings(keys)

	out := make([]domain.WindSummary, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, domain.WindSummary{
			Direction: k,
			Count:     acc.rows,
			MeanSpeed: acc.mean(domain.WindSpeed),
		})
	}
	return out
}

// rankedWind drops directions without a mean speed and orders the rest by
// speed, ties broken by label
func rankedWind(table []domain.WindSummary, descending bool) []domain.WindSummary {
	out := make([]domain.WindSummary, 0, len(table))
	for _, w := range table {
		if !math.IsNaN(w.MeanSpeed) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MeanSpeed != b.MeanSpeed {
			if descending {
				return a.MeanSpeed > b.MeanSpeed
			}
			return a.MeanSpeed < b.MeanSpeed
		}
		return a.Direction < b.Direction
	})
	return out
}

func head(rows []domain.WindSummary, k int) []domain.WindSummary {
	if k < 0 {
		k = 0
	}
	if len(rows) > k {
		rows = rows[:k]
	}
	return rows
}

// StrongestWind returns at most k directions with the highest mean speed
func StrongestWind(table []domain.WindSummary, k int) []domain.WindSummary {
	return head(rankedWind(table, true), k)
}

// SlowestWind returns at most k directions with the lowest mean speed
func SlowestWind(table []domain.WindSummary, k int) []domain.WindSummary {
	return head(rankedWind(table, false), k)
}

// RollupWind returns max, mean and min of the per-direction mean speeds.
// Each rollup reports NoData when no direction has a mean speed.
func RollupWind(table []domain.WindSummary) domain.WindRollups {
	var (
		n      int
		sum    float64
		hi, lo float64
	)
	for _, w := range table {
		v := w.MeanSpeed
		if math.IsNaN(v) {
			continue
		}
		if n == 0 || v > hi {
			hi = v
		}
		if n == 0 || v < lo {
			lo = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return domain.WindRollups{
			Max:  domain.NoDataRollup(),
			Mean: domain.NoDataRollup(),
			Min:  domain.NoDataRollup(),
		}
	}
	return domain.WindRollups{
		Max:  domain.Rollup{Value: hi},
		Mean: domain.Rollup{Value: sum / float64(n)},
		Min:  domain.Rollup{Value: lo},
	}
}
