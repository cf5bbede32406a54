package service

import (
	"log/slog"
	"sort"
	"time"

	"github.com/smartcity/airquality/internal/dataset"
	"github.com/smartcity/airquality/internal/domain"
	"github.com/smartcity/airquality/internal/hourperiod"
)

// DashboardService runs the filter and aggregation pipeline over the loaded table
type DashboardService struct {
	table    *dataset.Table
	periods  *hourperiod.Scheme
	windTopK int
	logger   *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	table *dataset.Table,
	periods *hourperiod.Scheme,
	windTopK int,
	logger *slog.Logger,
) *DashboardService {
	if periods == nil {
		periods = hourperiod.Default()
	}
	if windTopK <= 0 {
		windTopK = DefaultWindTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		table:    table,
		periods:  periods,
		windTopK: windTopK,
		logger:   logger,
	}
}

// QueryView is the resolved query echoed back to the client
type QueryView struct {
	Station string `json:"station"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// WindView bundles the wind summary table and its derived views
type WindView struct {
	Directions []domain.WindSummary `json:"directions"`
	Strongest  []domain.WindSummary `json:"strongest"`
	Slowest    []domain.WindSummary `json:"slowest"`
	Rollups    domain.WindRollups   `json:"rollups"`
}

// Dashboard is everything the presentation layer draws for one query
type Dashboard struct {
	DatasetID string                 `json:"dataset_id"`
	Query     QueryView              `json:"query"`
	RowCount  int                    `json:"row_count"`
	Overview  []Metric               `json:"overview"`
	Daily     []domain.DailySummary  `json:"daily"`
	Hourly    []domain.HourlySummary `json:"hourly"`
	Wind      WindView               `json:"wind"`
	Charts    []Chart                `json:"charts"`
}

// DatasetInfo describes the loaded table for building the filter widgets
type DatasetInfo struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	MinDate     string    `json:"min_date"`
	MaxDate     string    `json:"max_date"`
	Stations    []string  `json:"stations"`
	Selectors   []string  `json:"selectors"`
	HourPeriods []string  `json:"hour_periods"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Info returns the table bounds, stations and period order
func (s *DashboardService) Info() DatasetInfo {
	minDate, maxDate := s.table.DateBounds()
	stations := s.table.Stations()
	return DatasetInfo{
		ID:          s.table.ID(),
		Source:      s.table.Source(),
		Rows:        s.table.Len(),
		MinDate:     minDate.Format(DateLayout),
		MaxDate:     maxDate.Format(DateLayout),
		Stations:    stations,
		Selectors:   append([]string{domain.AllStations}, stations...),
		HourPeriods: s.periods.Order(),
		LoadedAt:    s.table.LoadedAt(),
	}
}

// DefaultQuery covers every station over the full date range
func (s *DashboardService) DefaultQuery() Query {
	minDate, maxDate := s.table.DateBounds()
	return Query{Station: domain.AllStations, Start: minDate, End: maxDate}
}

// WindTopK is the configured size of the strongest and slowest views
func (s *DashboardService) WindTopK() int {
	return s.windTopK
}

// Daily filters the table and returns the daily summary
func (s *DashboardService) Daily(q Query) ([]domain.DailySummary, error) {
	rows, err := Filter(s.table, q)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(rows), nil
}

// Hourly filters the table and returns the hour period summary in natural period order
func (s *DashboardService) Hourly(q Query) ([]domain.HourlySummary, error) {
	rows, err := Filter(s.table, q)
	if err != nil {
		return nil, err
	}
	return s.orderHourly(AggregateHourly(rows)), nil
}

// Wind filters the table and returns the wind table with its top-k views
func (s *DashboardService) Wind(q Query, k int) (WindView, error) {
	rows, err := Filter(s.table, q)
	if err != nil {
		return WindView{}, err
	}
	return s.windView(AggregateWind(rows), k), nil
}

// Build runs the full pipeline for q: filter, the three aggregations, and
// the presentation view model
func (s *DashboardService) Build(q Query) (Dashboard, error) {
	rows, err := Filter(s.table, q)
	if err != nil {
		return Dashboard{}, err
	}
	q = q.normalized()

	daily := AggregateDaily(rows)
	hourly := s.orderHourly(AggregateHourly(rows))
	wind := s.windView(AggregateWind(rows), s.windTopK)

	s.logger.Debug("dashboard built",
		"station", q.Station,
		"start", q.Start.Format(DateLayout),
		"end", q.End.Format(DateLayout),
		"rows", len(rows),
		"days", len(daily),
		"periods", len(hourly),
		"directions", len(wind.Directions),
	)

	return Dashboard{
		DatasetID: s.table.ID(),
		Query: QueryView{
			Station: q.Station,
			Start:   q.Start.Format(DateLayout),
			End:     q.End.Format(DateLayout),
		},
		RowCount: len(rows),
		Overview: ParameterOverview(daily),
		Daily:    daily,
		Hourly:   hourly,
		Wind:     wind,
		Charts:   BuildCharts(daily, hourly, wind.Strongest, wind.Slowest),
	}, nil
}

func (s *DashboardService) orderHourly(rows []domain.HourlySummary) []domain.HourlySummary {
	sort.SliceStable(rows, func(i, j int) bool {
		return s.periods.Less(rows[i].Period, rows[j].Period)
	})
	return rows
}

func (s *DashboardService) windView(table []domain.WindSummary, k int) WindView {
	rollups := RollupWind(table)
	return WindView{
		Directions: table,
		Strongest:  StrongestWind(table, k),
		Slowest:    SlowestWind(table, k),
		Rollups: domain.WindRollups{
			Max:  roundRollup(rollups.Max),
			Mean: roundRollup(rollups.Mean),
			Min:  roundRollup(rollups.Min),
		},
	}
}
