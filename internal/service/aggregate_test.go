package service

import (
	"math"
	"testing"

	"github.com/smartcity/airquality/internal/domain"
)

func TestAggregateDaily_TwoReadingsOneDay(t *testing.T) {
	table := sampleTable(t)

	rows, err := Filter(table, Query{Station: "Shunyi", Start: day("2023-01-01"), End: day("2023-01-01")})
	if err != nil {
		t.Fatalf("Filter() error: %v", err)
	}

	daily := AggregateDaily(rows)
	if len(daily) != 1 {
		t.Fatalf("got %d daily rows; want 1", len(daily))
	}
	if got := daily[0].Means[domain.PM25]; got != 15.0 {
		t.Errorf("PM2.5 mean = %v; want 15.0", got)
	}
	if daily[0].Count != 2 {
		t.Errorf("Count = %d; want 2", daily[0].Count)
	}
}

func TestAggregateDaily_MeansAndOrder(t *testing.T) {
	// input deliberately out of date order
	rows := sampleRows()
	rows[0], rows[len(rows)-1] = rows[len(rows)-1], rows[0]

	daily := AggregateDaily(rows)

	want := []struct {
		date string
		pm25 float64
		co   float64
	}{
		{"2023-01-01", 70.0 / 3, 1000},
		{"2023-01-02", 140.0 / 3, 1000},
		{"2023-01-03", 70, 650},
	}
	if len(daily) != len(want) {
		t.Fatalf("got %d daily rows; want %d", len(daily), len(want))
	}
	for i, w := range want {
		d := daily[i]
		if d.Date.Format(DateLayout) != w.date {
			t.Errorf("row %d date = %s; want %s", i, d.Date.Format(DateLayout), w.date)
		}
		if !almostEqual(d.Means[domain.PM25], w.pm25) {
			t.Errorf("row %d PM2.5 = %v; want %v", i, d.Means[domain.PM25], w.pm25)
		}
		if !almostEqual(d.Means[domain.CO], w.co) {
			t.Errorf("row %d CO = %v; want %v", i, d.Means[domain.CO], w.co)
		}
		if !math.IsNaN(d.Means[domain.PM10]) {
			t.Errorf("row %d PM10 = %v; want NaN for all-missing column", i, d.Means[domain.PM10])
		}
		if len(d.Means) != len(domain.Pollutants) {
			t.Errorf("row %d has %d means; want %d", i, len(d.Means), len(domain.Pollutants))
		}
	}
}

func TestAggregateDaily_MeanEqualsSumOverCount(t *testing.T) {
	rows := sampleRows()
	daily := AggregateDaily(rows)

	for _, d := range daily {
		for _, c := range domain.Pollutants {
			var sum float64
			var n int
			for _, o := range rows {
				if !o.Date.Equal(d.Date) || math.IsNaN(o.Value(c)) {
					continue
				}
				sum += o.Value(c)
				n++
			}
			got := d.Means[c]
			if n == 0 {
				if !math.IsNaN(got) {
					t.Errorf("%s %s = %v; want NaN", d.Date.Format(DateLayout), c, got)
				}
				continue
			}
			if !almostEqual(got, sum/float64(n)) {
				t.Errorf("%s %s = %v; want %v", d.Date.Format(DateLayout), c, got, sum/float64(n))
			}
		}
	}
}

func TestAggregateHourly(t *testing.T) {
	hourly := AggregateHourly(sampleRows())

	want := []struct {
		period string
		pm25   float64
		temp   float64
		count  int
	}{
		{"Afternoon", 50, 1.5, 2},
		{"Evening", nan, 0, 1},
		{"Morning", 35, -1.5, 2},
		{"Night", 110.0 / 3, -14.0 / 3, 3},
	}
	if len(hourly) != len(want) {
		t.Fatalf("got %d hourly rows; want %d", len(hourly), len(want))
	}
	for i, w := range want {
		h := hourly[i]
		if h.Period != w.period {
			t.Errorf("row %d period = %s; want %s", i, h.Period, w.period)
		}
		if h.Count != w.count {
			t.Errorf("row %d count = %d; want %d", i, h.Count, w.count)
		}
		if math.IsNaN(w.pm25) {
			if !math.IsNaN(h.Means[domain.PM25]) {
				t.Errorf("row %d PM2.5 = %v; want NaN", i, h.Means[domain.PM25])
			}
		} else if !almostEqual(h.Means[domain.PM25], w.pm25) {
			t.Errorf("row %d PM2.5 = %v; want %v", i, h.Means[domain.PM25], w.pm25)
		}
		if !almostEqual(h.Means[domain.Temp], w.temp) {
			t.Errorf("row %d TEMP = %v; want %v", i, h.Means[domain.Temp], w.temp)
		}
		if len(h.Means) != len(domain.HourlyColumns) {
			t.Errorf("row %d has %d means; want %d", i, len(h.Means), len(domain.HourlyColumns))
		}
	}
}

func TestAggregateWind(t *testing.T) {
	wind := AggregateWind(sampleRows())

	want := []struct {
		direction string
		mean      float64
	}{
		{"E", 2.0},
		{"N", 1.5},
		{"NE", 2.0},
		{"SW", 4.5},
	}
	if len(wind) != len(want) {
		t.Fatalf("got %d wind rows; want %d", len(wind), len(want))
	}
	for i, w := range want {
		if wind[i].Direction != w.direction || !almostEqual(wind[i].MeanSpeed, w.mean) {
			t.Errorf("row %d = %s %v; want %s %v", i, wind[i].Direction, wind[i].MeanSpeed, w.direction, w.mean)
		}
	}
}

func TestStrongestAndSlowestWind(t *testing.T) {
	table := AggregateWind(sampleRows())

	strongest := StrongestWind(table, DefaultWindTopK)
	slowest := SlowestWind(table, DefaultWindTopK)

	wantStrongest := []string{"SW", "E", "NE", "N"}
	wantSlowest := []string{"N", "E", "NE", "SW"}

	if len(strongest) != len(wantStrongest) {
		t.Fatalf("strongest has %d rows; want %d", len(strongest), len(wantStrongest))
	}
	for i, d := range wantStrongest {
		if strongest[i].Direction != d {
			t.Errorf("strongest[%d] = %s; want %s", i, strongest[i].Direction, d)
		}
	}
	for i, d := range wantSlowest {
		if slowest[i].Direction != d {
			t.Errorf("slowest[%d] = %s; want %s", i, slowest[i].Direction, d)
		}
	}
}

func TestStrongestWind_LimitedToK(t *testing.T) {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	var rows []domain.Observation
	for i, d := range directions {
		rows = append(rows, reading("Shunyi", "2023-01-01", i, d, 0, 0, 0, float64(i)))
	}
	table := AggregateWind(rows)

	strongest := StrongestWind(table, 5)
	slowest := SlowestWind(table, 5)
	if len(strongest) != 5 || len(slowest) != 5 {
		t.Fatalf("len(strongest)=%d len(slowest)=%d; want 5", len(strongest), len(slowest))
	}

	inTable := map[string]bool{}
	for _, w := range table {
		inTable[w.Direction] = true
	}
	for i, w := range strongest {
		if !inTable[w.Direction] {
			t.Errorf("strongest %s not in summary table", w.Direction)
		}
		if i > 0 && strongest[i-1].MeanSpeed < w.MeanSpeed {
			t.Errorf("strongest not descending at %d", i)
		}
	}
	for i := 1; i < len(slowest); i++ {
		if slowest[i-1].MeanSpeed > slowest[i].MeanSpeed {
			t.Errorf("slowest not ascending at %d", i)
		}
	}
	if strongest[0].Direction != "NW" || slowest[0].Direction != "N" {
		t.Errorf("strongest[0]=%s slowest[0]=%s; want NW, N", strongest[0].Direction, slowest[0].Direction)
	}

	// full ranking in one direction is the reverse of the other
	all := len(table)
	up, down := SlowestWind(table, all), StrongestWind(table, all)
	for i := range up {
		if up[i].Direction != down[all-1-i].Direction {
			t.Errorf("slowest[%d]=%s, strongest[%d]=%s", i, up[i].Direction, all-1-i, down[all-1-i].Direction)
		}
	}

	if got := StrongestWind(table, 0); len(got) != 0 {
		t.Errorf("StrongestWind(k=0) returned %d rows", len(got))
	}
}

func TestWind_MissingSpeedBucketExcludedFromRanking(t *testing.T) {
	rows := []domain.Observation{
		reading("Shunyi", "2023-01-01", 0, "N", 0, 0, 0, 2),
		reading("Shunyi", "2023-01-01", 1, "S", 0, 0, 0, nan),
	}
	table := AggregateWind(rows)
	if len(table) != 2 {
		t.Fatalf("got %d wind rows; want 2", len(table))
	}
	if !math.IsNaN(table[1].MeanSpeed) {
		t.Errorf("S mean = %v; want NaN", table[1].MeanSpeed)
	}

	strongest := StrongestWind(table, 5)
	if len(strongest) != 1 || strongest[0].Direction != "N" {
		t.Errorf("strongest = %+v; want only N", strongest)
	}

	rollups := RollupWind(table)
	if rollups.Max.NoData || rollups.Max.Value != 2 || rollups.Min.Value != 2 {
		t.Errorf("rollups = %+v", rollups)
	}
}

func TestRollupWind(t *testing.T) {
	rollups := RollupWind(AggregateWind(sampleRows()))

	if rollups.Max.NoData || !almostEqual(rollups.Max.Value, 4.5) {
		t.Errorf("Max = %+v; want 4.5", rollups.Max)
	}
	if rollups.Mean.NoData || !almostEqual(rollups.Mean.Value, 2.5) {
		t.Errorf("Mean = %+v; want 2.5", rollups.Mean)
	}
	if rollups.Min.NoData || !almostEqual(rollups.Min.Value, 1.5) {
		t.Errorf("Min = %+v; want 1.5", rollups.Min)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	table := sampleTable(t)
	rows, err := Filter(table, Query{Station: domain.AllStations, Start: day("2030-01-01"), End: day("2030-12-31")})
	if err != nil {
		t.Fatalf("Filter() error: %v", err)
	}

	if got := AggregateDaily(rows); len(got) != 0 {
		t.Errorf("AggregateDaily(empty) = %v", got)
	}
	if got := AggregateHourly(rows); len(got) != 0 {
		t.Errorf("AggregateHourly(empty) = %v", got)
	}
	wind := AggregateWind(rows)
	if len(wind) != 0 {
		t.Errorf("AggregateWind(empty) = %v", wind)
	}
	if got := StrongestWind(wind, 5); len(got) != 0 {
		t.Errorf("StrongestWind(empty) = %v", got)
	}

	rollups := RollupWind(wind)
	if !rollups.Max.NoData || !rollups.Mean.NoData || !rollups.Min.NoData {
		t.Errorf("RollupWind(empty) = %+v; want no data", rollups)
	}
	if rollups.Max.String() != "no data" {
		t.Errorf("Max.String() = %q; want \"no data\"", rollups.Max.String())
	}
}

func TestAggregate_AllStationsEqualsMergedStations(t *testing.T) {
	table := sampleTable(t)
	start, end := day("2023-01-01"), day("2023-01-03")

	all, err := Filter(table, Query{Station: domain.AllStations, Start: start, End: end})
	if err != nil {
		t.Fatalf("Filter(All) error: %v", err)
	}
	var merged []domain.Observation
	for _, station := range table.Stations() {
		rows, err := Filter(table, Query{Station: station, Start: start, End: end})
		if err != nil {
			t.Fatalf("Filter(%s) error: %v", station, err)
		}
		merged = append(merged, rows...)
	}

	if len(all) != len(merged) {
		t.Fatalf("All has %d rows, merged stations have %d", len(all), len(merged))
	}

	dailyAll, dailyMerged := AggregateDaily(all), AggregateDaily(merged)
	if len(dailyAll) != len(dailyMerged) {
		t.Fatalf("daily rows differ: %d vs %d", len(dailyAll), len(dailyMerged))
	}
	for i := range dailyAll {
		for _, c := range domain.Pollutants {
			a, b := dailyAll[i].Means[c], dailyMerged[i].Means[c]
			if math.IsNaN(a) != math.IsNaN(b) || (!math.IsNaN(a) && !almostEqual(a, b)) {
				t.Errorf("%s %s: %v vs %v", dailyAll[i].Date.Format(DateLayout), c, a, b)
			}
		}
	}

	windAll, windMerged := AggregateWind(all), AggregateWind(merged)
	for i := range windAll {
		if windAll[i].Direction != windMerged[i].Direction || !almostEqual(windAll[i].MeanSpeed, windMerged[i].MeanSpeed) {
			t.Errorf("wind %d: %+v vs %+v", i, windAll[i], windMerged[i])
		}
	}
}
