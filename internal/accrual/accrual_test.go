package accrual

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/debt-indexation/internal/models"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func series(t *testing.T, points ...models.InflationIndexPoint) *models.InflationSeries {
	t.Helper()
	s, err := models.NewInflationSeries(points...)
	require.NoError(t, err)
	return s
}

func TestComputeScenarios(t *testing.T) {
	tests := []struct {
		name     string
		claim    models.DebtClaim
		series   *models.InflationSeries
		expected models.AccrualResult
	}{
		{
			name:     "zero-day range with empty series",
			claim:    models.DebtClaim{Principal: 1000, StartDate: date(t, "2020-01-01"), EndDate: date(t, "2020-01-01")},
			series:   series(t),
			expected: models.AccrualResult{TotalDebt: 1000, InflationLoss: 0, Penalty: 0},
		},
		{
			name:     "nil series behaves as empty",
			claim:    models.DebtClaim{Principal: 1000, StartDate: date(t, "2020-01-01"), EndDate: date(t, "2020-01-01")},
			series:   nil,
			expected: models.AccrualResult{TotalDebt: 1000, InflationLoss: 0, Penalty: 0},
		},
		{
			// 2020 is a leap year, so the range spans 366 days
			name:     "one normalized point over leap year",
			claim:    models.DebtClaim{Principal: 1000, StartDate: date(t, "2020-01-01"), EndDate: date(t, "2021-01-01")},
			series:   series(t, models.Point(2020, time.January, 10.0)),
			expected: models.AccrualResult{TotalDebt: 130.08, InflationLoss: -900, Penalty: 30.08},
		},
		{
			name:     "one normalized point over 365 days",
			claim:    models.DebtClaim{Principal: 1000, StartDate: date(t, "2021-01-01"), EndDate: date(t, "2022-01-01")},
			series:   series(t, models.Point(2021, time.January, 10.0)),
			expected: models.AccrualResult{TotalDebt: 130, InflationLoss: -900, Penalty: 30},
		},
		{
			name:  "inverted range",
			claim: models.DebtClaim{Principal: 1000, StartDate: date(t, "2021-01-01"), EndDate: date(t, "2020-01-01")},
			series: series(t,
				models.Point(2020, time.January, 10.1),
				models.Point(2020, time.June, 10.3),
				models.Point(2020, time.December, 10.0),
			),
			expected: models.AccrualResult{TotalDebt: 969.92, InflationLoss: 0, Penalty: -30.08},
		},
		{
			name:  "two months compound",
			claim: models.DebtClaim{Principal: 1000, StartDate: date(t, "2021-01-01"), EndDate: date(t, "2021-02-15")},
			series: series(t,
				models.Point(2021, time.January, 10.1),
				models.Point(2021, time.February, 10.2),
				models.Point(2021, time.March, 10.5),
			),
			// multiplier 0.101 * 0.102, penalty 45 days
			expected: models.AccrualResult{TotalDebt: 14.0, InflationLoss: -989.7, Penalty: 3.70},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.claim, tt.series)
			assert.InDelta(t, tt.expected.TotalDebt, result.TotalDebt, 1e-9)
			assert.InDelta(t, tt.expected.InflationLoss, result.InflationLoss, 1e-9)
			assert.InDelta(t, tt.expected.Penalty, result.Penalty, 1e-9)
		})
	}
}

func TestComputeNoMonthsInRange(t *testing.T) {
	s := series(t,
		models.Point(2020, time.January, 10.4),
		models.Point(2020, time.March, 10.2),
	)
	principals := []float64{0.01, 1, 1000, 1e9}
	for _, p := range principals {
		// January starts before the range, February is missing
		claim := models.DebtClaim{Principal: p, StartDate: date(t, "2020-01-02"), EndDate: date(t, "2020-02-28")}
		result := Compute(claim, s)
		assert.Equal(t, 0.0, result.InflationLoss, "principal %v", p)
	}
}

func TestSelectMonths(t *testing.T) {
	s := series(t,
		models.Point(2019, time.December, 10.0),
		models.Point(2020, time.January, 10.1),
		models.Point(2020, time.February, 10.2),
		models.Point(2020, time.March, 10.3),
		models.Point(2020, time.April, 10.4),
	)

	tests := []struct {
		name     string
		start    string
		end      string
		expected []models.YearMonth
	}{
		{
			name:  "start on the first includes the starting month",
			start: "2020-01-01", end: "2020-02-10",
			expected: []models.YearMonth{{Year: 2020, Month: time.January}, {Year: 2020, Month: time.February}},
		},
		{
			name:  "partial starting month is excluded",
			start: "2020-01-02", end: "2020-03-01",
			expected: []models.YearMonth{{Year: 2020, Month: time.February}, {Year: 2020, Month: time.March}},
		},
		{
			name:     "range inside one month",
			start:    "2020-02-02",
			end:      "2020-02-27",
			expected: nil,
		},
		{
			name:     "inverted range selects nothing",
			start:    "2020-04-01",
			end:      "2019-12-01",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := SelectMonths(s, date(t, tt.start), date(t, tt.end))
			var months []models.YearMonth
			for _, p := range selected {
				months = append(months, p.Month)
			}
			assert.Equal(t, tt.expected, months)
		})
	}
}

func TestMultiplierOrderIndependent(t *testing.T) {
	points := []models.InflationIndexPoint{
		models.Point(2021, time.January, 10.13),
		models.Point(2021, time.February, 9.87),
		models.Point(2021, time.March, 10.42),
		models.Point(2021, time.April, 10.01),
	}
	reversed := make([]models.InflationIndexPoint, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}

	assert.InDelta(t, Multiplier(points), Multiplier(reversed), 1e-15)
	assert.InDelta(t, 0.1013*0.0987*0.1042*0.1001, Multiplier(points), 1e-15)
}

func TestMultiplierSkipsUnpublishedMonths(t *testing.T) {
	start, end := date(t, "2021-01-01"), date(t, "2021-03-31")
	claim := models.DebtClaim{Principal: 2500, StartDate: start, EndDate: end}

	flat := series(t,
		models.Point(2021, time.January, 10.13),
		models.Point(2021, time.February, 100.0),
	)
	unpublished := series(t,
		models.Point(2021, time.January, 10.13),
		models.UnpublishedPoint(2021, time.February),
	)
	absent := series(t,
		models.Point(2021, time.January, 10.13),
	)

	expected := Compute(claim, absent)
	assert.Equal(t, expected.InflationLoss, Compute(claim, flat).InflationLoss)
	assert.Equal(t, expected, Compute(claim, unpublished))
	assert.Equal(t, 1.0, Multiplier([]models.InflationIndexPoint{models.UnpublishedPoint(2021, time.May)}))
}

func TestPenaltyIsLinearInDays(t *testing.T) {
	start := date(t, "2021-03-01")
	for _, days := range []int{1, 17, 100, 365, 1000} {
		single := Penalty(1000, PenaltyDays(start, start.AddDays(days)))
		double := Penalty(1000, PenaltyDays(start, start.AddDays(2*days)))
		assert.InDelta(t, 2*single, double, 1e-9, "days %d", days)
	}
}

func TestPenaltyDays(t *testing.T) {
	assert.Equal(t, 366, PenaltyDays(date(t, "2020-01-01"), date(t, "2021-01-01")))
	assert.Equal(t, -366, PenaltyDays(date(t, "2021-01-01"), date(t, "2020-01-01")))
	assert.Equal(t, 0, PenaltyDays(date(t, "2021-06-15"), date(t, "2021-06-15")))
	assert.Equal(t, 29, PenaltyDays(date(t, "2024-02-01"), date(t, "2024-03-01")))
}

func TestComputeRoundsAllFields(t *testing.T) {
	claim := models.DebtClaim{Principal: 100, StartDate: date(t, "2021-01-01"), EndDate: date(t, "2021-01-02")}
	s := series(t, models.Point(2021, time.January, 100.0/3))

	result := Compute(claim, s)

	for name, v := range map[string]float64{
		"total_debt":     result.TotalDebt,
		"inflation_loss": result.InflationLoss,
		"penalty":        result.Penalty,
	} {
		assert.Equal(t, v, Round(v), name)
	}
	assert.Equal(t, 0.01, result.Penalty)
	assert.Equal(t, -66.67, result.InflationLoss)
	assert.Equal(t, 33.34, result.TotalDebt)
}

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round down below midpoint", 1.234, 1.23},
		{"Binary value above midpoint", 1.235, 1.24},
		{"Binary value below midpoint", 2.675, 2.67},
		{"Exact tie to even down", 0.125, 0.12},
		{"Exact tie to even up", 0.375, 0.38},
		{"Negative", -1.235, -1.24},
		{"Large number", 12345.678, 12345.68},
		{"Zero", 0, 0},
		{"Very small positive", 0.001, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round(tt.input))
		})
	}
}
