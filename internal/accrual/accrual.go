// Package accrual computes the amount owed on an overdue debt: compounded
// inflation losses over the months of the overdue period plus a simple
// annual penalty pro-rated by day.
package accrual

import (
	"strconv"

	"cloud.google.com/go/civil"

	"github.com/Dan9191/debt-indexation/internal/models"
)

const (
	// PenaltyRatePercent is the statutory annual penalty rate
	PenaltyRatePercent = 3.0
	// DaysInYear is used for the penalty regardless of leap years
	DaysInYear = 365
	// IndexBase is the index value meaning "no change"
	IndexBase = 100.0
)

// Compute returns the inflation loss, penalty and total for a claim.
// It never fails; an empty or nil series gives zero inflation loss.
func Compute(claim models.DebtClaim, series *models.InflationSeries) models.AccrualResult {
	multiplier := Multiplier(SelectMonths(series, claim.StartDate, claim.EndDate))
	inflationLoss := claim.Principal * (multiplier - 1)
	penalty := Penalty(claim.Principal, PenaltyDays(claim.StartDate, claim.EndDate))
	total := claim.Principal + inflationLoss + penalty

	return models.AccrualResult{
		TotalDebt:     Round(total),
		InflationLoss: Round(inflationLoss),
		Penalty:       Round(penalty),
	}
}

// SelectMonths returns the points whose first day lies in [start, end].
// A range starting after the 1st excludes its starting month.
func SelectMonths(series *models.InflationSeries, start, end civil.Date) []models.InflationIndexPoint {
	var selected []models.InflationIndexPoint
	for _, p := range series.Points() {
		day := p.Month.FirstDay()
		if day.Before(start) || day.After(end) {
			continue
		}
		selected = append(selected, p)
	}
	return selected
}

// Multiplier folds the defined indices into a compounding factor.
// Points without a value are skipped.
func Multiplier(points []models.InflationIndexPoint) float64 {
	multiplier := 1.0
	for _, p := range points {
		index, ok := p.Value()
		if !ok {
			continue
		}
		multiplier *= index / IndexBase
	}
	return multiplier
}

// PenaltyDays is the signed number of whole days from start to end
func PenaltyDays(start, end civil.Date) int {
	return end.DaysSince(start)
}

// Penalty is the simple annual penalty for the given number of days
func Penalty(principal float64, days int) float64 {
	return principal * PenaltyRatePercent * float64(days) / DaysInYear / 100
}

// Round rounds to 2 decimal places, half to even on the exact binary value.
func Round(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
