package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// DebtClaim is an overdue amount and the period it has been outstanding.
// StartDate after EndDate is allowed and yields a negative penalty.
type DebtClaim struct {
	Principal float64    `json:"principal"`
	StartDate civil.Date `json:"start_date"`
	EndDate   civil.Date `json:"end_date"`
}

// AccrualResult holds the amounts owed, rounded to 2 decimal places
type AccrualResult struct {
	TotalDebt     float64 `json:"total_debt"`
	InflationLoss float64 `json:"inflation_loss"`
	Penalty       float64 `json:"penalty"`
}

// Calculation is a served calculation, as kept in history
type Calculation struct {
	ID        uuid.UUID     `json:"id"`
	Claim     DebtClaim     `json:"claim"`
	Result    AccrualResult `json:"result"`
	CreatedAt time.Time     `json:"created_at"`
}
