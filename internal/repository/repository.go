package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Dan9191/debt-indexation/internal/models"
	"github.com/google/uuid"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveCalculation stores a served calculation
func (r *Repository) SaveCalculation(ctx context.Context, calc *models.Calculation) error {
	query := `
		INSERT INTO debt.calculations
			(id, principal, start_date, end_date, total_debt, inflation_loss, penalty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		calc.ID.String(),
		calc.Claim.Principal,
		calc.Claim.StartDate.In(time.UTC),
		calc.Claim.EndDate.In(time.UTC),
		calc.Result.TotalDebt,
		calc.Result.InflationLoss,
		calc.Result.Penalty,
		calc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// ListCalculations returns the latest calculations, newest first
func (r *Repository) ListCalculations(ctx context.Context, limit int) ([]models.Calculation, error) {
	query := `
		SELECT id, principal, start_date, end_date, total_debt, inflation_loss, penalty, created_at
		FROM debt.calculations
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var calcs []models.Calculation
	for rows.Next() {
		var (
			calc       models.Calculation
			id         string
			start, end time.Time
		)
		err := rows.Scan(&id, &calc.Claim.Principal, &start, &end,
			&calc.Result.TotalDebt, &calc.Result.InflationLoss, &calc.Result.Penalty, &calc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		if calc.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid calculation id %q: %w", id, err)
		}
		calc.Claim.StartDate = civil.DateOf(start)
		calc.Claim.EndDate = civil.DateOf(end)
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	return calcs, nil
}
