package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/debt-indexation/internal/accrual"
	"github.com/Dan9191/debt-indexation/internal/config"
	"github.com/Dan9191/debt-indexation/internal/inflation"
	"github.com/Dan9191/debt-indexation/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHistoryDisabled    = errors.New("calculation history is not configured")
	ErrNotifierDisabled   = errors.New("email notices are not configured")
)

// CalculationStore keeps served calculations
type CalculationStore interface {
	SaveCalculation(ctx context.Context, calc *models.Calculation) error
	ListCalculations(ctx context.Context, limit int) ([]models.Calculation, error)
}

// ClaimNotifier delivers a claim statement to a debtor
type ClaimNotifier interface {
	SendClaimNotice(to, name string, calc models.Calculation) error
}

// Service handles business logic
type Service struct {
	provider inflation.Provider
	store    CalculationStore
	notifier ClaimNotifier
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time
}

// NewService initializes a new service. store and notifier may be nil.
func NewService(provider inflation.Provider, store CalculationStore, notifier ClaimNotifier, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		provider: provider,
		store:    store,
		notifier: notifier,
		log:      log,
		config:   cfg,
		now:      time.Now,
	}
}

// Calculate fetches the inflation series and computes the amount owed.
// A failed fetch is returned as is and matches inflation.ErrDataUnavailable.
func (s *Service) Calculate(ctx context.Context, claim models.DebtClaim) (*models.Calculation, error) {
	series, err := s.provider.Fetch(ctx)
	if err != nil {
		s.log.Errorf("Failed to get inflation data: %v", err)
		return nil, err
	}

	calc := &models.Calculation{
		ID:        uuid.New(),
		Claim:     claim,
		Result:    accrual.Compute(claim, series),
		CreatedAt: s.now().UTC(),
	}

	s.log.WithFields(logrus.Fields{
		"id":             calc.ID,
		"principal":      claim.Principal,
		"start_date":     claim.StartDate.String(),
		"end_date":       claim.EndDate.String(),
		"total_debt":     calc.Result.TotalDebt,
		"inflation_loss": calc.Result.InflationLoss,
		"penalty":        calc.Result.Penalty,
	}).Info("Debt calculated")

	if s.store != nil {
		if err := s.store.SaveCalculation(ctx, calc); err != nil {
			s.log.Warnf("Calculation %s not recorded: %v", calc.ID, err)
		}
	}
	return calc, nil
}

// InflationSeries returns the currently published series
func (s *Service) InflationSeries(ctx context.Context) (*models.InflationSeries, error) {
	return s.provider.Fetch(ctx)
}

// History returns the latest calculations
func (s *Service) History(ctx context.Context, limit int) ([]models.Calculation, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	return s.store.ListCalculations(ctx, limit)
}

// NotifyDebtor calculates the claim and emails the statement to the debtor
func (s *Service) NotifyDebtor(ctx context.Context, claim models.DebtClaim, to, name string) (*models.Calculation, error) {
	if s.notifier == nil {
		return nil, ErrNotifierDisabled
	}
	calc, err := s.Calculate(ctx, claim)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.SendClaimNotice(to, name, *calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// Login checks the admin password and returns a JWT token
func (s *Service) Login(password string) (string, error) {
	if s.config.AdminPasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info("Admin logged in")
	return tokenString, nil
}
