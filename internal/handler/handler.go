package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Dan9191/debt-indexation/internal/inflation"
	"github.com/Dan9191/debt-indexation/internal/middleware"
	"github.com/Dan9191/debt-indexation/internal/models"
	"github.com/Dan9191/debt-indexation/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	maxBodyBytes        = 1 << 16

	// form field names used by the debt form
	formPrincipal = "debt_form-initial_debt"
	formStartDate = "debt_form-start_date"
	formEndDate   = "debt_form-end_date"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type claimRequest struct {
	Principal *float64 `json:"principal"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

type notifyRequest struct {
	claimRequest
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type calculationResponse struct {
	ID            string  `json:"id"`
	Principal     float64 `json:"principal"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDebt     float64 `json:"total_debt"`
	InflationLoss float64 `json:"inflation_loss"`
	Penalty       float64 `json:"penalty"`
	CreatedAt     string  `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Calculate handles a debt calculation submitted as JSON or as the debt form
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var (
		req claimRequest
		err error
	)
	if isJSON(r) {
		err = json.NewDecoder(r.Body).Decode(&req)
	} else {
		req, err = claimFromForm(r)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	claim, err := req.toClaim()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	calc, err := h.svc.Calculate(r.Context(), claim)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(calc))
}

// Inflation lists the published monthly indices
func (h *Handler) Inflation(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.InflationSeries(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	points := series.Points()
	if points == nil {
		points = []models.InflationIndexPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"months": series.Len(),
		"series": points,
	})
}

// Login issues an admin token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	token, err := h.svc.Login(req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// History lists recorded calculations
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit))
			return
		}
		limit = n
	}

	calcs, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]calculationResponse, 0, len(calcs))
	for i := range calcs {
		out = append(out, toResponse(&calcs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"calculations": out})
}

// NotifyDebtor calculates a claim and emails it to the debtor
func (h *Handler) NotifyDebtor(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	claim, err := req.toClaim()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "email is invalid")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "debtor"
	}

	calc, err := h.svc.NotifyDebtor(r.Context(), claim, addr.Address, name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if subject, ok := middleware.Subject(r.Context()); ok {
		h.log.Infof("Claim notice %s requested by %s", calc.ID, subject)
	}
	writeJSON(w, http.StatusOK, toResponse(calc))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inflation.ErrDataUnavailable):
		http.Error(w, inflation.DataUnavailableMessage, http.StatusBadGateway)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrHistoryDisabled), errors.Is(err, service.ErrNotifierDisabled):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

func (req claimRequest) toClaim() (models.DebtClaim, error) {
	if req.Principal == nil {
		return models.DebtClaim{}, errors.New("principal is required")
	}
	if p := *req.Principal; p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return models.DebtClaim{}, errors.New("principal must be a positive amount")
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return models.DebtClaim{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return models.DebtClaim{}, err
	}
	return models.DebtClaim{Principal: *req.Principal, StartDate: start, EndDate: end}, nil
}

func parseDate(field, value string) (civil.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return civil.Date{}, fmt.Errorf("%s is required", field)
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return d, nil
}

func claimFromForm(r *http.Request) (claimRequest, error) {
	if err := r.ParseForm(); err != nil {
		return claimRequest{}, err
	}
	req := claimRequest{
		StartDate: r.PostForm.Get(formStartDate),
		EndDate:   r.PostForm.Get(formEndDate),
	}
	if raw := strings.TrimSpace(r.PostForm.Get(formPrincipal)); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return claimRequest{}, fmt.Errorf("initial_debt must be a number")
		}
		req.Principal = &p
	}
	return req, nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func toResponse(calc *models.Calculation) calculationResponse {
	return calculationResponse{
		ID:            calc.ID.String(),
		Principal:     calc.Claim.Principal,
		StartDate:     calc.Claim.StartDate.String(),
		EndDate:       calc.Claim.EndDate.String(),
		TotalDebt:     calc.Result.TotalDebt,
		InflationLoss: calc.Result.InflationLoss,
		Penalty:       calc.Result.Penalty,
		CreatedAt:     calc.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
