package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"

	"github.com/M1hasMAD/account-service/internal/api/httpx"
	"github.com/M1hasMAD/account-service/internal/api/validate"
	"github.com/M1hasMAD/account-service/internal/config"
	"github.com/M1hasMAD/account-service/internal/metrics"
	"github.com/M1hasMAD/account-service/internal/middleware"
	"github.com/M1hasMAD/account-service/internal/models"
	"github.com/M1hasMAD/account-service/internal/services"
)

func NewRouter(cfg config.Config, as *services.AccountService, bs *services.BalanceService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- accounts ----------
		r.Post("/accounts", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				OwnerType   string `json:"owner_type"`
				OwnerID     int64  `json:"owner_id"`
				AccountType string `json:"account_type"`
				Currency    string `json:"currency"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
				return
			}
			var errs validate.Errs
			for _, e := range []*validate.ErrField{
				validate.Required("owner_type", req.OwnerType),
				validate.MinInt("owner_id", req.OwnerID, 1),
				validate.Required("account_type", req.AccountType),
				validate.Required("currency", req.Currency),
			} {
				if e != nil {
					errs = append(errs, *e)
				}
			}
			if len(errs) > 0 {
				httpx.WriteError(w, http.StatusBadRequest, "validation_failed", errs.Error(), errs)
				return
			}
			a, err := as.Open(r.Context(), services.OpenAccountParams{
				OwnerType: models.OwnerType(req.OwnerType),
				OwnerID:   req.OwnerID,
				Type:      models.AccountType(req.AccountType),
				Currency:  req.Currency,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, a)
		})

		r.Get("/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := accountID(w, r)
			if !ok {
				return
			}
			a, err := as.Get(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, a)
		})

		transition := func(fn func(r *http.Request, id int64) (models.Account, error)) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				id, ok := accountID(w, r)
				if !ok {
					return
				}
				a, err := fn(r, id)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, a)
			}
		}
		r.Post("/accounts/{id}/freeze", transition(func(r *http.Request, id int64) (models.Account, error) {
			return as.Freeze(r.Context(), id)
		}))
		r.Post("/accounts/{id}/block", transition(func(r *http.Request, id int64) (models.Account, error) {
			return as.Block(r.Context(), id)
		}))
		r.Post("/accounts/{id}/close", transition(func(r *http.Request, id int64) (models.Account, error) {
			return as.Close(r.Context(), id)
		}))

		// ---------- balances ----------
		r.Get("/accounts/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
			id, ok := accountID(w, r)
			if !ok {
				return
			}
			b, err := bs.GetByAccount(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, b)
		})

		r.Post("/accounts/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
			id, ok := accountID(w, r)
			if !ok {
				return
			}
			var req struct {
				Authorization decimal.Decimal `json:"authorization_balance"`
				Actual        decimal.Decimal `json:"actual_balance"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
				return
			}
			b, err := bs.Create(r.Context(), id, services.BalanceAmounts{
				Authorization: req.Authorization,
				Actual:        req.Actual,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, b)
		})

		r.Put("/accounts/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
			id, ok := accountID(w, r)
			if !ok {
				return
			}
			var req struct {
				Authorization decimal.Decimal `json:"authorization_balance"`
				Actual        decimal.Decimal `json:"actual_balance"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
				return
			}
			b, err := bs.Update(r.Context(), id, services.BalanceAmounts{
				Authorization: req.Authorization,
				Actual:        req.Actual,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, b)
		})

		r.Post("/accounts/{id}/deposit", func(w http.ResponseWriter, r *http.Request) {
			id, ok := accountID(w, r)
			if !ok {
				return
			}
			amount, ok := decodeAmount(w, r)
			if !ok {
				return
			}
			b, err := bs.Deposit(r.Context(), id, amount)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, b)
		})

		r.Post("/accounts/{id}/withdraw", func(w http.ResponseWriter, r *http.Request) {
			id, ok := accountID(w, r)
			if !ok {
				return
			}
			amount, ok := decodeAmount(w, r)
			if !ok {
				return
			}
			b, err := bs.Withdraw(r.Context(), id, amount)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, b)
		})

		r.Post("/transfers", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				FromAccountID int64           `json:"from_account_id"`
				ToAccountID   int64           `json:"to_account_id"`
				Amount        decimal.Decimal `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
				return
			}
			var errs validate.Errs
			for _, e := range []*validate.ErrField{
				validate.MinInt("from_account_id", req.FromAccountID, 1),
				validate.MinInt("to_account_id", req.ToAccountID, 1),
				validate.Positive("amount", req.Amount),
			} {
				if e != nil {
					errs = append(errs, *e)
				}
			}
			if len(errs) > 0 {
				httpx.WriteError(w, http.StatusBadRequest, "validation_failed", errs.Error(), errs)
				return
			}
			from, to, err := bs.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]models.Balance{
				"from": from,
				"to":   to,
			})
		})
	})

	return r
}

func accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func decodeAmount(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
		return decimal.Decimal{}, false
	}
	return req.Amount, true
}

// writeDomainError maps the business error taxonomy onto HTTP statuses.
// Every kind stays distinguishable at the wire so callers can branch.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrAccountNotFound), errors.Is(err, models.ErrBalanceNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", verr.Error(), verr)
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrSameAccount):
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error(), nil)
	case errors.Is(err, models.ErrInvalidTransition):
		httpx.WriteError(w, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case errors.Is(err, models.ErrInsufficientBalance):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error(), nil)
	case errors.Is(err, models.ErrVersionConflict):
		httpx.WriteError(w, http.StatusConflict, "version_conflict", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
