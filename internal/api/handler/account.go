// internal/api/handler/account.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"speedo-transfer/internal/api/types"
	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/service"
	"speedo-transfer/internal/util"
)

// AccountHandler serves read-only account and profile endpoints.
type AccountHandler struct {
	service service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		logger:  logger,
	}
}

// ListAccounts handles the list-accounts request.
// GET /api/accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.NewListResponse(accounts))
}

// Profile handles the current-user request.
// GET /api/users/me
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, user)
}

// ExchangeRate handles the exchange rate lookup.
// GET /api/exchange-rate?from=USD&to=EUR
func (h *AccountHandler) ExchangeRate(w http.ResponseWriter, r *http.Request) {
	from, err := domain.ParseCurrency(r.URL.Query().Get("from"))
	if err != nil {
		respondWithError(w, h.logger, fmt.Errorf("from: %v: %w", err, util.ErrInvalidInput))
		return
	}
	to, err := domain.ParseCurrency(r.URL.Query().Get("to"))
	if err != nil {
		respondWithError(w, h.logger, fmt.Errorf("to: %v: %w", err, util.ErrInvalidInput))
		return
	}

	rate, err := h.service.ExchangeRate(from, to)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.ExchangeRateResponse{From: from, To: to, Rate: rate})
}
