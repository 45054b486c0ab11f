// internal/api/handler/transfer.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"speedo-transfer/internal/api/types"
	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/service"
)

// TransferHandler handles HTTP requests related to transfers.
type TransferHandler struct {
	service service.TransferService
	logger  *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(svc service.TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		service: svc,
		logger:  logger,
	}
}

// TransferRequest represents the request body for an account-number transfer.
type TransferRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"positive"`
	SendCurrency  string          `json:"sendCurrency" validate:"required,currency"`
}

// UsernameTransferRequest represents the request body for a transfer by username.
type UsernameTransferRequest struct {
	Username     string          `json:"username" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"positive"`
	SendCurrency string          `json:"sendCurrency" validate:"required,currency"`
}

// Transfer handles the transfer money request.
// POST /api/transfers
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}
	currency, _ := domain.ParseCurrency(req.SendCurrency) // checked by the currency rule

	result, err := h.service.Transfer(r.Context(), r.Header.Get("Authorization"), service.TransferRequest{
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
		SendCurrency:  currency,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, result)
}

// TransferToUser handles the transfer-by-username request.
// POST /api/transfers/username
func (h *TransferHandler) TransferToUser(w http.ResponseWriter, r *http.Request) {
	var req UsernameTransferRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}
	currency, _ := domain.ParseCurrency(req.SendCurrency)

	result, err := h.service.TransferToUser(r.Context(), r.Header.Get("Authorization"), service.UsernameTransferRequest{
		Username:     req.Username,
		Amount:       req.Amount,
		SendCurrency: currency,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, result)
}

// History handles the get transfer history request.
// GET /api/transfers/history
func (h *TransferHandler) History(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.History(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	if results == nil {
		results = []domain.TransferResult{}
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.HistoryResponse{Transactions: results})
}
