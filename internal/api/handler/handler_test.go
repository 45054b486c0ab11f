// internal/api/handler/handler_test.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"speedo-transfer/internal/api/types"
	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/service"
	"speedo-transfer/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, token string, req service.TransferRequest) (*domain.TransferResult, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockTransferService) TransferToUser(ctx context.Context, token string, req service.UsernameTransferRequest) (*domain.TransferResult, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockTransferService) History(ctx context.Context, token string) ([]domain.TransferResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferResult), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) Profile(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) ExchangeRate(from, to domain.Currency) (decimal.Decimal, error) {
	args := m.Called(from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func testLogger() *slog.Logger {
	return util.NewLogger(io.Discard, "error")
}

func newRequest(method, target, body, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("amount must be positive: %w", util.ErrInvalidInput), http.StatusBadRequest},
		{util.ErrUnauthorized, http.StatusUnauthorized},
		{util.ErrInsufficientFunds, http.StatusPaymentRequired},
		{util.ErrUserNotFound, http.StatusNotFound},
		{util.ErrReceiverAccountNotFound, http.StatusNotFound},
		{util.ErrSenderAccountNotFound, http.StatusNotFound},
		{util.ErrReceiverUserNotFound, http.StatusNotFound},
		{fmt.Errorf("transfer: %w", util.ErrRateUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("transfer: commit: %w", util.ErrPersistenceFailure), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransferHandler_Transfer(t *testing.T) {
	t.Run("Successful transfer", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())
		now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

		expected := service.TransferRequest{AccountNumber: "ACC-BOB", Amount: decimal.RequireFromString("40.00"), SendCurrency: domain.CurrencyUSD}
		svc.On("Transfer", mock.Anything, "Bearer tok", mock.MatchedBy(func(req service.TransferRequest) bool {
			return req.AccountNumber == expected.AccountNumber && req.Amount.Equal(expected.Amount) && req.SendCurrency == expected.SendCurrency
		})).Return(&domain.TransferResult{
			TransactionID: 9, SenderID: 1, ReceiverID: 2,
			Amount: expected.Amount, Currency: domain.CurrencyUSD, Status: true, Timestamp: now,
		}, nil).Once()

		rec := httptest.NewRecorder()
		h.Transfer(rec, newRequest(http.MethodPost, "/api/transfers", `{"accountNumber":"ACC-BOB","amount":"40.00","sendCurrency":"usd"}`, "Bearer tok"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.EqualValues(t, 9, body["transactionId"])
		assert.Equal(t, "USD", body["currency"])
		assert.Equal(t, true, body["status"])
		svc.AssertExpectations(t)
	})

	t.Run("Validation failure never reaches the service", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())

		rec := httptest.NewRecorder()
		h.Transfer(rec, newRequest(http.MethodPost, "/api/transfers", `{"accountNumber":"","amount":-5,"sendCurrency":"JPY"}`, "Bearer tok"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Contains(t, body.Fields, "accountNumber")
		assert.Contains(t, body.Fields, "amount")
		assert.Contains(t, body.Fields, "sendCurrency")
		svc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Amount must be a positive decimal", func(t *testing.T) {
		for _, body := range []string{
			`{"accountNumber":"ACC-BOB","amount":"0","sendCurrency":"USD"}`,
			`{"accountNumber":"ACC-BOB","amount":"-0.01","sendCurrency":"USD"}`,
			`{"accountNumber":"ACC-BOB","sendCurrency":"USD"}`,
		} {
			svc := new(MockTransferService)
			h := NewTransferHandler(svc, testLogger())

			rec := httptest.NewRecorder()
			h.Transfer(rec, newRequest(http.MethodPost, "/api/transfers", body, "Bearer tok"))

			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Contains(t, decodeError(t, rec).Fields, "amount", body)
			svc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("Smallest positive amount passes validation", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())
		svc.On("Transfer", mock.Anything, "Bearer tok", mock.MatchedBy(func(req service.TransferRequest) bool {
			return req.Amount.Equal(decimal.RequireFromString("0.01"))
		})).Return(&domain.TransferResult{TransactionID: 1, Status: true}, nil).Once()

		rec := httptest.NewRecorder()
		h.Transfer(rec, newRequest(http.MethodPost, "/api/transfers", `{"accountNumber":"ACC-BOB","amount":"0.01","sendCurrency":"USD"}`, "Bearer tok"))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Malformed body", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())

		rec := httptest.NewRecorder()
		h.Transfer(rec, newRequest(http.MethodPost, "/api/transfers", `{"accountNumber":`, "Bearer tok"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Insufficient funds maps to 402", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())
		svc.On("Transfer", mock.Anything, "Bearer tok", mock.Anything).Return(nil, util.ErrInsufficientFunds).Once()

		rec := httptest.NewRecorder()
		h.Transfer(rec, newRequest(http.MethodPost, "/api/transfers", `{"accountNumber":"ACC-BOB","amount":50,"sendCurrency":"USD"}`, "Bearer tok"))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "insufficient funds", decodeError(t, rec).Error)
	})

	t.Run("Persistence failure hides details", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())
		svc.On("Transfer", mock.Anything, "Bearer tok", mock.Anything).
			Return(nil, fmt.Errorf("transfer: commit: %w", util.ErrPersistenceFailure)).Once()

		rec := httptest.NewRecorder()
		h.Transfer(rec, newRequest(http.MethodPost, "/api/transfers", `{"accountNumber":"ACC-BOB","amount":50,"sendCurrency":"USD"}`, "Bearer tok"))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "commit")
	})
}

func TestTransferHandler_TransferToUser(t *testing.T) {
	svc := new(MockTransferService)
	h := NewTransferHandler(svc, testLogger())
	svc.On("TransferToUser", mock.Anything, "Bearer tok", mock.MatchedBy(func(req service.UsernameTransferRequest) bool {
		return req.Username == "bob" && req.SendCurrency == domain.CurrencyEGP
	})).Return(nil, util.ErrReceiverAccountNotFound).Once()

	rec := httptest.NewRecorder()
	h.TransferToUser(rec, newRequest(http.MethodPost, "/api/transfers/username", `{"username":"bob","amount":"10","sendCurrency":"EGP"}`, "Bearer tok"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestTransferHandler_History(t *testing.T) {
	t.Run("Wraps results in transactions", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())
		svc.On("History", mock.Anything, "Bearer tok").Return([]domain.TransferResult{
			{TransactionID: 1, Status: true},
			{TransactionID: 2, Status: false},
		}, nil).Once()

		rec := httptest.NewRecorder()
		h.History(rec, newRequest(http.MethodGet, "/api/transfers/history", "", "Bearer tok"))

		require.Equal(t, http.StatusOK, rec.Code)
		var body types.HistoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Transactions, 2)
		assert.Equal(t, int64(2), body.Transactions[1].TransactionID)
	})

	t.Run("Empty history is an empty list", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())
		svc.On("History", mock.Anything, "Bearer tok").Return([]domain.TransferResult(nil), nil).Once()

		rec := httptest.NewRecorder()
		h.History(rec, newRequest(http.MethodGet, "/api/transfers/history", "", "Bearer tok"))

		assert.JSONEq(t, `{"transactions":[]}`, rec.Body.String())
	})

	t.Run("Unauthorized", func(t *testing.T) {
		svc := new(MockTransferService)
		h := NewTransferHandler(svc, testLogger())
		svc.On("History", mock.Anything, "").Return(nil, util.ErrUnauthorized).Once()

		rec := httptest.NewRecorder()
		h.History(rec, newRequest(http.MethodGet, "/api/transfers/history", "", ""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler(t *testing.T) {
	t.Run("Login returns the token", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, testLogger())
		svc.On("Login", mock.Anything, "alice@example.com", "pw").Return("tok-123", nil).Once()

		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"pw"}`, ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"token":"tok-123"}`, rec.Body.String())
	})

	t.Run("Login rejects a malformed email", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, testLogger())

		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":"pw"}`, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Fields, "email")
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, testLogger())
		svc.On("Login", mock.Anything, "alice@example.com", "nope").Return("", util.ErrUnauthorized).Once()

		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"nope"}`, ""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Logout", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc, testLogger())
		svc.On("Logout", mock.Anything, "Bearer tok").Return(nil).Once()

		rec := httptest.NewRecorder()
		h.Logout(rec, newRequest(http.MethodPost, "/api/auth/logout", "", "Bearer tok"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestAccountHandler(t *testing.T) {
	t.Run("List accounts", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, testLogger())
		svc.On("ListAccounts", mock.Anything, "Bearer tok").Return([]domain.Account{
			{ID: 1, AccountNumber: "A-1", Currency: domain.CurrencyUSD, Balance: decimal.RequireFromString("12.5")},
		}, nil).Once()

		rec := httptest.NewRecorder()
		h.ListAccounts(rec, newRequest(http.MethodGet, "/api/accounts", "", "Bearer tok"))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.EqualValues(t, 1, body["count"])
		assert.NotContains(t, rec.Body.String(), `"user_id"`)
	})

	t.Run("Profile never exposes the password hash", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, testLogger())
		svc.On("Profile", mock.Anything, "Bearer tok").Return(&domain.User{ID: 1, Username: "alice", PasswordHash: "$2a$secret"}, nil).Once()

		rec := httptest.NewRecorder()
		h.Profile(rec, newRequest(http.MethodGet, "/api/users/me", "", "Bearer tok"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice")
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("Exchange rate", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, testLogger())
		svc.On("ExchangeRate", domain.CurrencyUSD, domain.CurrencyEUR).Return(decimal.RequireFromString("0.9"), nil).Once()

		rec := httptest.NewRecorder()
		h.ExchangeRate(rec, newRequest(http.MethodGet, "/api/exchange-rate?from=usd&to=EUR", "", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"from":"USD","to":"EUR","rate":"0.9"}`, rec.Body.String())
	})

	t.Run("Exchange rate with unknown currency", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, testLogger())

		rec := httptest.NewRecorder()
		h.ExchangeRate(rec, newRequest(http.MethodGet, "/api/exchange-rate?from=USD&to=BTC", "", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ExchangeRate", mock.Anything, mock.Anything)
	})
}
