// internal/service/account_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/exchange"
	"speedo-transfer/internal/repository"
	"speedo-transfer/internal/session"
	"speedo-transfer/internal/util"
)

// AccountService exposes read-only views of the caller's profile and accounts.
type AccountService interface {
	ListAccounts(ctx context.Context, token string) ([]domain.Account, error)
	Profile(ctx context.Context, token string) (*domain.User, error)
	ExchangeRate(from, to domain.Currency) (decimal.Decimal, error)
}

type accountService struct {
	dbExecutor  repository.DBExecutor
	sessions    session.Authenticator
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	rates       exchange.Resolver
	logger      *slog.Logger
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbExecutor repository.DBExecutor,
	sessions session.Authenticator,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	rates exchange.Resolver,
	logger *slog.Logger,
) AccountService {
	return &accountService{
		dbExecutor:  dbExecutor,
		sessions:    sessions,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		rates:       rates,
		logger:      logger,
	}
}

func (s *accountService) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	userID, err := authenticate(ctx, s.sessions, s.logger, token)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.GetAccountsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, persistenceFailure(s.logger, "list accounts", err)
	}
	return accounts, nil
}

func (s *accountService) Profile(ctx context.Context, token string) (*domain.User, error) {
	userID, err := authenticate(ctx, s.sessions, s.logger, token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, lookupFailure(s.logger, "profile", err, util.ErrUserNotFound)
	}
	return user, nil
}

// ExchangeRate reports the rate the transfer engine would apply between two currencies.
func (s *accountService) ExchangeRate(from, to domain.Currency) (decimal.Decimal, error) {
	if !from.Valid() || !to.Valid() {
		return decimal.Zero, fmt.Errorf("unsupported currency pair %s/%s: %w", from, to, util.ErrInvalidInput)
	}
	rate, err := s.rates.Rate(from, to)
	if err != nil {
		s.logger.Warn("exchange rate lookup failed", "from", from, "to", to, "error", err)
		return decimal.Zero, fmt.Errorf("exchange rate: %w", util.ErrRateUnavailable)
	}
	return rate, nil
}
