// internal/repository/account_repo.go
package repository

import (
	"context"

	"speedo-transfer/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	GetAccountByNumber(ctx context.Context, q DBExecutor, accountNumber string) (*domain.Account, error)
	GetAccountByUserIDAndCurrency(ctx context.Context, q DBExecutor, userID int64, currency domain.Currency) (*domain.Account, error)
	GetAccountsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Account, error)
	// LockAccountsForUpdate re-reads the given accounts and holds row locks on them
	// until q's transaction ends. Rows are locked in ascending id order.
	LockAccountsForUpdate(ctx context.Context, q DBExecutor, ids ...int64) ([]domain.Account, error)
	// UpdateAccountBalance adds delta (which may be negative) to an account balance.
	UpdateAccountBalance(ctx context.Context, q DBExecutor, accountID int64, delta decimal.Decimal) error
}
