// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/repository"
	"speedo-transfer/internal/util"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, account_number, user_id, currency, balance, created_at, updated_at`

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a new account. A second account in the same currency
// for the same user, or a reused account number, yields util.ErrDuplicateEntry.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (account_number, user_id, currency, balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		account.AccountNumber,
		account.UserID,
		account.Currency,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create account %s: %w", account.AccountNumber, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByNumber retrieves an account by its external account number.
func (r *AccountRepository) GetAccountByNumber(ctx context.Context, q repository.DBExecutor, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	err := q.GetContext(ctx, &account, query, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by number %s: %w", accountNumber, err)
	}
	return &account, nil
}

// GetAccountByUserIDAndCurrency retrieves the user's account in the given currency.
func (r *AccountRepository) GetAccountByUserIDAndCurrency(ctx context.Context, q repository.DBExecutor, userID int64, currency domain.Currency) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND currency = $2`
	err := q.GetContext(ctx, &account, query, userID, currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by user ID %d and currency %s: %w", userID, currency, err)
	}
	return &account, nil
}

// GetAccountsByUserID lists every account a user holds.
func (r *AccountRepository) GetAccountsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Account, error) {
	accounts := []domain.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id`
	if err := q.SelectContext(ctx, &accounts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %d: %w", userID, err)
	}
	return accounts, nil
}

// LockAccountsForUpdate takes row locks on the given accounts in id order, so two
// transfers touching the same pair of accounts always acquire them in the same order.
func (r *AccountRepository) LockAccountsForUpdate(ctx context.Context, q repository.DBExecutor, ids ...int64) ([]domain.Account, error) {
	accounts := []domain.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	if err := q.SelectContext(ctx, &accounts, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to lock accounts %v: %w", ids, err)
	}
	return accounts, nil
}

// UpdateAccountBalance applies delta to the balance of a specific account.
func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, q repository.DBExecutor, accountID int64, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to update account balance for ID %d: %w", accountID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating account balance for ID %d: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating account balance for ID %d: %w", accountID, util.ErrNotFound)
	}
	return nil
}
