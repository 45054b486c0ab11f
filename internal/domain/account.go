// internal/domain/account.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Account is a currency-denominated balance owned by exactly one user.
// A user holds at most one account per currency.
type Account struct {
	ID            int64           `db:"id" json:"-"`                          // Surrogate key, BIGSERIAL in DB
	AccountNumber string          `db:"account_number" json:"account_number"` // Unique, immutable once assigned
	UserID        int64           `db:"user_id" json:"-"`                     // Owning user
	Currency      Currency        `db:"currency" json:"currency"`
	Balance       decimal.Decimal `db:"balance" json:"balance"` // NUMERIC(20, 4) in DB, never negative
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account instance with the given opening balance.
func NewAccount(userID int64, accountNumber string, currency Currency, balance decimal.Decimal) *Account {
	now := time.Now().UTC()
	return &Account{
		AccountNumber: accountNumber,
		UserID:        userID,
		Currency:      currency,
		Balance:       balance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanCover reports whether the balance is at least amount.
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
