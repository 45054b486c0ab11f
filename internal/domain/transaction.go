// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Transaction is the append-only journal record of one transfer attempt.
// Status is true for a settled transfer and false for one rejected for insufficient funds.
type Transaction struct {
	ID         int64           `db:"id" json:"id"`                   // Primary key, BIGSERIAL in DB
	SenderID   int64           `db:"sender_id" json:"sender_id"`     // Sending user
	ReceiverID int64           `db:"receiver_id" json:"receiver_id"` // Receiving user
	Amount     decimal.Decimal `db:"amount" json:"amount"`           // Sender-side amount, NUMERIC(20, 4) in DB
	Currency   Currency        `db:"currency" json:"currency"`       // Sender's currency at transfer time
	Status     bool            `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a new Transaction instance stamped with the current time.
func NewTransaction(senderID, receiverID int64, amount decimal.Decimal, currency Currency, status bool) *Transaction {
	return &Transaction{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Currency:   currency,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
}

// TransferResult is the outbound view of a written Transaction.
type TransferResult struct {
	TransactionID int64           `json:"transactionId"`
	SenderID      int64           `json:"senderId"`
	ReceiverID    int64           `json:"receiverId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	Status        bool            `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Result builds the outbound view of t.
func (t *Transaction) Result() TransferResult {
	return TransferResult{
		TransactionID: t.ID,
		SenderID:      t.SenderID,
		ReceiverID:    t.ReceiverID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Status:        t.Status,
		Timestamp:     t.CreatedAt,
	}
}
