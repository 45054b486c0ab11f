// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"speedo-transfer/internal/domain"
)

// TransactionRepository is the append-only journal of transfer attempts.
type TransactionRepository interface {
	// CreateTransaction appends a transaction record and sets its ID.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsBySenderID returns transactions sent by a user in insertion order.
	GetTransactionsBySenderID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Transaction, error)
	// GetTransactionsByReceiverID returns transactions received by a user in insertion order.
	GetTransactionsByReceiverID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Transaction, error)
}
