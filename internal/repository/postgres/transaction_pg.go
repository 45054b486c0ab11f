// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/repository"
)

const transactionColumns = `id, sender_id, receiver_id, amount, currency, status, created_at`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
// It only ever inserts and reads; journal rows are immutable.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new transaction record into the database using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (sender_id, receiver_id, amount, currency, status, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.SenderID,
		transaction.ReceiverID,
		transaction.Amount,
		transaction.Currency,
		transaction.Status,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsBySenderID retrieves every transaction a user sent.
func (r *TransactionRepository) GetTransactionsBySenderID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE sender_id = $1 ORDER BY id`
	if err := q.SelectContext(ctx, &transactions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions sent by user %d: %w", userID, err)
	}
	return transactions, nil
}

// GetTransactionsByReceiverID retrieves every transaction a user received.
func (r *TransactionRepository) GetTransactionsByReceiverID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE receiver_id = $1 ORDER BY id`
	if err := q.SelectContext(ctx, &transactions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions received by user %d: %w", userID, err)
	}
	return transactions, nil
}
