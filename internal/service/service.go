// internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"speedo-transfer/internal/session"
	"speedo-transfer/internal/util"
	"speedo-transfer/pkg/db"
)

// TxFuncs bundles the transaction lifecycle functions a service runs with.
type TxFuncs struct {
	Begin    db.BeginTxFunc
	Commit   db.CommitTxFunc
	Rollback db.RollbackTxFunc
}

// DefaultTxFuncs returns the pkg/db implementations.
func DefaultTxFuncs() TxFuncs {
	return TxFuncs{Begin: db.BeginTx, Commit: db.CommitTx, Rollback: db.RollbackTx}
}

// authenticate resolves the user behind a raw Authorization value.
// Exists is always consulted before UserIDFor.
func authenticate(ctx context.Context, sessions session.Authenticator, logger *slog.Logger, raw string) (int64, error) {
	token := session.StripScheme(raw)
	if token == "" {
		return 0, util.ErrUnauthorized
	}

	ok, err := sessions.Exists(ctx, token)
	if err != nil {
		return 0, persistenceFailure(logger, "authenticate", err)
	}
	if !ok {
		return 0, util.ErrUnauthorized
	}

	userID, err := sessions.UserIDFor(ctx, token)
	if err != nil {
		// Revoked or expired between the two calls.
		if errors.Is(err, session.ErrNoSession) {
			return 0, util.ErrUnauthorized
		}
		return 0, persistenceFailure(logger, "authenticate", err)
	}
	return userID, nil
}

// persistenceFailure logs a store error and replaces it with the typed kind so
// driver errors never leave the service package.
func persistenceFailure(logger *slog.Logger, op string, err error) error {
	logger.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, util.ErrPersistenceFailure)
}

// lookupFailure maps a repository lookup error: not-found becomes kind, anything else
// is a persistence failure.
func lookupFailure(logger *slog.Logger, op string, err error, kind error) error {
	if errors.Is(err, util.ErrNotFound) {
		return kind
	}
	return persistenceFailure(logger, op, err)
}
