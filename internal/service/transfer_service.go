// internal/service/transfer_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/exchange"
	"speedo-transfer/internal/repository"
	"speedo-transfer/internal/session"
	"speedo-transfer/internal/util"
	"speedo-transfer/pkg/db"
)

// TransferRequest asks to send Amount of SendCurrency to the account AccountNumber.
type TransferRequest struct {
	AccountNumber string
	Amount        decimal.Decimal
	SendCurrency  domain.Currency
}

// UsernameTransferRequest asks to send Amount of SendCurrency to the account
// Username holds in that same currency.
type UsernameTransferRequest struct {
	Username     string
	Amount       decimal.Decimal
	SendCurrency domain.Currency
}

// TransferService moves funds between accounts and reads the transfer journal.
type TransferService interface {
	Transfer(ctx context.Context, token string, req TransferRequest) (*domain.TransferResult, error)
	TransferToUser(ctx context.Context, token string, req UsernameTransferRequest) (*domain.TransferResult, error)
	History(ctx context.Context, token string) ([]domain.TransferResult, error)
}

// transferService implements the TransferService interface.
// It holds no mutable state; balances and the journal live in the store.
type transferService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads and the failed-attempt insert
	sessions        session.Authenticator
	userRepo        repository.UserRepository
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	rates           exchange.Resolver
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewTransferService creates a new instance of TransferService.
func NewTransferService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	sessions session.Authenticator,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	rates exchange.Resolver,
	tx TxFuncs,
	logger *slog.Logger,
) TransferService {
	return &transferService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		sessions:        sessions,
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		rates:           rates,
		beginTx:         tx.Begin,
		commitTx:        tx.Commit,
		rollbackTx:      tx.Rollback,
		logger:          logger,
	}
}

// receiverResolver finds the account a transfer credits, returning a typed error kind.
type receiverResolver func(ctx context.Context) (*domain.Account, error)

// Transfer sends funds to the account with the requested account number.
func (s *transferService) Transfer(ctx context.Context, token string, req TransferRequest) (*domain.TransferResult, error) {
	if err := validateAmount(req.Amount, req.SendCurrency); err != nil {
		return nil, err
	}
	if req.AccountNumber == "" {
		return nil, fmt.Errorf("account number is required: %w", util.ErrInvalidInput)
	}

	return s.transfer(ctx, token, req.Amount, req.SendCurrency, func(ctx context.Context) (*domain.Account, error) {
		account, err := s.accountRepo.GetAccountByNumber(ctx, s.dbExecutor, req.AccountNumber)
		if err != nil {
			return nil, lookupFailure(s.logger, "transfer: receiver account", err, util.ErrReceiverAccountNotFound)
		}
		return account, nil
	})
}

// TransferToUser sends funds to the receiver's account in the send currency,
// so no conversion ever happens on this path.
func (s *transferService) TransferToUser(ctx context.Context, token string, req UsernameTransferRequest) (*domain.TransferResult, error) {
	if err := validateAmount(req.Amount, req.SendCurrency); err != nil {
		return nil, err
	}
	if req.Username == "" {
		return nil, fmt.Errorf("username is required: %w", util.ErrInvalidInput)
	}

	return s.transfer(ctx, token, req.Amount, req.SendCurrency, func(ctx context.Context) (*domain.Account, error) {
		receiver, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, req.Username)
		if err != nil {
			return nil, lookupFailure(s.logger, "transfer: receiver user", err, util.ErrReceiverUserNotFound)
		}
		account, err := s.accountRepo.GetAccountByUserIDAndCurrency(ctx, s.dbExecutor, receiver.ID, req.SendCurrency)
		if err != nil {
			return nil, lookupFailure(s.logger, "transfer: receiver account", err, util.ErrReceiverAccountNotFound)
		}
		return account, nil
	})
}

// transfer authenticates the caller, resolves both parties and settles.
func (s *transferService) transfer(
	ctx context.Context,
	token string,
	amount decimal.Decimal,
	currency domain.Currency,
	resolveReceiver receiverResolver,
) (*domain.TransferResult, error) {
	userID, err := authenticate(ctx, s.sessions, s.logger, token)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, lookupFailure(s.logger, "transfer: sender user", err, util.ErrUserNotFound)
	}

	receiverAccount, err := resolveReceiver(ctx)
	if err != nil {
		return nil, err
	}

	senderAccount, err := s.accountRepo.GetAccountByUserIDAndCurrency(ctx, s.dbExecutor, sender.ID, currency)
	if err != nil {
		return nil, lookupFailure(s.logger, "transfer: sender account", err, util.ErrSenderAccountNotFound)
	}

	receiver, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, receiverAccount.UserID)
	if err != nil {
		return nil, lookupFailure(s.logger, "transfer: receiver user", err, util.ErrReceiverUserNotFound)
	}

	transaction, err := s.settle(ctx, settlement{
		senderID:          sender.ID,
		receiverID:        receiver.ID,
		senderAccountID:   senderAccount.ID,
		receiverAccountID: receiverAccount.ID,
		amount:            amount,
		currency:          currency,
	})
	if err != nil {
		return nil, err
	}

	result := transaction.Result()
	return &result, nil
}

type settlement struct {
	senderID          int64
	receiverID        int64
	senderAccountID   int64
	receiverAccountID int64
	amount            decimal.Decimal
	currency          domain.Currency
}

// settle locks both accounts, checks funds on the locked balance and either
// applies debit, credit and the success record in one commit, or releases the
// locks and journals the failed attempt on its own.
func (s *transferService) settle(ctx context.Context, p settlement) (*domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, persistenceFailure(s.logger, "transfer: begin transaction", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, persistenceFailure(s.logger, "transfer", errors.New("transaction controller does not implement DBExecutor"))
	}

	locked, err := s.accountRepo.LockAccountsForUpdate(ctx, txExecutor, lockOrder(p.senderAccountID, p.receiverAccountID)...)
	if err != nil {
		return nil, persistenceFailure(s.logger, "transfer: lock accounts", err)
	}
	senderAccount := findAccount(locked, p.senderAccountID)
	if senderAccount == nil {
		return nil, util.ErrSenderAccountNotFound
	}
	receiverAccount := findAccount(locked, p.receiverAccountID)
	if receiverAccount == nil {
		return nil, util.ErrReceiverAccountNotFound
	}

	if !senderAccount.CanCover(p.amount) {
		s.rollbackTx(txController)
		return nil, s.recordRejected(ctx, p)
	}

	credit, err := exchange.Convert(s.rates, p.amount, p.currency, receiverAccount.Currency)
	if err != nil {
		s.logger.Warn("exchange rate lookup failed", "from", p.currency, "to", receiverAccount.Currency, "error", err)
		return nil, fmt.Errorf("transfer: %w", util.ErrRateUnavailable)
	}

	if err := s.accountRepo.UpdateAccountBalance(ctx, txExecutor, senderAccount.ID, p.amount.Neg()); err != nil {
		return nil, persistenceFailure(s.logger, "transfer: debit sender", err)
	}
	if err := s.accountRepo.UpdateAccountBalance(ctx, txExecutor, receiverAccount.ID, credit); err != nil {
		return nil, persistenceFailure(s.logger, "transfer: credit receiver", err)
	}

	transaction := domain.NewTransaction(p.senderID, p.receiverID, p.amount, p.currency, true)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, persistenceFailure(s.logger, "transfer: record transaction", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, persistenceFailure(s.logger, "transfer: commit", err)
	}

	s.logger.Info("transfer settled",
		"transaction_id", transaction.ID,
		"sender_id", p.senderID,
		"receiver_id", p.receiverID,
		"amount", p.amount.String(),
		"currency", p.currency,
		"credit", credit.String(),
		"credit_currency", receiverAccount.Currency,
	)
	return transaction, nil
}

// recordRejected writes the failed attempt as a single auto-committed insert and
// returns ErrInsufficientFunds, or a persistence failure if the record could not be written.
func (s *transferService) recordRejected(ctx context.Context, p settlement) error {
	transaction := domain.NewTransaction(p.senderID, p.receiverID, p.amount, p.currency, false)
	if err := s.transactionRepo.CreateTransaction(ctx, s.dbExecutor, transaction); err != nil {
		return persistenceFailure(s.logger, "transfer: record rejected transaction", err)
	}
	s.logger.Info("transfer rejected",
		"transaction_id", transaction.ID,
		"sender_id", p.senderID,
		"receiver_id", p.receiverID,
		"amount", p.amount.String(),
		"currency", p.currency,
		"reason", util.ErrInsufficientFunds.Error(),
	)
	return util.ErrInsufficientFunds
}

// History returns every transaction the caller sent followed by every one they received.
func (s *transferService) History(ctx context.Context, token string) ([]domain.TransferResult, error) {
	userID, err := authenticate(ctx, s.sessions, s.logger, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, lookupFailure(s.logger, "history: user", err, util.ErrUserNotFound)
	}

	var sent, received []domain.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sent, err = s.transactionRepo.GetTransactionsBySenderID(gctx, s.dbExecutor, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		received, err = s.transactionRepo.GetTransactionsByReceiverID(gctx, s.dbExecutor, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, persistenceFailure(s.logger, "history", err)
	}

	results := make([]domain.TransferResult, 0, len(sent)+len(received))
	for i := range sent {
		results = append(results, sent[i].Result())
	}
	for i := range received {
		results = append(results, received[i].Result())
	}
	return results, nil
}

// maxAmount is the first amount NUMERIC(20, 4) columns cannot hold.
var maxAmount = decimal.New(1, 16)

// validateAmount accepts positive amounts below maxAmount with no more fractional
// digits than the currency's minor units. The upper bound keeps a rejected attempt
// storable in the journal.
func validateAmount(amount decimal.Decimal, currency domain.Currency) error {
	if !currency.Valid() {
		return fmt.Errorf("unsupported currency %q: %w", currency, util.ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %w", util.ErrInvalidInput)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount must be less than %s: %w", maxAmount.String(), util.ErrInvalidInput)
	}
	if !amount.Equal(amount.Round(currency.MinorUnits())) {
		return fmt.Errorf("amount has more than %d decimal places: %w", currency.MinorUnits(), util.ErrInvalidInput)
	}
	return nil
}

// lockOrder returns the distinct account ids to lock, ascending.
func lockOrder(a, b int64) []int64 {
	switch {
	case a == b:
		return []int64{a}
	case a < b:
		return []int64{a, b}
	default:
		return []int64{b, a}
	}
}

func findAccount(accounts []domain.Account, id int64) *domain.Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}
