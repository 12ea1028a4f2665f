package funding

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/models"
)

var (
	ErrRequestNotFound      = errors.New("funding request not found")
	ErrAlreadyDecided       = errors.New("funding request already decided")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrMissingDetails       = errors.New("missing payment details")
	ErrInsufficientEarnings = errors.New("insufficient earnings")
)

// Store is the persistence surface the service adjudicates against.
type Store interface {
	CreateDeposit(ctx context.Context, d *models.DepositRequest) error
	ApproveDeposit(ctx context.Context, id uuid.UUID) (bool, error)
	RejectDeposit(ctx context.Context, id uuid.UUID) (bool, error)
	GetDeposit(ctx context.Context, id uuid.UUID) (*models.DepositRequest, error)
	ListDepositsByUser(ctx context.Context, userID uuid.UUID) ([]*models.DepositRequest, error)
	ListPendingDeposits(ctx context.Context) ([]*PendingDeposit, error)

	CreateWithdrawalWithDebit(ctx context.Context, wr *models.WithdrawalRequest) error
	ApproveWithdrawal(ctx context.Context, id uuid.UUID) (bool, error)
	RejectWithdrawal(ctx context.Context, id uuid.UUID) (bool, error)
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID) ([]*models.WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]*PendingWithdrawal, error)
}

// Service handles deposit and withdrawal requests and their admin decisions.
type Service interface {
	SubmitDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method, transactionRef, proofRef string) (*models.DepositRequest, error)
	ApproveDeposit(ctx context.Context, id uuid.UUID) error
	RejectDeposit(ctx context.Context, id uuid.UUID) error
	ListMyDeposits(ctx context.Context, userID uuid.UUID) ([]*models.DepositRequest, error)
	ListPendingDeposits(ctx context.Context) ([]*PendingDeposit, error)

	SubmitWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method, accountDetails string) (*models.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, id uuid.UUID) error
	RejectWithdrawal(ctx context.Context, id uuid.UUID) error
	ListMyWithdrawals(ctx context.Context, userID uuid.UUID) ([]*models.WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]*PendingWithdrawal, error)
}

type service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, log: log}
}

func (s *service) SubmitDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method, transactionRef, proofRef string) (*models.DepositRequest, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if method == "" || transactionRef == "" {
		return nil, ErrMissingDetails
	}
	d := &models.DepositRequest{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         amount,
		Method:         method,
		TransactionRef: transactionRef,
		ProofRef:       proofRef,
		Status:         models.RequestStatusPending,
	}
	if err := s.store.CreateDeposit(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info("deposit request submitted", "request_id", d.ID, "user_id", userID, "amount", amount)
	return d, nil
}

func (s *service) ApproveDeposit(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.ApproveDeposit(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return s.decisionConflict(ctx, id, s.depositExists)
	}
	s.log.Info("deposit approved", "request_id", id)
	return nil
}

func (s *service) RejectDeposit(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.RejectDeposit(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return s.decisionConflict(ctx, id, s.depositExists)
	}
	s.log.Info("deposit rejected", "request_id", id)
	return nil
}

func (s *service) ListMyDeposits(ctx context.Context, userID uuid.UUID) ([]*models.DepositRequest, error) {
	return s.store.ListDepositsByUser(ctx, userID)
}

func (s *service) ListPendingDeposits(ctx context.Context) ([]*PendingDeposit, error) {
	return s.store.ListPendingDeposits(ctx)
}

func (s *service) SubmitWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method, accountDetails string) (*models.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if method == "" || accountDetails == "" {
		return nil, ErrMissingDetails
	}
	wr := &models.WithdrawalRequest{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         amount,
		Method:         method,
		AccountDetails: accountDetails,
		Status:         models.RequestStatusPending,
	}
	if err := s.store.CreateWithdrawalWithDebit(ctx, wr); err != nil {
		return nil, err
	}
	s.log.Info("withdrawal request submitted", "request_id", wr.ID, "user_id", userID, "amount", amount)
	return wr, nil
}

func (s *service) ApproveWithdrawal(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.ApproveWithdrawal(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return s.decisionConflict(ctx, id, s.withdrawalExists)
	}
	s.log.Info("withdrawal approved", "request_id", id)
	return nil
}

func (s *service) RejectWithdrawal(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.RejectWithdrawal(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return s.decisionConflict(ctx, id, s.withdrawalExists)
	}
	s.log.Info("withdrawal rejected and refunded", "request_id", id)
	return nil
}

func (s *service) ListMyWithdrawals(ctx context.Context, userID uuid.UUID) ([]*models.WithdrawalRequest, error) {
	return s.store.ListWithdrawalsByUser(ctx, userID)
}

func (s *service) ListPendingWithdrawals(ctx context.Context) ([]*PendingWithdrawal, error) {
	return s.store.ListPendingWithdrawals(ctx)
}

// decisionConflict distinguishes a missing request from one already decided,
// after a status-guarded update matched no rows.
func (s *service) decisionConflict(ctx context.Context, id uuid.UUID, exists func(context.Context, uuid.UUID) (bool, error)) error {
	found, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrRequestNotFound
	}
	return ErrAlreadyDecided
}

func (s *service) depositExists(ctx context.Context, id uuid.UUID) (bool, error) {
	d, err := s.store.GetDeposit(ctx, id)
	return d != nil, err
}

func (s *service) withdrawalExists(ctx context.Context, id uuid.UUID) (bool, error) {
	wr, err := s.store.GetWithdrawal(ctx, id)
	return wr != nil, err
}
