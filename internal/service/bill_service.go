// Package service implements the bill store hosted by this server:
// listing, receipt intake and bill persistence on top of the repository,
// the receipt storage and the optional event publisher.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/bills"
	"github.com/billed-app/billed-server/internal/models"
	"github.com/billed-app/billed-server/internal/notify"
	"github.com/billed-app/billed-server/internal/repository"
	"github.com/billed-app/billed-server/pkg/utils"
)

// ReceiptSaver saves receipt content and returns the stored file name.
type ReceiptSaver interface {
	Save(fileName string, content []byte) (string, error)
}

// BillService orchestrates bill persistence and receipt storage.
type BillService struct {
	repo      *repository.BillRepository
	receipts  ReceiptSaver
	publisher *notify.Publisher
	logger    *zap.Logger
}

// NewBillService creates the bill service. publisher may be nil when event
// notifications are not configured.
func NewBillService(repo *repository.BillRepository, receipts ReceiptSaver, publisher *notify.Publisher, logger *zap.Logger) *BillService {
	return &BillService{
		repo:      repo,
		receipts:  receipts,
		publisher: publisher,
		logger:    logger,
	}
}

// ListBills returns all bills owned by the employee.
func (s *BillService) ListBills(ctx context.Context, email string) ([]models.Bill, error) {
	return s.repo.ListByEmail(ctx, email)
}

// CreateFile stores an uploaded receipt and opens a pending bill row for
// it. The extension gate is enforced here as well: clients validate before
// uploading, but the store is the authority.
func (s *BillService) CreateFile(ctx context.Context, email string, receipt bills.Receipt) (models.FileRef, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return models.FileRef{}, err
	}
	if !bills.AllowedExtension(receipt.Name) {
		s.logger.Error("wrong extension",
			zap.String("file_name", receipt.Name),
			zap.String("email", email))
		return models.FileRef{}, bills.ErrWrongExtension
	}

	stored, err := s.receipts.Save(receipt.Name, receipt.Content)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("failed to store receipt: %w", err)
	}

	bill := models.Bill{
		Email:    email,
		Status:   models.StatusPending,
		FileURL:  "/files/" + stored,
		FileName: receipt.Name,
	}
	if err := s.repo.Create(ctx, &bill); err != nil {
		return models.FileRef{}, err
	}

	s.notify(ctx, notify.NewBillCreated(bill.ID, email, bill.Status))

	return models.FileRef{
		Key:      bill.ID,
		FileURL:  bill.FileURL,
		FileName: bill.FileName,
	}, nil
}

// UpdateBill persists the bill, creating it when it has no id yet, and
// returns the stored record.
func (s *BillService) UpdateBill(ctx context.Context, bill models.Bill) (models.Bill, error) {
	if err := utils.ValidateEmail(bill.Email); err != nil {
		return models.Bill{}, err
	}
	if err := utils.ValidateAmount(bill.Amount); err != nil {
		return models.Bill{}, err
	}
	if bill.Status == "" {
		bill.Status = models.StatusPending
	}

	if bill.ID == 0 {
		if err := s.repo.Create(ctx, &bill); err != nil {
			return models.Bill{}, err
		}
		s.notify(ctx, notify.NewBillCreated(bill.ID, bill.Email, bill.Status))
		return bill, nil
	}

	if err := s.repo.Update(ctx, &bill); err != nil {
		return models.Bill{}, err
	}
	s.notify(ctx, notify.NewBillUpdated(bill.ID, bill.Email, bill.Status))
	return bill, nil
}

// GetBill returns one bill, or nil when it does not exist.
func (s *BillService) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	return s.repo.GetByID(ctx, id)
}

// StoreFor returns a bills.Store bound to one employee, backed by this
// service. The employee view handlers feed it to the synchronizer and
// submitter.
func (s *BillService) StoreFor(email string) bills.Store {
	return &localStore{svc: s, email: email}
}

// notify publishes a bill event. Publish failures are logged, never
// propagated: the bill is already persisted.
func (s *BillService) notify(ctx context.Context, event *notify.BillEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish bill event",
			zap.String("action", event.Action),
			zap.Int64("bill_id", event.BillID),
			zap.Error(err))
	}
}

// localStore adapts the service to the bills.Store contract for one
// employee.
type localStore struct {
	svc   *BillService
	email string
}

func (ls *localStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	return ls.svc.ListBills(ctx, ls.email)
}

func (ls *localStore) CreateFile(ctx context.Context, receipt bills.Receipt) (models.FileRef, error) {
	return ls.svc.CreateFile(ctx, ls.email, receipt)
}

func (ls *localStore) UpdateBill(ctx context.Context, bill models.Bill) (models.Bill, error) {
	if bill.Email == "" {
		bill.Email = ls.email
	}
	return ls.svc.UpdateBill(ctx, bill)
}
