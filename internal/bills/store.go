// Package bills contains the bill synchronization and validation core:
// fetching and normalizing an employee's bills for display, and driving a
// new-bill submission (receipt validation, upload, persistence) against an
// abstract bill store.
package bills

import (
	"context"

	"github.com/billed-app/billed-server/internal/models"
)

// Store is the remote bill store contract. Implementations are bound to one
// employee identity; ListBills returns that employee's bills only.
type Store interface {
	// ListBills returns the raw bill records for the bound employee.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// CreateFile uploads a receipt and returns the stored file reference
	// together with the key of the bill row the store opened for it.
	CreateFile(ctx context.Context, receipt Receipt) (models.FileRef, error)

	// UpdateBill persists the bill, creating it when it has no id yet, and
	// returns the stored record.
	UpdateBill(ctx context.Context, bill models.Bill) (models.Bill, error)
}

// Receipt is a receipt file as handed over by the file picker.
type Receipt struct {
	Name        string // original file name, extension included
	ContentType string // declared MIME type, not trusted for validation
	Content     []byte
}

// Employee view routes.
const (
	BillsPath   = "/employee/bills"
	NewBillPath = "/employee/bill/new"
)
