package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/models"
)

// BillRepository handles bill database operations
type BillRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *sql.DB, logger *zap.Logger) *BillRepository {
	return &BillRepository{
		db:     db,
		logger: logger,
	}
}

const billColumns = `id, email, type, name, date, amount, vat, pct, commentary,
	file_url, file_name, status, created_at, updated_at`

// Create inserts a new bill and assigns its id.
func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	query := `
		INSERT INTO bills (
			email, type, name, date, amount, vat, pct, commentary,
			file_url, file_name, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Date,
		bill.Amount,
		bill.VAT,
		bill.Pct,
		bill.Commentary,
		bill.FileURL,
		bill.FileName,
		bill.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.String("email", bill.Email), zap.Error(err))
		return fmt.Errorf("failed to create bill: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	bill.ID = id
	return nil
}

// GetByID retrieves one bill, or nil when it does not exist.
func (r *BillRepository) GetByID(ctx context.Context, id int64) (*models.Bill, error) {
	query := fmt.Sprintf("SELECT %s FROM bills WHERE id = ?", billColumns)

	bill, err := scanBill(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bill", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return bill, nil
}

// ListByEmail retrieves all bills owned by an employee, insertion order.
// Display ordering is the caller's concern.
func (r *BillRepository) ListByEmail(ctx context.Context, email string) ([]models.Bill, error) {
	query := fmt.Sprintf("SELECT %s FROM bills WHERE email = ?", billColumns)

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *bill)
	}

	return bills, rows.Err()
}

// Update overwrites an existing bill's fields.
func (r *BillRepository) Update(ctx context.Context, bill *models.Bill) error {
	query := `
		UPDATE bills SET
			email = ?, type = ?, name = ?, date = ?, amount = ?, vat = ?,
			pct = ?, commentary = ?, file_url = ?, file_name = ?, status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Date,
		bill.Amount,
		bill.VAT,
		bill.Pct,
		bill.Commentary,
		bill.FileURL,
		bill.FileName,
		bill.Status,
		bill.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update bill", zap.Int64("id", bill.ID), zap.Error(err))
		return fmt.Errorf("failed to update bill: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bill %d not found", bill.ID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	var bill models.Bill
	err := row.Scan(
		&bill.ID,
		&bill.Email,
		&bill.Type,
		&bill.Name,
		&bill.Date,
		&bill.Amount,
		&bill.VAT,
		&bill.Pct,
		&bill.Commentary,
		&bill.FileURL,
		&bill.FileName,
		&bill.Status,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}
