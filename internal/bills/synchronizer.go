package bills

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/models"
)

// Row is a bill normalized for display. Date holds the formatted form, or
// the raw value when it could not be parsed; RawDate keeps the ISO form as
// the sort key either way.
type Row struct {
	ID         int64   `json:"id"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	RawDate    string  `json:"rawDate"`
	Amount     float64 `json:"amount"`
	VAT        string  `json:"vat"`
	Pct        int     `json:"pct"`
	Commentary string  `json:"commentary"`
	Status     string  `json:"status"`
	FileURL    string  `json:"fileUrl"`
	FileName   string  `json:"fileName"`
}

// Synchronizer fetches an employee's bills and prepares them for display.
type Synchronizer struct {
	store  Store
	user   models.User
	logger *zap.Logger
}

// NewSynchronizer creates a synchronizer bound to one employee identity.
func NewSynchronizer(store Store, user models.User, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		store:  store,
		user:   user,
		logger: logger,
	}
}

// FetchAndNormalizeBills lists the employee's bills and normalizes date and
// status for display. A store failure propagates untouched. A record whose
// date cannot be parsed is logged and kept with its raw date, so one
// malformed record never aborts the whole list.
func (s *Synchronizer) FetchAndNormalizeBills(ctx context.Context) ([]Row, error) {
	raw, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(raw))
	for _, b := range raw {
		row := Row{
			ID:         b.ID,
			Type:       b.Type,
			Name:       b.Name,
			Date:       b.Date,
			RawDate:    b.Date,
			Amount:     b.Amount,
			VAT:        b.VAT,
			Pct:        b.Pct,
			Commentary: b.Commentary,
			Status:     FormatStatus(b.Status),
			FileURL:    b.FileURL,
			FileName:   b.FileName,
		}

		if formatted, err := FormatDate(b.Date); err != nil {
			s.logger.Error("Failed to format bill date",
				zap.Int64("bill_id", b.ID),
				zap.String("email", s.user.Email),
				zap.Error(err))
		} else {
			row.Date = formatted
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// SortAntiChronological orders rows most recent first. Lexicographic order
// over the raw ISO date is chronologically correct.
func SortAntiChronological(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RawDate > rows[j].RawDate
	})
}
