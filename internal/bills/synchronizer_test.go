package bills

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/billed-app/billed-server/internal/models"
)

// fakeStore is a scripted Store for tests.
type fakeStore struct {
	bills     []models.Bill
	listErr   error
	createErr error
	updateErr error

	createCalls int
	updated     []models.Bill
	fileRef     models.FileRef
}

func (f *fakeStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.bills, nil
}

func (f *fakeStore) CreateFile(ctx context.Context, receipt Receipt) (models.FileRef, error) {
	f.createCalls++
	if f.createErr != nil {
		return models.FileRef{}, f.createErr
	}
	return f.fileRef, nil
}

func (f *fakeStore) UpdateBill(ctx context.Context, bill models.Bill) (models.Bill, error) {
	if f.updateErr != nil {
		return models.Bill{}, f.updateErr
	}
	f.updated = append(f.updated, bill)
	bill.ID = 1
	return bill, nil
}

var testUser = models.User{Type: models.UserTypeEmployee, Email: "a@a"}

func TestSynchronizer_FetchAndNormalizeBills(t *testing.T) {
	t.Run("normalizes date and status", func(t *testing.T) {
		store := &fakeStore{bills: []models.Bill{
			{ID: 1, Date: "2023-04-01", Status: "pending", Name: "Vol Paris-Bordeaux"},
			{ID: 2, Date: "2022-12-24", Status: "accepted"},
		}}
		sync := NewSynchronizer(store, testUser, zap.NewNop())

		rows, err := sync.FetchAndNormalizeBills(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "1 Avr. 23", rows[0].Date)
		assert.Equal(t, "2023-04-01", rows[0].RawDate)
		assert.Equal(t, "En attente", rows[0].Status)
		assert.Equal(t, "24 Déc. 22", rows[1].Date)
		assert.Equal(t, "Accepté", rows[1].Status)
	})

	t.Run("keeps corrupted record with raw date and logs it", func(t *testing.T) {
		store := &fakeStore{bills: []models.Bill{
			{ID: 7, Date: "Pouet", Status: "in progress"},
		}}
		core, logs := observer.New(zap.ErrorLevel)
		sync := NewSynchronizer(store, testUser, zap.New(core))

		rows, err := sync.FetchAndNormalizeBills(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, "Pouet", rows[0].Date)
		assert.Equal(t, "in progress", rows[0].Status)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("propagates store failure untouched", func(t *testing.T) {
		store := &fakeStore{listErr: errors.New("Erreur 404")}
		sync := NewSynchronizer(store, testUser, zap.NewNop())

		_, err := sync.FetchAndNormalizeBills(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Erreur 404", err.Error())
	})

	t.Run("empty store yields empty slice", func(t *testing.T) {
		sync := NewSynchronizer(&fakeStore{}, testUser, zap.NewNop())

		rows, err := sync.FetchAndNormalizeBills(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestSortAntiChronological(t *testing.T) {
	rows := []Row{
		{ID: 1, RawDate: "2022-01-01"},
		{ID: 2, RawDate: "2023-04-01"},
		{ID: 3, RawDate: "2001-01-01"},
		{ID: 4, RawDate: "2022-06-15"},
	}

	SortAntiChronological(rows)

	dates := make([]string, len(rows))
	for i, r := range rows {
		dates[i] = r.RawDate
	}
	assert.Equal(t, []string{"2023-04-01", "2022-06-15", "2022-01-01", "2001-01-01"}, dates)
}
