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

func newTestSubmitter(store Store, logger *zap.Logger) (*Submitter, *[]string) {
	var visited []string
	sub := NewSubmitter(store, testUser, func(path string) {
		visited = append(visited, path)
	}, logger)
	return sub, &visited
}

func TestSubmitter_HandleChangeFile(t *testing.T) {
	t.Run("uploads a jpg exactly once without error", func(t *testing.T) {
		store := &fakeStore{fileRef: models.FileRef{Key: 42, FileURL: "/files/test.jpg", FileName: "test.jpg"}}
		core, logs := observer.New(zap.ErrorLevel)
		sub, _ := newTestSubmitter(store, zap.New(core))

		err := sub.HandleChangeFile(context.Background(), Receipt{
			Name:        "test.jpg",
			ContentType: "image/jpg",
			Content:     []byte("test"),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, store.createCalls)
		assert.Equal(t, 0, logs.Len())
		assert.Equal(t, UploadReady, sub.State())
		require.NotNil(t, sub.StagedFile())
		assert.Equal(t, int64(42), sub.StagedFile().Key)
	})

	t.Run("accepts jpeg and png regardless of case", func(t *testing.T) {
		store := &fakeStore{}
		sub, _ := newTestSubmitter(store, zap.NewNop())

		require.NoError(t, sub.HandleChangeFile(context.Background(), Receipt{Name: "photo.JPEG"}))
		require.NoError(t, sub.HandleChangeFile(context.Background(), Receipt{Name: "scan.PNG"}))
		assert.Equal(t, 2, store.createCalls)
	})

	t.Run("rejects a pdf before any upload", func(t *testing.T) {
		store := &fakeStore{}
		core, logs := observer.New(zap.ErrorLevel)
		sub, _ := newTestSubmitter(store, zap.New(core))

		err := sub.HandleChangeFile(context.Background(), Receipt{
			Name:        "test.pdf",
			ContentType: "document/pdf",
		})

		require.ErrorIs(t, err, ErrWrongExtension)
		assert.Equal(t, 0, store.createCalls)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "wrong extension", logs.All()[0].Message)
		assert.Equal(t, UploadNotStarted, sub.State())
		assert.Nil(t, sub.StagedFile())
	})

	t.Run("does not trust the MIME type alone", func(t *testing.T) {
		store := &fakeStore{}
		sub, _ := newTestSubmitter(store, zap.NewNop())

		err := sub.HandleChangeFile(context.Background(), Receipt{
			Name:        "receipt.exe",
			ContentType: "image/png",
		})

		require.ErrorIs(t, err, ErrWrongExtension)
		assert.Equal(t, 0, store.createCalls)
	})

	t.Run("clears a previously staged file on rejection", func(t *testing.T) {
		store := &fakeStore{fileRef: models.FileRef{Key: 1}}
		sub, _ := newTestSubmitter(store, zap.NewNop())

		require.NoError(t, sub.HandleChangeFile(context.Background(), Receipt{Name: "ok.png"}))
		require.NotNil(t, sub.StagedFile())

		_ = sub.HandleChangeFile(context.Background(), Receipt{Name: "bad.gif"})
		assert.Nil(t, sub.StagedFile())
	})

	t.Run("upload failure leaves no usable reference", func(t *testing.T) {
		store := &fakeStore{createErr: errors.New("Erreur 500")}
		sub, _ := newTestSubmitter(store, zap.NewNop())

		err := sub.HandleChangeFile(context.Background(), Receipt{Name: "test.jpg"})

		require.Error(t, err)
		assert.Nil(t, sub.StagedFile())
		assert.Equal(t, UploadFailed, sub.State())
	})
}

func TestSubmitter_HandleSubmit(t *testing.T) {
	fullForm := Form{
		Type:       "Transports",
		Name:       "Vol Paris-Bordeaux",
		Date:       "2023-04-01",
		Amount:     "42",
		VAT:        "18",
		Pct:        "20",
		Commentary: "test bill",
	}

	t.Run("persists the assembled bill and navigates", func(t *testing.T) {
		store := &fakeStore{fileRef: models.FileRef{Key: 9, FileURL: "/files/test.jpg", FileName: "test.jpg"}}
		sub, visited := newTestSubmitter(store, zap.NewNop())

		require.NoError(t, sub.HandleChangeFile(context.Background(), Receipt{Name: "test.jpg"}))
		require.NoError(t, sub.HandleSubmit(context.Background(), fullForm))

		require.Len(t, store.updated, 1)
		bill := store.updated[0]
		assert.Equal(t, "a@a", bill.Email)
		assert.Equal(t, "Transports", bill.Type)
		assert.Equal(t, "Vol Paris-Bordeaux", bill.Name)
		assert.Equal(t, "2023-04-01", bill.Date)
		assert.Equal(t, float64(42), bill.Amount)
		assert.Equal(t, "18", bill.VAT)
		assert.Equal(t, 20, bill.Pct)
		assert.Equal(t, "test bill", bill.Commentary)
		assert.Equal(t, models.StatusPending, bill.Status)
		assert.Equal(t, int64(9), bill.ID)
		assert.Equal(t, "/files/test.jpg", bill.FileURL)
		assert.Equal(t, "test.jpg", bill.FileName)

		assert.Equal(t, []string{BillsPath}, *visited)
	})

	t.Run("pct defaults to 20 when blank", func(t *testing.T) {
		store := &fakeStore{}
		sub, _ := newTestSubmitter(store, zap.NewNop())

		form := fullForm
		form.Pct = ""
		require.NoError(t, sub.HandleSubmit(context.Background(), form))

		require.Len(t, store.updated, 1)
		assert.Equal(t, 20, store.updated[0].Pct)
	})

	t.Run("submit without upload yields empty file fields", func(t *testing.T) {
		store := &fakeStore{}
		core, logs := observer.New(zap.WarnLevel)
		sub, visited := newTestSubmitter(store, zap.New(core))

		require.NoError(t, sub.HandleSubmit(context.Background(), fullForm))

		require.Len(t, store.updated, 1)
		assert.Empty(t, store.updated[0].FileURL)
		assert.Empty(t, store.updated[0].FileName)
		assert.Zero(t, store.updated[0].ID)
		assert.Equal(t, 1, logs.Len())
		assert.Equal(t, []string{BillsPath}, *visited)
	})

	t.Run("persist failure logs and does not navigate", func(t *testing.T) {
		store := &fakeStore{updateErr: errors.New("Erreur 500")}
		core, logs := observer.New(zap.ErrorLevel)
		sub, visited := newTestSubmitter(store, zap.New(core))

		err := sub.HandleSubmit(context.Background(), fullForm)

		require.Error(t, err)
		assert.Empty(t, *visited)
		assert.Equal(t, 1, logs.Len())
	})
}
