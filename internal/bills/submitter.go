package bills

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/models"
)

// ErrWrongExtension is returned when a selected receipt is not a jpg, jpeg
// or png file. No upload is attempted for rejected files.
var ErrWrongExtension = errors.New("wrong extension")

// allowedExtensions is the receipt allow-list. The extension comes from the
// file name suffix; the declared MIME type alone is not trusted.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedExtension reports whether the file name carries an accepted
// receipt extension, case-insensitively.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// defaultPct is applied when the pct field is blank or unparseable.
const defaultPct = 20

// UploadState tracks the receipt upload within one creation attempt.
type UploadState int

const (
	UploadNotStarted UploadState = iota
	UploadInFlight
	UploadReady
	UploadFailed
)

// Form holds the new-bill form fields as entered, all textual. Parsing
// happens at submit time.
type Form struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

// Submitter owns one in-progress bill creation: it validates and uploads the
// selected receipt, then assembles and persists the bill on submit.
type Submitter struct {
	store    Store
	user     models.User
	navigate func(path string)
	logger   *zap.Logger

	state  UploadState
	staged *models.FileRef
}

// NewSubmitter creates a submitter bound to one employee identity. navigate
// is invoked with the bills list path after a successful persist.
func NewSubmitter(store Store, user models.User, navigate func(path string), logger *zap.Logger) *Submitter {
	return &Submitter{
		store:    store,
		user:     user,
		navigate: navigate,
		logger:   logger,
		state:    UploadNotStarted,
	}
}

// State returns the current upload state.
func (s *Submitter) State() UploadState {
	return s.state
}

// StagedFile returns the file reference of the last successful upload, or
// nil when none is available.
func (s *Submitter) StagedFile() *models.FileRef {
	return s.staged
}

// HandleChangeFile validates the selected receipt and uploads it. A file
// with a disallowed extension is rejected before any store call: the staged
// reference is cleared and ErrWrongExtension is returned. An upload failure
// leaves the submitter without a usable file reference.
func (s *Submitter) HandleChangeFile(ctx context.Context, receipt Receipt) error {
	if !AllowedExtension(receipt.Name) {
		s.staged = nil
		s.state = UploadNotStarted
		s.logger.Error("wrong extension",
			zap.String("file_name", receipt.Name),
			zap.String("content_type", receipt.ContentType))
		return ErrWrongExtension
	}

	s.state = UploadInFlight
	ref, err := s.store.CreateFile(ctx, receipt)
	if err != nil {
		s.staged = nil
		s.state = UploadFailed
		s.logger.Error("Failed to upload receipt",
			zap.String("file_name", receipt.Name),
			zap.Error(err))
		return fmt.Errorf("failed to upload receipt: %w", err)
	}

	s.staged = &ref
	s.state = UploadReady
	s.logger.Debug("Receipt uploaded",
		zap.Int64("key", ref.Key),
		zap.String("file_url", ref.FileURL))
	return nil
}

// HandleSubmit assembles the bill from the form and the staged file
// reference, persists it, and navigates to the bills list on success. On a
// persist failure nothing is navigated and the form stays editable.
//
// Submitting without a ready upload is permitted and produces a bill with
// empty file fields; only HandleChangeFile gates on the file.
func (s *Submitter) HandleSubmit(ctx context.Context, form Form) error {
	bill := models.Bill{
		Email:      s.user.Email,
		Type:       form.Type,
		Name:       form.Name,
		Date:       form.Date,
		Amount:     parseAmount(form.Amount),
		VAT:        form.VAT,
		Pct:        parsePct(form.Pct),
		Commentary: form.Commentary,
		Status:     models.StatusPending,
	}

	if s.staged != nil {
		bill.ID = s.staged.Key
		bill.FileURL = s.staged.FileURL
		bill.FileName = s.staged.FileName
	} else {
		s.logger.Warn("Submitting bill without an uploaded receipt",
			zap.String("email", s.user.Email),
			zap.Stringer("upload_state", s.state))
	}

	if err := s.updateBill(ctx, bill); err != nil {
		s.logger.Error("Failed to persist bill",
			zap.String("email", s.user.Email),
			zap.Error(err))
		return fmt.Errorf("failed to persist bill: %w", err)
	}

	s.navigate(BillsPath)
	return nil
}

// updateBill persists the assembled bill through the store.
func (s *Submitter) updateBill(ctx context.Context, bill models.Bill) error {
	_, err := s.store.UpdateBill(ctx, bill)
	return err
}

func parseAmount(raw string) float64 {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return amount
}

func parsePct(raw string) int {
	pct, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultPct
	}
	return pct
}

func (st UploadState) String() string {
	switch st {
	case UploadNotStarted:
		return "not_started"
	case UploadInFlight:
		return "in_flight"
	case UploadReady:
		return "ready"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}
