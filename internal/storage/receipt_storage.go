// Package storage persists uploaded receipt files on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ReceiptStorage writes receipt files under a base directory. Stored names
// are prefixed with a timestamp so two uploads of the same file never
// collide; the original name is kept for display elsewhere.
type ReceiptStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewReceiptStorage creates a receipt storage rooted at baseDir, creating
// the directory if needed.
func NewReceiptStorage(baseDir string, logger *zap.Logger) (*ReceiptStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create receipts directory: %w", err)
	}
	return &ReceiptStorage{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// BaseDir returns the storage root, for serving files over HTTP.
func (s *ReceiptStorage) BaseDir() string {
	return s.baseDir
}

// Save writes the receipt content and returns the stored file name,
// relative to the base directory.
func (s *ReceiptStorage) Save(fileName string, content []byte) (string, error) {
	stored := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFileName(fileName))
	fullPath := filepath.Join(s.baseDir, stored)

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write receipt",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	s.logger.Debug("Receipt saved",
		zap.String("stored_name", stored),
		zap.Int("size", len(content)))

	return stored, nil
}

// validatePath checks that the path stays within the base directory.
func (s *ReceiptStorage) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes receipts directory: %s", fullPath)
	}

	return nil
}

// sanitizeFileName strips path components and characters that have no
// business in a stored file name.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
