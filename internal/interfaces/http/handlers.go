package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/bills"
	"github.com/billed-app/billed-server/internal/export"
	"github.com/billed-app/billed-server/internal/models"
)

const contextKeyEmail = "email"

// BillAPI is the slice of the bill service the handlers need.
type BillAPI interface {
	ListBills(ctx context.Context, email string) ([]models.Bill, error)
	CreateFile(ctx context.Context, email string, receipt bills.Receipt) (models.FileRef, error)
	UpdateBill(ctx context.Context, bill models.Bill) (models.Bill, error)
	GetBill(ctx context.Context, id int64) (*models.Bill, error)
	StoreFor(email string) bills.Store
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	api            BillAPI
	reports        *export.ReportWriter
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(api BillAPI, reports *export.ReportWriter, maxUploadBytes int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		api:            api,
		reports:        reports,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "billed-server",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// ListBills returns the raw bill records owned by the caller.
func (h *Handlers) ListBills(c *gin.Context) {
	email := c.GetString(contextKeyEmail)

	billList, err := h.api.ListBills(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if billList == nil {
		billList = []models.Bill{}
	}

	c.JSON(http.StatusOK, billList)
}

// CreateFile accepts a multipart receipt upload, stores it and opens a
// pending bill row for it.
func (h *Handlers) CreateFile(c *gin.Context) {
	email := c.GetString(contextKeyEmail)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	ref, err := h.api.CreateFile(c.Request.Context(), email, bills.Receipt{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if errors.Is(err, bills.ErrWrongExtension) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ref)
}

// UpdateBill persists a bill. Bound to both POST /api/bills (create) and
// PUT /api/bills/:id.
func (h *Handlers) UpdateBill(c *gin.Context) {
	email := c.GetString(contextKeyEmail)

	var bill models.Bill
	if err := c.ShouldBindJSON(&bill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill payload"})
		return
	}

	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill id"})
			return
		}
		bill.ID = id
	}
	if bill.Email == "" {
		bill.Email = email
	}

	stored, err := h.api.UpdateBill(c.Request.Context(), bill)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stored)
}

// EmployeeBills returns the caller's bills normalized for display, most
// recent first. A store failure surfaces its message verbatim so the error
// view can show it.
func (h *Handlers) EmployeeBills(c *gin.Context) {
	email := c.GetString(contextKeyEmail)
	user := models.User{Type: models.UserTypeEmployee, Email: email}

	sync := bills.NewSynchronizer(h.api.StoreFor(email), user, h.logger)
	rows, err := sync.FetchAndNormalizeBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	bills.SortAntiChronological(rows)
	c.JSON(http.StatusOK, gin.H{"bills": rows})
}

// ExportBills streams the caller's bills as an xlsx expense report.
func (h *Handlers) ExportBills(c *gin.Context) {
	email := c.GetString(contextKeyEmail)
	user := models.User{Type: models.UserTypeEmployee, Email: email}

	sync := bills.NewSynchronizer(h.api.StoreFor(email), user, h.logger)
	rows, err := sync.FetchAndNormalizeBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	bills.SortAntiChronological(rows)

	report, err := h.reports.Build(email, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer report.Close()

	buf, err := report.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="notes-de-frais.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// BillReceipt returns the stored receipt reference for one bill, the data
// behind the proof modal.
func (h *Handlers) BillReceipt(c *gin.Context) {
	email := c.GetString(contextKeyEmail)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill id"})
		return
	}

	bill, err := h.api.GetBill(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bill == nil || bill.Email != email {
		c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileUrl":  bill.FileURL,
		"fileName": bill.FileName,
	})
}
