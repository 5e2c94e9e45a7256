package models

import "time"

// Bill statuses. A bill is created as pending; only an approver moves it
// to accepted or refused.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// Bill represents an expense report submitted by an employee.
type Bill struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Date       string    `json:"date"` // ISO form YYYY-MM-DD
	Amount     float64   `json:"amount"`
	VAT        string    `json:"vat"` // stored as text, numeric in intent
	Pct        int       `json:"pct"`
	Commentary string    `json:"commentary"`
	FileURL    string    `json:"fileUrl"`
	FileName   string    `json:"fileName"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

// FileRef is the result of a receipt upload: the key of the bill row the
// store opened for it, plus where the file can be fetched from.
type FileRef struct {
	Key      int64  `json:"key"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
}
