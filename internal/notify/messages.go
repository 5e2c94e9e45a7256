package notify

import (
	"encoding/json"
	"time"
)

// Bill event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// BillEvent is a lightweight message published when a bill changes.
// Consumers fetch the full record themselves; the event only carries enough
// to know what moved.
type BillEvent struct {
	Action    string    `json:"action"`
	BillID    int64     `json:"bill_id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBillCreated builds a created event.
func NewBillCreated(billID int64, email, status string) *BillEvent {
	return newBillEvent(ActionCreated, billID, email, status)
}

// NewBillUpdated builds an updated event.
func NewBillUpdated(billID int64, email, status string) *BillEvent {
	return newBillEvent(ActionUpdated, billID, email, status)
}

func newBillEvent(action string, billID int64, email, status string) *BillEvent {
	return &BillEvent{
		Action:    action,
		BillID:    billID,
		Email:     email,
		Status:    status,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *BillEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BillEventFromJSON decodes an event from JSON bytes
func BillEventFromJSON(data []byte) (*BillEvent, error) {
	var event BillEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
