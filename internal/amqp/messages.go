package amqp

import (
	"encoding/json"
	"time"
)

// DueNotice is the message published when something enters its reminder
// window. It carries just enough for the notify worker to build a
// notification; the worker fetches anything else from the store.
type DueNotice struct {
	Kind      string    `json:"kind"` // "bill_due" or "event_reminder"
	RefID     string    `json:"ref_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	DueDate   string    `json:"due_date"` // yyyy-mm-dd
	Timestamp time.Time `json:"timestamp"`
}

// NewDueNotice creates a notice stamped with the current time.
func NewDueNotice(kind, refID, userID, name, dueDate string) *DueNotice {
	return &DueNotice{
		Kind:      kind,
		RefID:     refID,
		UserID:    userID,
		Name:      name,
		DueDate:   dueDate,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the notice to JSON bytes
func (m *DueNotice) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DueNoticeFromJSON creates a notice from JSON bytes
func DueNoticeFromJSON(data []byte) (*DueNotice, error) {
	var msg DueNotice
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
