package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RecordExportMessage tells the export worker that a transaction record needs
// to be appended to the backup spreadsheet. It carries only the record's
// identity; the worker fetches the current row from the database, so a stale
// message after an update never exports stale data.
type RecordExportMessage struct {
	MessageID string    `json:"messageId"`
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordExportMessage creates an export message for the given record.
func NewRecordExportMessage(kind string, id, version int64) *RecordExportMessage {
	return &RecordExportMessage{
		MessageID: uuid.NewString(),
		Kind:      kind,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordExportMessageFromJSON creates a message from JSON bytes
func RecordExportMessageFromJSON(data []byte) (*RecordExportMessage, error) {
	var msg RecordExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
