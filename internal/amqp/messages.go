package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by a record change message.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// RecordChangeMessage tells the mirror worker that one ledger record changed.
// It carries only the record ID and action, the worker reloads the ledger
// from the store before mirroring.
type RecordChangeMessage struct {
	RecordID  string    `json:"record_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordChangeMessage(recordID, action string) *RecordChangeMessage {
	return &RecordChangeMessage{
		RecordID:  recordID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
