package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds routed through the sync queue.
const (
	KindCharge  = "charge"
	KindPayment = "payment"
)

// SyncMessage tells the worker that a ledger row group is waiting in SQLite.
// It carries only the kind and ref; the worker fetches the data itself, so a
// redelivered message is harmless.
type SyncMessage struct {
	Kind      string    `json:"kind"`
	Ref       string    `json:"ref"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(kind, ref string) *SyncMessage {
	return &SyncMessage{Kind: kind, Ref: ref, Timestamp: time.Now()}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
