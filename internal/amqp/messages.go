package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage is the lightweight notification published after each
// successful ledger mutation. The balance is the ledger's in-memory value at
// publish time; the audit worker compares it against durable storage.
type LedgerEventMessage struct {
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Action        string    `json:"action"`
	Balance       string    `json:"balance"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event with the current timestamp.
func NewLedgerEventMessage(userID, transactionID, action, balance string) *LedgerEventMessage {
	return &LedgerEventMessage{
		UserID:        userID,
		TransactionID: transactionID,
		Action:        action,
		Balance:       balance,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
