package amqp

import (
	"encoding/json"
	"time"
)

// Reasons a recompute was requested, carried for logging only.
const (
	ReasonIncomeChanged  = "income_changed"
	ReasonSavingsChanged = "savings_changed"
)

// UserRecomputeMessage asks the worker to rebuild one user's denormalized
// totals. It carries only the user id; the worker re-reads the store, so a
// stale or duplicated message is harmless.
type UserRecomputeMessage struct {
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserRecomputeMessage(userID, reason string) *UserRecomputeMessage {
	return &UserRecomputeMessage{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *UserRecomputeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func UserRecomputeMessageFromJSON(data []byte) (*UserRecomputeMessage, error) {
	var msg UserRecomputeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
