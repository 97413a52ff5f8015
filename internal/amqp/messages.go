package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// PostingMessage carries a committed positive posting to the goal sync worker.
type PostingMessage struct {
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	CategoryID    int64     `json:"category_id"`
	AmountCents   int64     `json:"amount_cents"`
	Date          time.Time `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewPostingMessage stamps the message with the current time.
func NewPostingMessage(transactionID, userID, categoryID, amountCents int64, date time.Time) *PostingMessage {
	return &PostingMessage{
		TransactionID: transactionID,
		UserID:        userID,
		CategoryID:    categoryID,
		AmountCents:   amountCents,
		Date:          date,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PostingMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PostingMessageFromJSON decodes and sanity-checks a message body.
func PostingMessageFromJSON(data []byte) (*PostingMessage, error) {
	var msg PostingMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.CategoryID <= 0 || msg.AmountCents <= 0 {
		return nil, errors.New("posting message needs a category and a positive amount")
	}
	return &msg, nil
}
