package models

import (
	"time"
)

// Message defines a thread message based on the 'messages' table
type Message struct {
	ID        int64     `json:"id" db:"id"`
	RequestID int64     `json:"requestId" db:"request_id"`
	SenderID  int64     `json:"senderId" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MessageWithSender is a message paired with its author.
type MessageWithSender struct {
	Message
	Sender *User
}
