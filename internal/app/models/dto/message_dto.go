package dto

import (
	"time"

	"github.com/yigit/mentorlink/internal/app/models"
)

// SendMessageRequest represents a new thread message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// ListMessagesRequest represents the polling cursor
type ListMessagesRequest struct {
	After int64 `form:"after" binding:"min=0"`
}

// MessageResponse represents a thread message
type MessageResponse struct {
	ID        int64        `json:"id"`
	RequestID int64        `json:"requestId"`
	SenderID  int64        `json:"senderId"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Sender    *UserSummary `json:"sender,omitempty"`
}

// NewMessageResponse maps a message with an optional sender.
func NewMessageResponse(m *models.Message, sender *models.User) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		RequestID: m.RequestID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Sender:    NewUserSummary(sender),
	}
}

// NewMessageListResponse maps a thread.
func NewMessageListResponse(msgs []models.MessageWithSender) []MessageResponse {
	resp := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, NewMessageResponse(&msgs[i].Message, msgs[i].Sender))
	}
	return resp
}
