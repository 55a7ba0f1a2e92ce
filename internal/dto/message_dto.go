package dto

import "time"

type SendMessageDTO struct {
	Text  string  `json:"text"`
	Image *string `json:"image"`
}

type MessageResponseDTO struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Text       string    `json:"text"`
	Image      *string   `json:"image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
