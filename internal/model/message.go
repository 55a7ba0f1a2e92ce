package model

import "time"

type Message struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SenderID   uint      `json:"sender_id" gorm:"not null;index:idx_messages_pair"`
	ReceiverID uint      `json:"receiver_id" gorm:"not null;index:idx_messages_pair"`
	Text       string    `json:"text" gorm:"type:text"`
	Image      *string   `json:"image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
