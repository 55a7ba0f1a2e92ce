package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/realtime"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
)

// Notifier pushes an event to a user's live connection, if any.
type Notifier interface {
	SendToUser(userID, event string, data interface{}) bool
}

type MessageService interface {
	Conversation(ctx context.Context, userID, otherID uint) ([]dto.MessageResponseDTO, error)
	Send(ctx context.Context, senderID, receiverID uint, req dto.SendMessageDTO) (*dto.MessageResponseDTO, error)
}

type messageService struct {
	repo     repository.MessageRepository
	notifier Notifier
}

func NewMessageService(repo repository.MessageRepository, notifier Notifier) MessageService {
	return &messageService{repo: repo, notifier: notifier}
}

func (s *messageService) Conversation(ctx context.Context, userID, otherID uint) ([]dto.MessageResponseDTO, error) {
	messages, err := s.repo.FindConversation(ctx, userID, otherID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("otherID", otherID).Msg("Conversation: repository error")
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	out := make([]dto.MessageResponseDTO, 0, len(messages))
	if err := copier.Copy(&out, &messages); err != nil {
		return nil, fmt.Errorf("failed to map messages: %w", err)
	}
	return out, nil
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID uint, req dto.SendMessageDTO) (*dto.MessageResponseDTO, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && (req.Image == nil || *req.Image == "") {
		return nil, fmt.Errorf("message needs text or an image: %w", ErrInvalidInput)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot message yourself: %w", ErrInvalidInput)
	}

	message := &model.Message{SenderID: senderID, ReceiverID: receiverID, Text: text, Image: req.Image}
	if err := s.repo.Create(ctx, message); err != nil {
		log.Error().Err(err).Uint("senderID", senderID).Uint("receiverID", receiverID).Msg("Send message: repository error")
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	var resp dto.MessageResponseDTO
	if err := copier.Copy(&resp, message); err != nil {
		return nil, fmt.Errorf("failed to map message: %w", err)
	}
	if !s.notifier.SendToUser(realtime.UserKey(receiverID), realtime.EventNewMessage, resp) {
		log.Debug().Uint("receiverID", receiverID).Msg("Receiver offline, message stored only")
	}
	return &resp, nil
}
