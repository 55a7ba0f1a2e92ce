package service

import (
	"context"
	"testing"

	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	saved []model.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m *model.Message) error {
	m.ID = uint(len(r.saved) + 1)
	r.saved = append(r.saved, *m)
	return nil
}

func (r *fakeMessageRepo) FindConversation(_ context.Context, a, b uint) ([]model.Message, error) {
	var out []model.Message
	for _, m := range r.saved {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

type pushed struct {
	user, event string
	data        interface{}
}

type fakeNotifier struct {
	online map[string]bool
	sent   []pushed
}

func (n *fakeNotifier) SendToUser(userID, event string, data interface{}) bool {
	if !n.online[userID] {
		return false
	}
	n.sent = append(n.sent, pushed{userID, event, data})
	return true
}

func TestSendMessagePushesToOnlineReceiver(t *testing.T) {
	repo := &fakeMessageRepo{}
	notifier := &fakeNotifier{online: map[string]bool{"2": true}}
	svc := NewMessageService(repo, notifier)
	ctx := context.Background()

	msg, err := svc.Send(ctx, 1, 2, dto.SendMessageDTO{Text: " hi "})
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Text)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "2", notifier.sent[0].user)
	assert.Equal(t, realtime.EventNewMessage, notifier.sent[0].event)

	_, err = svc.Send(ctx, 2, 3, dto.SendMessageDTO{Text: "offline"})
	require.NoError(t, err, "offline receivers still get the stored message")
	assert.Len(t, notifier.sent, 1)

	conv, err := svc.Conversation(ctx, 2, 1)
	require.NoError(t, err)
	assert.Len(t, conv, 1)
}

func TestSendMessageValidation(t *testing.T) {
	svc := NewMessageService(&fakeMessageRepo{}, &fakeNotifier{})
	empty := ""

	_, err := svc.Send(context.Background(), 1, 2, dto.SendMessageDTO{Text: "  ", Image: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Send(context.Background(), 1, 1, dto.SendMessageDTO{Text: "me"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
