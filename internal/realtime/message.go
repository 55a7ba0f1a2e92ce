package realtime

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const (
	EventGetOnlineUsers    = "getOnlineUsers"
	EventNewMessage        = "newMessage"
	EventCallUser          = "call-user"
	EventIncomingCall      = "incoming-call"
	EventAnswerCall        = "answer-call"
	EventCallAccepted      = "call-accepted"
	EventAudioCallRequest  = "audio-call-request"
	EventIncomingAudioCall = "incoming-audio-call"
	EventEndCall           = "end-call"
	EventCallEnded         = "call-ended"
	EventRejectCall        = "reject-call"
	EventCallRejected      = "call-rejected"
)

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UserRef is a user id that clients may send as a JSON string or number.
type UserRef string

func (u *UserRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UserRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*u = UserRef(n.String())
	return nil
}

type signalRequest struct {
	To     UserRef         `json:"to"`
	From   UserRef         `json:"from,omitempty"`
	Signal json.RawMessage `json:"signal,omitempty"`
}

type incomingCall struct {
	From   UserRef         `json:"from"`
	Signal json.RawMessage `json:"signal,omitempty"`
}

type callAccepted struct {
	Signal json.RawMessage `json:"signal,omitempty"`
}

type incomingAudioCall struct {
	From UserRef `json:"from"`
}

func encode(event string, data interface{}) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

// UserKey formats a numeric user id the way clients register it.
func UserKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
