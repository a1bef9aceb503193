package relay

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/momaws232/ChatCord/internal/domain"
)

// Outbound event names. These match the wire protocol the clients
// already speak.
const (
	EvUserStatusChanged = "user-status-changed"
	EvDirectMessage     = "direct-message-received"
	EvUserJoinedCall    = "user-joined-call"
	EvUserLeftCall      = "user-left-call"
	EvCallParticipants  = "call-participants"
	EvCallSignal        = "call-signal"
)

type statusEvent struct {
	Event  string        `json:"event"`
	UserID domain.UserID `json:"userId"`
	Status string        `json:"status"`
}

type directMessageEvent struct {
	Event   string        `json:"event"`
	From    domain.UserID `json:"from"`
	Message string        `json:"message"`
}

type userJoinedEvent struct {
	Event  string        `json:"event"`
	UserID domain.UserID `json:"userId"`
	CallID domain.CallID `json:"callId"`
}

type userLeftEvent struct {
	Event  string        `json:"event"`
	UserID domain.UserID `json:"userId"`
}

type participantsEvent struct {
	Event  string          `json:"event"`
	Users  []domain.UserID `json:"users"`
	CallID domain.CallID   `json:"callId"`
}

type signalEvent struct {
	Event  string          `json:"event"`
	From   domain.UserID   `json:"from"`
	Signal json.RawMessage `json:"signal"`
	CallID domain.CallID   `json:"callId"`
}

func encode(v any) (Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("encode event")
		return nil, false
	}
	return Frame(b), true
}
