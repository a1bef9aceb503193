package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/momaws232/ChatCord/internal/domain"
)

// Inbound event names accepted on a client connection.
const (
	evSendDirectMessage = "send-direct-message"
	evCreateCall        = "create-call"
	evJoinCall          = "join-call"
	evLeaveCall         = "leave-call"
	evCallSignal        = "call-signal"
)

func (ctl *Controller) dispatch(user domain.UserID, data []byte) {
	var env struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad json")
		return
	}

	switch env.Event {
	case evSendDirectMessage:
		ctl.handleDirectMessage(data)
	case evCreateCall:
		ctl.handleCreateCall(data)
	case evJoinCall:
		ctl.handleJoinCall(data)
	case evLeaveCall:
		ctl.handleLeaveCall(data)
	case evCallSignal:
		ctl.handleCallSignal(data)
	default:
		log.Warn().Str("module", "ws").Str("event", env.Event).Msg("unknown event")
	}
}

func (ctl *Controller) handleDirectMessage(data []byte) {
	var p struct {
		To      domain.UserID `json:"to"`
		From    domain.UserID `json:"from"`
		Message string        `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad direct message payload")
		return
	}
	ctl.Relay.DirectMessage(p.To, p.From, p.Message)
}

func (ctl *Controller) handleCreateCall(data []byte) {
	var p struct {
		CallID    domain.CallID `json:"callId"`
		CreatorID domain.UserID `json:"creatorId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad create payload")
		return
	}
	ctl.Relay.CreateCall(p.CallID, p.CreatorID)
}

func (ctl *Controller) handleJoinCall(data []byte) {
	var p struct {
		CallID domain.CallID `json:"callId"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad join payload")
		return
	}
	ctl.Relay.JoinCall(p.CallID, p.UserID)
}

func (ctl *Controller) handleLeaveCall(data []byte) {
	var p struct {
		CallID domain.CallID `json:"callId"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad leave payload")
		return
	}
	ctl.Relay.LeaveCall(p.CallID, p.UserID)
}

func (ctl *Controller) handleCallSignal(data []byte) {
	var p struct {
		To     domain.UserID   `json:"to"`
		From   domain.UserID   `json:"from"`
		Signal json.RawMessage `json:"signal"`
		CallID domain.CallID   `json:"callId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad signal payload")
		return
	}
	ctl.Relay.Signal(p.To, p.From, p.CallID, p.Signal)
}
