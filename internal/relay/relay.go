// Package relay brokers call signaling and presence between connected
// clients. It owns all ephemeral state: who is connected and who is in
// which call. Nothing here survives a restart.
package relay

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/momaws232/ChatCord/internal/domain"
)

// Relay coordinates the connection registry and the call table and
// fans events out to clients. Delivery is best-effort: an offline
// destination or a full outbound buffer drops the frame, the sender is
// never told.
type Relay struct {
	registry *Registry
	calls    *CallTable
}

func New() *Relay {
	return &Relay{
		registry: NewRegistry(),
		calls:    NewCallTable(),
	}
}

// Connect registers the connection and announces the user online to
// everyone else.
func (r *Relay) Connect(handle string, user domain.UserID, conn Conn) {
	r.registry.Register(handle, user, conn)
	log.Info().Str("module", "relay").Str("user", string(user)).Str("handle", handle).Msg("user connected")
	r.broadcastStatus(user, domain.StatusOnline)
}

// Disconnect announces the user offline and cascade-removes it from
// every call. A stale disconnect, arriving after the same identity
// reconnected on a newer handle, is ignored entirely: the newer
// connection owns the identity now.
func (r *Relay) Disconnect(handle string, user domain.UserID) {
	if !r.registry.Unregister(handle, user) {
		log.Info().Str("module", "relay").Str("user", string(user)).Str("handle", handle).Msg("stale disconnect ignored")
		return
	}
	log.Info().Str("module", "relay").Str("user", string(user)).Msg("user disconnected")
	r.broadcastStatus(user, domain.StatusOffline)

	for _, entry := range r.calls.LeaveAll(user) {
		if f, ok := encode(userLeftEvent{Event: EvUserLeftCall, UserID: user}); ok {
			for _, member := range entry.Remaining {
				r.send(member, f)
			}
		}
		log.Info().Str("module", "relay").Str("user", string(user)).
			Str("call", string(entry.CallID)).Int("remaining", len(entry.Remaining)).Msg("cascade leave")
	}
}

// DirectMessage forwards a chat message to a single recipient,
// dropping it silently when the recipient is offline.
func (r *Relay) DirectMessage(to, from domain.UserID, message string) {
	if f, ok := encode(directMessageEvent{Event: EvDirectMessage, From: from, Message: message}); ok {
		r.send(to, f)
	}
}

// CreateCall ensures a call record exists with the creator as its
// first participant.
func (r *Relay) CreateCall(id domain.CallID, creator domain.UserID) {
	r.calls.CreateOrTouch(id, creator)
	log.Info().Str("module", "relay").Str("call", string(id)).Str("creator", string(creator)).Msg("call created")
}

// JoinCall adds the user to the call, sends the user a snapshot of the
// participants already there, and notifies each of them so they can
// initiate a peer session toward the newcomer. Rejoining resends the
// snapshot without re-notifying anyone.
func (r *Relay) JoinCall(id domain.CallID, user domain.UserID) {
	others, joined := r.calls.Join(id, user)
	log.Info().Str("module", "relay").Str("call", string(id)).Str("user", string(user)).
		Bool("rejoin", !joined).Msg("join call")

	if f, ok := encode(participantsEvent{Event: EvCallParticipants, Users: others, CallID: id}); ok {
		r.send(user, f)
	}
	if !joined {
		return
	}
	if f, ok := encode(userJoinedEvent{Event: EvUserJoinedCall, UserID: user, CallID: id}); ok {
		for _, member := range others {
			r.send(member, f)
		}
	}
}

// LeaveCall removes the user from the call and notifies the remaining
// participants. When the last participant leaves, the record vanishes
// and nobody is left to notify.
func (r *Relay) LeaveCall(id domain.CallID, user domain.UserID) {
	remaining, left := r.calls.Leave(id, user)
	if !left {
		return
	}
	log.Info().Str("module", "relay").Str("call", string(id)).Str("user", string(user)).
		Int("remaining", len(remaining)).Msg("leave call")
	if len(remaining) == 0 {
		return
	}
	if f, ok := encode(userLeftEvent{Event: EvUserLeftCall, UserID: user}); ok {
		for _, member := range remaining {
			r.send(member, f)
		}
	}
}

// Signal forwards an opaque negotiation payload to its destination.
// The relay never inspects the payload.
func (r *Relay) Signal(to, from domain.UserID, callID domain.CallID, signal json.RawMessage) {
	if f, ok := encode(signalEvent{Event: EvCallSignal, From: from, Signal: signal, CallID: callID}); ok {
		r.send(to, f)
	}
}

// ActiveCalls lists the current call table for the debug API.
func (r *Relay) ActiveCalls() []domain.Call {
	return r.calls.Snapshot()
}

// Online reports the number of live connections.
func (r *Relay) Online() int {
	return r.registry.Len()
}

func (r *Relay) broadcastStatus(user domain.UserID, status string) {
	f, ok := encode(statusEvent{Event: EvUserStatusChanged, UserID: user, Status: status})
	if !ok {
		return
	}
	for _, peer := range r.registry.Peers(user) {
		if err := peer.TrySend(f); err != nil {
			log.Debug().Err(err).Str("module", "relay").Msg("status fan-out dropped")
		}
	}
}

func (r *Relay) send(to domain.UserID, f Frame) {
	conn, ok := r.registry.Lookup(to)
	if !ok {
		log.Debug().Str("module", "relay").Str("to", string(to)).Msg("destination offline, dropped")
		return
	}
	if err := conn.TrySend(f); err != nil {
		log.Debug().Err(err).Str("module", "relay").Str("to", string(to)).Msg("send dropped")
	}
}
