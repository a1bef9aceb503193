package domain

// CallID names one voice session. Clients derive it from the sorted
// pair of identities for direct calls; the relay never validates that.
type CallID string

// Call is a read-only view of an active call for APIs.
// Participants are in insertion order.
type Call struct {
	ID           CallID   `json:"callId"`
	Creator      UserID   `json:"creatorId,omitempty"`
	Participants []UserID `json:"participants"`
}
