// Package domain contains entities without logic, just meta-data.
package domain

// UserID is the caller-supplied identity of a connected user.
// It is not verified here; authentication lives outside the relay.
type UserID string

// Status values carried by user-status-changed events.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)
