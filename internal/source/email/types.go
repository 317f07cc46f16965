package email

import (
	"errors"

	"github.com/nhle/order-tracker/internal/model"
)

// Credentials identify one mailbox account and the server it lives on.
type Credentials struct {
	Username string
	Password string
	Service  string
	Server   model.ServerConfig
}

// State is the lifecycle state of a Channel.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

var (
	// ErrNotConnected is returned by operations invoked outside the
	// connected state.
	ErrNotConnected = errors.New("imap channel is not connected")

	// ErrMessageNotFound is returned when a fetch yields no body for
	// the requested UID.
	ErrMessageNotFound = errors.New("message not found")
)
