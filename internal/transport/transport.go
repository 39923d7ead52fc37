// Package transport defines the outbound delivery contract consumed by
// the queue and the tick driver. The engine never talks to a messaging
// SDK directly; it asks the transport whether a tenant's session is
// ready and hands it fully composed payloads.
package transport

import "context"

// Kind selects the payload shape for one dispatch.
type Kind string

const (
	KindText    Kind = "text"
	KindMedia   Kind = "media"
	KindButtons Kind = "buttons"
)

// Options carries payload extras; zero value is fine for plain text.
type Options struct {
	MediaURL  string
	MediaType string // "image", "video", "audio"
	Buttons   []Button
}

type Button struct {
	ID   string
	Text string
}

// Transport is the delivery collaborator. Dispatch performs its own
// bounded retries and session recovery; a returned error means the
// message is lost and has already been accounted for internally.
type Transport interface {
	// IsReady reports whether the session can deliver right now.
	IsReady(sessionID string) bool
	// Dispatch sends one payload to one address.
	Dispatch(ctx context.Context, sessionID, address, body string, kind Kind, opt Options) error
}
