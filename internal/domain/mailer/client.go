package mailer

import "context"

// Message is one outbound notification for a single recipient.
type Message struct {
	ToEmail     string
	ToName      string
	Consecutive string
	PuestoID    int64
	EventTypeID int64
}

// Client defines an interface for the external send collaborator. The actual
// SMTP transmission lives behind this contract; this service only sees a
// request/response boundary.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
