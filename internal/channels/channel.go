package channels

import "context"

// Result is the normalized outcome of one provider attempt. Adapters never
// return errors past their boundary; every failure mode collapses into a
// status code and a human-readable message.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK reports whether the attempt succeeded.
func (r Result) OK() bool {
	return r.Code >= 200 && r.Code < 300
}

// Message is the channel-specific slice of a dispatch: the provider-side
// template reference, the destination and the template field values.
type Message struct {
	// Ref is the provider-side template identifier: a SendGrid dynamic
	// template id or a Botmaker rule name.
	Ref string
	// To is the destination address or phone number.
	To     string
	Fields map[string]string
	// MessageID is the queue message id, forwarded to providers that
	// support an idempotency key. May be empty.
	MessageID string
}

// Adapter sends one message through one delivery provider.
type Adapter interface {
	Send(ctx context.Context, m Message) Result
}
