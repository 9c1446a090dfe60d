package whatsapp

import (
	"github.com/mitchellh/mapstructure"
)

// Event is the webhook notification envelope: entry[].changes[].value holds
// the actual messages. Everything the relay does not read is left undecoded.
type Event struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one account-level notification batch.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps one value payload.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value carries the inbound messages for one change.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
}

// Message is one inbound user message. Text messages carry Text.Body;
// template button taps carry Button.Payload; interactive taps carry a
// button_reply object inside the loosely typed Interactive map.
type Message struct {
	From        string         `json:"from"`
	ID          string         `json:"id"`
	Timestamp   string         `json:"timestamp"`
	Type        string         `json:"type"`
	Text        *Text          `json:"text,omitempty"`
	Button      *Button        `json:"button,omitempty"`
	Interactive map[string]any `json:"interactive,omitempty"`
}

// Text is the body of a free-text message.
type Text struct {
	Body string `json:"body"`
}

// Button is a template (quick-reply) button tap.
type Button struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

// buttonReply mirrors interactive.button_reply.
type buttonReply struct {
	ID    string `mapstructure:"id"`
	Title string `mapstructure:"title"`
}

// Messages flattens all entries and changes into one slice.
func (e *Event) Messages() []Message {
	var out []Message
	for _, entry := range e.Entry {
		for _, change := range entry.Changes {
			out = append(out, change.Value.Messages...)
		}
	}
	return out
}

// Body returns the free text of the message, if any.
func (m *Message) Body() string {
	if m.Text != nil {
		return m.Text.Body
	}
	return ""
}

// CallbackID returns the opaque CTA identifier carried by a button or
// interactive tap, or "" for plain messages.
func (m *Message) CallbackID() string {
	if m.Button != nil && m.Button.Payload != "" {
		return m.Button.Payload
	}
	if raw, ok := m.Interactive["button_reply"]; ok {
		var br buttonReply
		if err := mapstructure.Decode(raw, &br); err == nil {
			return br.ID
		}
	}
	return ""
}
