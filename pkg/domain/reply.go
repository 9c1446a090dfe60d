package domain

// Reply is anything the relay can dispatch to a user: a flow node, or the
// ad hoc text produced by the generative fallback. The two variants share
// the sendable surface (text, ctas, media) but only nodes carry an identity.
type Reply interface {
	ReplyText() string
	ReplyCTAs() []CallToAction
	ReplyMedia() string
}

// AdHocReply wraps generated text that has no backing node. It never carries
// CTAs or media.
type AdHocReply struct {
	Text string `json:"text"`
}

// ReplyText implements Reply.
func (r AdHocReply) ReplyText() string { return r.Text }

// ReplyCTAs implements Reply.
func (r AdHocReply) ReplyCTAs() []CallToAction { return nil }

// ReplyMedia implements Reply.
func (r AdHocReply) ReplyMedia() string { return "" }
