package domain

// MaxCTAs is the number of call-to-action slots a flow row can carry.
const MaxCTAs = 5

// NodeTypeFallback marks the node replied with when nothing else matches.
// Any other Type value is free-form and carried through untouched.
const NodeTypeFallback = "fallback"

// CallToAction is a selectable button attached to a node.
// ID is the opaque identifier the platform echoes back when the user taps it.
type CallToAction struct {
	Text string `json:"text" yaml:"text"`
	ID   string `json:"id" yaml:"id"`

	// NextID is the node to transition to on selection.
	// When empty, the owning node itself is replied with.
	NextID string `json:"next_id,omitempty" yaml:"next_id,omitempty"`
}

// FlowNode is a single conversational unit: a reply body, the keyword that
// reaches it, and its follow-up actions.
type FlowNode struct {
	NodeID   string         `json:"node_id" yaml:"node_id"`
	Type     string         `json:"type" yaml:"type"`
	Text     string         `json:"text" yaml:"text"`
	Keyword  string         `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	MediaURL string         `json:"media_url,omitempty" yaml:"media_url,omitempty"`
	CTAs     []CallToAction `json:"ctas,omitempty" yaml:"ctas,omitempty"`
}

// ReplyText implements Reply.
func (n *FlowNode) ReplyText() string { return n.Text }

// ReplyCTAs implements Reply.
func (n *FlowNode) ReplyCTAs() []CallToAction { return n.CTAs }

// ReplyMedia implements Reply.
func (n *FlowNode) ReplyMedia() string { return n.MediaURL }
