package domain

// Flow is the ordered table of conversational nodes currently in effect.
// It is replaced wholesale on reload and never mutated after publication,
// so readers may hold a Flow across a swap without locking.
type Flow []FlowNode

// FindNode returns the first node with the given id, preserving flow order.
// Duplicate ids are resolved first-wins; uniqueness is not enforced at load.
func (f Flow) FindNode(id string) (*FlowNode, bool) {
	for i := range f {
		if f[i].NodeID == id {
			return &f[i], true
		}
	}
	return nil, false
}

// Fallback returns the first node marked with NodeTypeFallback, or nil.
func (f Flow) Fallback() *FlowNode {
	for i := range f {
		if f[i].Type == NodeTypeFallback {
			return &f[i]
		}
	}
	return nil
}

// DefaultFlow returns the built-in single-node flow published when no
// external flow has ever loaded successfully.
func DefaultFlow() Flow {
	return Flow{
		{
			NodeID: "default",
			Type:   NodeTypeFallback,
			Text:   "Welcome to Avasar, the citizen driven platform. I am bot agent Santosh. How can I help you today?",
		},
	}
}
