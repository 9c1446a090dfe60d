/*
Package domain contains the core domain models for the Santosh relay.

It defines the conversational flow entities and the reply sum type. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - FlowNode: A single conversational unit (reply body, keyword, follow-up actions).
  - CallToAction: A button attached to a node, carrying an opaque platform id.
  - Flow: The ordered, immutable-once-published table of nodes in effect.
  - Reply: The sendable surface shared by FlowNode and AdHocReply.
*/
package domain
