/*
Package ports defines the driven ports (interfaces) for the Santosh relay.

These interfaces decouple the resolution core from external collaborators,
allowing the relay to work with various flow sources, messaging platforms,
and logging backends.

# Key Interfaces

  - FlowSource: Responsible for fetching the flow table (e.g., from a sheet export or memory).
  - Sender: Responsible for transmitting a reply to a user.
  - Generator: The generative fallback consulted when no node matches.
  - MessageLog: Records the conversation for later inspection.
*/
package ports
