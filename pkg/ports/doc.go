/*
Package ports defines the driven ports (interfaces) of the medibook engine.

These interfaces decouple the conversation core from the scheduling backend and the
backend from its storage, so either side can be swapped (HTTP, in-process, mocks).

# Key Interfaces

  - SchedulingClient: the four remote operations the conversation flows depend on.
  - Conversation: the turn-level API exposed to transport adapters (HTTP, MCP, CLI).
  - BookingStore: persistence of bookings inside the reference scheduling service.
  - DistributedLocker: cross-replica locking of slots while a booking is written.
*/
package ports
