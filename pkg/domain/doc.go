/*
Package domain contains the core domain models for the medibook conversation engine.

It defines the appointment catalog, the availability and booking records exchanged with
the scheduling service, and the conversation State. This package is kept pure and free
of I/O, following the Hexagonal Architecture used across the module.

# Key Entities

  - AppointmentType: a catalog entry (key, label, duration) loaded once at startup.
  - AvailabilitySlot: a bookable interval returned by the scheduling service.
  - State: a sealed variant describing exactly which step a conversation is in.
    Each variant carries only the fields that are valid at that step.
  - RemoteCall: a side-effect the engine asks its host to perform against the
    scheduling service while the conversation is parked in AwaitingRemote.
*/
package domain
