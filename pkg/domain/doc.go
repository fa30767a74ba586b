/*
Package domain contains the core domain models of the Tamashi tutorial engine.

It defines the entities of the tutorial state machine: the immutable Step, the
authoritative State owned by a store, and the derived View consumed by hosts.
This package is kept pure and free of I/O, following Hexagonal Architecture
principles.

# Key Entities

  - Step: One message of the guide, linked to the next one by ID.
  - Tutorial: An ordered list of steps plus an optional start step (authoring unit).
  - State: The runtime snapshot of a loaded tutorial (steps, pointer, visibility).
  - View: The read model derived from a State (is something shown, and what).
  - Persona: The guide character whose name and asset are stamped into steps.
*/
package domain
