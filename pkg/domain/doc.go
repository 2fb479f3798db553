/*
Package domain contains the core document model for Espalier diagrams.

It defines the immutable value objects a finished diagram is made of: Elements,
PseudoElements (control markers), Containers (composite and concurrent),
Relationships, Notes, and the root Diagram aggregate. This package is kept pure
and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

Instances are assembled by the statechart builder and frozen at scope exit;
after that they are read-only and consumed by the serializer.

# Key Entities

  - Element: a labeled state node with an optional alias, description and style.
  - PseudoElement: a control marker (choice, fork, join, history, ...).
  - Container: an Element owning a nested sequence (composite) or named
    parallel regions (concurrent).
  - Relationship: a directed edge between two identities.
  - Note: free text attached to an identity or floating.
  - Diagram: the root aggregate with diagram-wide metadata.
*/
package domain
