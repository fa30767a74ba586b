/*
Package ports defines the driven ports (interfaces) used by tamashi.

These interfaces decouple the tutorial store and its hosts from concrete
backends, so the same session and persona logic runs against memory, Redis,
gdata or a loam directory.

# Key Interfaces

  - SnapshotStore: persists tutorial state per session.
  - PreferenceStore: persists small per-user values such as the chosen guide.
  - Catalog: resolves tutorial definitions by ID.
  - DistributedLocker: serializes session access across replicas.
*/
package ports
