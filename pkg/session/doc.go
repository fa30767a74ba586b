/*
Package session hosts many independent tutorial stores, one per session ID.

A Manager keeps live sessions in memory, serializes every mutation of a session
behind a reference-counted mutex (plus an optional distributed lock), and
persists the resulting snapshot through a ports.SnapshotStore so a session can
be resumed by another process or replica.
*/
package session
