/*
Package observability turns tutorial lifecycle events into metrics and logs.

Every helper returns a domain.LifecycleHooks value; install several at once with
Combine.
*/
package observability
