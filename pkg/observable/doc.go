/*
Package observable provides a small publish/subscribe primitive with
replay-last-value semantics.

A Subject keeps the most recent value and an ordered list of observers. New
observers immediately receive the latest value, then every later one, in the
order values were produced. Delivery is synchronous and queued: when an
observer publishes again from inside its callback, the new value is delivered
after the current one has reached every observer.
*/
package observable
