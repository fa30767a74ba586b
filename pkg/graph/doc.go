/*
Package graph checks tutorial step graphs at authoring time.

The tutorial store accepts any step list and degrades silently on mistakes: a
NextStepID that names no step makes the guide disappear when reached, and a
repeated ID overwrites the earlier step. Validate reports those mistakes up
front so catalogs, builders and the CLI can reject a broken tutorial before it
is ever loaded.
*/
package graph
