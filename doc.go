// Package voidecs implements an in-memory archetype-indexed entity
// component system: generational entity handles, columnar archetype
// storage with cached add/remove transitions, a filtered and cached
// query engine, a process-wide resource store, and a stage-based system
// scheduler with a small plugin-registration layer on top.
//
// The engine is single-threaded by contract (see the package-level
// concurrency notes on Scheduler); callers that need cross-goroutine
// access must serialize it themselves.
package voidecs
