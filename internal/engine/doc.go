// Package engine implements the navsplit unidirectional state core.
//
// The engine owns the machinery that every feature shares: reducers and
// their composition, scoping a child feature into a parent, the effect
// scheduler with cancellable identities, the presentation lifecycle of
// optional child state, generic two-way bindings, and the Store that ties
// them together.
//
// ARCHITECTURE:
//
// Single-Writer Store:
// All state mutation happens inside Store.Send under one lock, one action
// at a time, in the order actions were enqueued. This ensures:
// - Predictable reducer evaluation order
// - Reproducible final state for a replayed action sequence
// - Effects never touch state; they can only send actions
//
// Dispatch Flow:
// 1. Send enqueues the action on a FIFO queue
// 2. The sender takes the writer lock and drains the queue
// 3. Each action runs through the composed reducer: binding reducer first,
//    then scoped feature reducers in declaration order
// 4. The new state is committed, stamped by the logical clock, and queued
//    for every subscriber
// 5. Returned effects are handed to the Scheduler, which runs each one in
//    its own goroutine and feeds emitted actions back through Send
//
// CRITICAL PATTERNS:
//
// Effect identity:
// An effect may declare an EffectID. Starting an effect whose identity is
// already running cancels the old one first. Identities are paths
// ("players/detail/activities"); cancelling a path cancels the subtree, which
// is how dismissing a presented child tears down everything it started.
//
// No late delivery:
// An action emitted by a cancelled effect is dropped, both when the effect
// tries to emit it and again when the writer dequeues it. Cancellation and
// the dequeue check both run under the writer lock, so once Cancel returns
// no action from that effect can reach a reducer.
//
// Pure reducers:
// Reducers do no I/O and read no clocks. Anything impure (ID generation,
// data access) is injected by the feature and exercised only from effects.
package engine
