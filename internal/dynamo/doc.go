// Package dynamo provides the shared simulation primitives used by the
// engine and its observers.
//
//   - [Integrator]: per-body velocity/position update rule
//   - [Observer], [Metric]: hooks notified after each committed step
//   - [Result]: summary of a headless run
//   - [ParallelFor]: chunked work split with error propagation
//
// # Thread Safety
//
// Nothing here synchronises access to engine state. [ParallelFor] only
// guarantees that every chunk has returned before it does.
package dynamo
