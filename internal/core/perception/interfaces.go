// Package perception fans world snapshots out to the active strategies.
//
// Key characteristics:
//   - Synchronous delivery: Publish calls every receiver on the caller's goroutine.
//   - Receivers must return quickly; strategies only decide and store.
//   - Snapshots carrying a sequence number not newer than the last one are dropped.
//   - Optional observability: metrics are collected only while observers are registered.
package perception

import "github.com/zeusync/pitchside/internal/core/world"

// Receiver consumes world snapshots.
type Receiver interface {
	OnWorldState(ws world.State)
}

// ReceiverFunc adapts a function to Receiver.
type ReceiverFunc func(ws world.State)

func (f ReceiverFunc) OnWorldState(ws world.State) { f(ws) }

// Subscription is a registered receiver.
type Subscription interface {
	// ID is unique per registration.
	ID() string
	IsActive() bool
	// Cancel removes the receiver. Multiple calls are safe.
	Cancel()
}

// Observer is told about every publish. Observers should return quickly.
type Observer interface {
	OnPublish(ws world.State, receivers int, durationMicros int64)
}

// Metrics is updated only while at least one observer is registered.
type Metrics struct {
	Published         uint64
	Delivered         uint64
	Dropped           uint64
	SubscribersActive uint64
}
