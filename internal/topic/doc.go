// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package topic implements the in-process topic registry that buckets publish on.
//
// A Registry maps a topic name to an ordered list of subscriber records. Each
// record pairs an owner (the receiver the callback is bound to) with a Handler.
// Publish invokes every record of a topic synchronously, in subscription order,
// on the publisher's goroutine. There is no queueing: when Publish returns,
// every handler has run.
//
// Two topic families share one registry: per-bucket private topics
// ("Instance1", "Instance2", ...) and the generic event vocabulary
// ("added", "removed", "updated", "refreshed").
//
// Subscribe returns a Registration token; Unsubscribe removes the record and
// keeps the relative order of the remaining ones. Records that are never
// unsubscribed live as long as the Registry.
//
// Failure policy is chosen at construction. PolicyIsolate (the default)
// recovers a panicking handler, reports it, and continues with the next record.
// PolicyPropagate lets the panic unwind into the publisher's caller and skips
// the rest of the pass.
package topic
