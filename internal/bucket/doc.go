// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bucket provides Bucket, an observable ordered collection.
//
// A Bucket holds Items (a value plus the index it was given when it was
// indexed) and owns a private topic on a shared topic.Registry. Every mutation
// (Add, Remove, Update, Refresh) leaves the item list consistent and then
// publishes the full list exactly once on that topic. Consumers attach with
// Bind or BindFunc and are replayed the current list as part of binding.
//
// Indices are identifiers assigned at indexing time, not live positions:
// removing an item does not renumber the ones after it. Refresh re-indexes.
//
// A second, generic channel (On/Trigger) carries the event vocabulary
// added/removed/updated/refreshed across all buckets sharing a registry. It
// is independent of the private topics; mutations only fire it when the
// bucket is built WithEventTaps.
//
// Payload slices handed to consumers are shared between all consumers of one
// publish and must be treated as read-only.
package bucket
