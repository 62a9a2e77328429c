// Package boardsync implements the realtime board synchronization engine
// inside the collaboration context.
//
// The module owns the session phase lifecycle, the vote ledger, item
// ordering, presence tracking and action items, and serializes every
// mutation per session before broadcasting the canonical board snapshot.
// Business rules live in the application/domain layers; persistence and
// the realtime transport stay behind ports and adapters.
package boardsync
