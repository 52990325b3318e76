// Package models defines the core domain models for grouporder.
//
// # Models
//
//   - Token: one group-order session, created by an admin and shared out-of-band
//   - Order: one participant's submitted cart under a token
//   - LineItem: a single cart line (item, size, unit price, quantity)
//   - UserTotal: per-participant aggregate derived on read
//
// Participants are identified by the name they type in (no user accounts).
// Two participants typing the same name are aggregated together.
//
// # Persisted layout
//
// Tokens and orders live in two separate collections keyed by token id:
//
//	tokens: {"<id>": Token, ...}
//	orders: {"<id>": [Order, ...], ...}
//
// The JSON field names below are that persisted layout. Orders also record
// their TokenID so a single order read in isolation still knows its session.
package models
