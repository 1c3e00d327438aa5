// Package handler defines the per-action-type handler contract and the
// registry the dispatch worker resolves handlers from. Handlers receive the
// action's opaque params coerced into their own typed input struct and must
// never mutate the action record; state transitions belong to the engine
// wrapping the invocation.
package handler
