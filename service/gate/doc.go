// Package gate implements the approval gate: the state machine governing an
// action's path from proposal through human decision to dispatch. All
// status transitions are enforced as conditional updates at the store so
// concurrent approve/cancel calls cannot both succeed.
package gate
