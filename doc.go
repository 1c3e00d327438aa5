// Package actiongate implements an approval-gated action execution engine:
// an AI planner proposes side-effecting business actions, a human decision
// (or an auto-approve policy fixed at creation) releases them, and a worker
// pool executes them asynchronously with bounded retries and auditable
// outcomes. A periodic planner additionally synthesizes tracked tasks from
// aggregate business metrics, deduplicating against conditions that are
// already being worked.
package actiongate
