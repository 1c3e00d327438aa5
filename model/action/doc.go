// Package action defines the Action record and its lifecycle state machine.
package action
