// Package task defines planner task candidates and their persisted form.
package task
