// Package idgen issues opaque unique identifiers; tests can stub NewFunc.
package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier as string.
var NewFunc = func() string { return uuid.New().String() }

// New returns NewFunc().
func New() string { return NewFunc() }
