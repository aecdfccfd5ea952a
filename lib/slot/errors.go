package slot

import (
	"errors"
	"fmt"
	"strings"
)

// Load sources reported by LoadError and the load metrics
const (
	SourceSlot      = "slot"
	SourceBootstrap = "bootstrap"
)

// ErrNoBootstrap is wrapped in a LoadError when the slot is empty and the adapter
// has no bootstrap source
var ErrNoBootstrap = errors.New("slot is empty and no bootstrap source is configured")

// LoadError is returned by Adapter.Load. Source tells whether reading the slot or
// seeding it from the bootstrap document failed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError lists everything wrong with a document that is not a valid dataset
type ParseError struct {
	Problems []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed dataset: %s", strings.Join(e.Problems, "; "))
}
