// Package data holds the default bootstrap document that seeds an empty slot.
package data

import _ "embed"

// Seed is the content of data.json
//
//go:embed data.json
var Seed []byte
