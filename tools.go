//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Tools used by the development workflow:
// - github.com/pressly/goose/v3/cmd/goose (migrations under migrations/)

import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)
