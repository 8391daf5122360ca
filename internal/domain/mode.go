package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which workload variant feeds the engine.
type Mode string

// Mode constants
const (
	ModeManual Mode = "manual"
	ModeQuery  Mode = "query"
)

// ErrUnknownMode is returned when a mode string is neither manual nor query.
var ErrUnknownMode = errors.New("unknown simulation mode")

// ParseMode parses a mode name, case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeManual:
		return ModeManual, nil
	case ModeQuery:
		return ModeQuery, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeManual || m == ModeQuery
}
