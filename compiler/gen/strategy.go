package gen

import (
	"fmt"
	"strings"
)

// Strategy controls whether constructor arguments are folded into the
// mandatory ordering of a step builder.
type Strategy uint8

const (
	// StrategyUnset defers to the configured default strategy.
	StrategyUnset Strategy = iota
	// StrategyOpen chains only fields explicitly marked mandatory.
	StrategyOpen
	// StrategyStrict also chains every constructor argument.
	StrategyStrict
	// StrategyStepWise chains constructor arguments like StrategyStrict.
	StrategyStepWise
)

var strategyNames = [...]string{
	StrategyUnset:    "",
	StrategyOpen:     "OPEN",
	StrategyStrict:   "STRICT",
	StrategyStepWise: "STEP_WISE",
}

// ParseStrategy parses a strategy name. Matching is case-insensitive and
// accepts "-" in place of "_".
func ParseStrategy(s string) (Strategy, error) {
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
	if name == "" {
		return StrategyUnset, nil
	}
	for i, n := range strategyNames {
		if n != "" && n == name {
			return Strategy(i), nil
		}
	}
	return StrategyUnset, NewConfigError("Strategy", s, "unknown strategy; use OPEN, STRICT or STEP_WISE")
}

// String returns the canonical strategy name.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", s)
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return int(s) < len(strategyNames)
}

// EnforcesConstructor reports whether constructor arguments are chained as
// mandatory fields.
func (s Strategy) EnforcesConstructor() bool {
	return s == StrategyStrict || s == StrategyStepWise
}

// Or returns s, or def when s is unset.
func (s Strategy) Or(def Strategy) Strategy {
	if s == StrategyUnset {
		return def
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, NewConfigError("Strategy", int(s), "invalid strategy")
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
