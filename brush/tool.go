package brush

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charactercut/refine/internal/logging"
)

// ErrUnknownTool is returned when a tool name or kind is not recognized.
var ErrUnknownTool = errors.New("brush: unknown tool")

// Kind identifies a refinement tool.
type Kind int

const (
	// Restore copies pixels from the original photo into the preview.
	Restore Kind = iota
	// Erase clears preview alpha inside the brush.
	Erase
	// PrecisionErase erases with half the configured radius.
	PrecisionErase
	// SmartErase erases only where the original matches the color under
	// the brush center.
	SmartErase
	// SmartRestore restores only where the original matches the color under
	// the brush center.
	SmartRestore

	kindCount
)

var kindNames = [...]string{
	Restore:        "restore",
	Erase:          "erase",
	PrecisionErase: "precision-erase",
	SmartErase:     "smart-erase",
	SmartRestore:   "smart-restore",
}

// String returns the tool name used in configuration files.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a known tool.
func (k Kind) Valid() bool {
	return k >= Restore && k < kindCount
}

// Kinds returns every known tool in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Restore; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind parses a tool name. Matching ignores case, surrounding space and
// accepts '_' or ' ' in place of '-'.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for k, name := range kindNames {
		if name == norm {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTool, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// rule is the compositing primitive a tool applies.
type rule uint8

const (
	ruleErase rule = iota
	ruleRestore
)

// strategy is the resolved painting behavior of a tool.
type strategy struct {
	rule        rule
	radiusScale float64
	edgeAware   bool
}

// strategyFor resolves the painting behavior for k. Unknown kinds fall back
// to plain erase.
func strategyFor(k Kind) strategy {
	switch k {
	case Restore:
		return strategy{rule: ruleRestore, radiusScale: 1}
	case Erase:
		return strategy{rule: ruleErase, radiusScale: 1}
	case PrecisionErase:
		return strategy{rule: ruleErase, radiusScale: 0.5}
	case SmartErase:
		return strategy{rule: ruleErase, radiusScale: 1, edgeAware: true}
	case SmartRestore:
		return strategy{rule: ruleRestore, radiusScale: 1, edgeAware: true}
	default:
		logging.Logger().Debug("brush: unknown tool, falling back to erase", "tool", int(k))
		return strategy{rule: ruleErase, radiusScale: 1}
	}
}
