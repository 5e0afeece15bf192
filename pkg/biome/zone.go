// Package biome models circular terrain zones and the smooth radial
// influence field they produce. A Catalog is immutable after construction and
// safe for concurrent reads.
package biome

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Type identifies the terrain family a zone belongs to.
type Type uint8

const (
	Alpine Type = iota
	Forest
	River
	Transition
)

var typeNames = [...]string{
	Alpine:     "alpine",
	Forest:     "forest",
	River:      "river",
	Transition: "transition",
}

// Types returns every biome type in declaration order.
func Types() []Type {
	return []Type{Alpine, Forest, River, Transition}
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool { return int(t) < len(typeNames) }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("biome(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParseType maps a case-insensitive name to its Type.
func ParseType(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range typeNames {
		if s == n {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// MarshalText lets types appear as names in config files.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses a type name.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Attribute names a per-zone scalar such as a movement multiplier.
type Attribute string

const (
	SpeedMultiplier Attribute = "movement_speed"
	BurnMultiplier  Attribute = "calorie_burn"
)

// ElevationRule selects how a zone shapes the terrain underneath it.
type ElevationRule uint8

const (
	// RuleAuto picks the rule associated with the zone's type.
	RuleAuto ElevationRule = iota
	RulePeak
	RuleRollingHills
	RuleValley
	RuleTransition
)

var ruleNames = [...]string{
	RuleAuto:         "auto",
	RulePeak:         "peak",
	RuleRollingHills: "hills",
	RuleValley:       "valley",
	RuleTransition:   "transition",
}

func (r ElevationRule) String() string {
	if int(r) >= len(ruleNames) {
		return fmt.Sprintf("rule(%d)", uint8(r))
	}
	return ruleNames[r]
}

// ParseRule maps a rule name to its ElevationRule. The empty string is RuleAuto.
func ParseRule(name string) (ElevationRule, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return RuleAuto, nil
	}
	for i, s := range ruleNames {
		if s == n {
			return ElevationRule(i), nil
		}
	}
	return RuleAuto, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

// DefaultRule returns the rule a zone of type t uses when its rule is RuleAuto.
func DefaultRule(t Type) ElevationRule {
	switch t {
	case Alpine:
		return RulePeak
	case River:
		return RuleValley
	case Transition:
		return RuleTransition
	default:
		return RuleRollingHills
	}
}

// Zone is a circular region of influence with a terrain type and attribute
// multipliers.
type Zone struct {
	Type       Type
	Center     mgl64.Vec2
	Radius     float64
	Attributes map[Attribute]float64
	Rule       ElevationRule
}

// EffectiveRule resolves RuleAuto to the type's rule.
func (z Zone) EffectiveRule() ElevationRule {
	if z.Rule == RuleAuto {
		return DefaultRule(z.Type)
	}
	return z.Rule
}

// Attribute returns the zone's value for attr and whether it was set.
func (z Zone) Attribute(attr Attribute) (float64, bool) {
	v, ok := z.Attributes[attr]
	return v, ok
}

func (z Zone) clone() Zone {
	out := z
	if z.Attributes != nil {
		out.Attributes = make(map[Attribute]float64, len(z.Attributes))
		for k, v := range z.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}
