package biome

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidRadius = errors.New("zone radius must be positive and finite")
	ErrInvalidCenter = errors.New("zone center must be finite")
	ErrUnknownType   = errors.New("unknown biome type")
	ErrUnknownRule   = errors.New("unknown elevation rule")
)

// Catalog is an ordered, immutable collection of zones. Zone order is the
// tie-break priority: earlier zones win ties.
type Catalog struct {
	zones       []Zone
	defaultType Type
	attrDefault map[Attribute]float64
}

// Option customizes catalog defaults.
type Option func(*Catalog)

// WithDefaultType sets the type reported where no zone has influence.
func WithDefaultType(t Type) Option {
	return func(c *Catalog) { c.defaultType = t }
}

// WithAttributeDefault sets the value reported for attr where no zone has
// influence, and the value used for zones that do not define attr.
func WithAttributeDefault(attr Attribute, v float64) Option {
	return func(c *Catalog) { c.attrDefault[attr] = v }
}

// NewCatalog validates and copies zones in order. Any zone with a
// non-positive or non-finite radius is rejected.
func NewCatalog(zones []Zone, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		zones:       make([]Zone, 0, len(zones)),
		defaultType: Forest,
		attrDefault: map[Attribute]float64{
			SpeedMultiplier: 1,
			BurnMultiplier:  1,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.defaultType.Valid() {
		return nil, fmt.Errorf("default type: %w: %d", ErrUnknownType, uint8(c.defaultType))
	}

	for i, z := range zones {
		if !z.Type.Valid() {
			return nil, fmt.Errorf("zone %d: %w: %d", i, ErrUnknownType, uint8(z.Type))
		}
		if !(z.Radius > 0) || math.IsInf(z.Radius, 0) {
			return nil, fmt.Errorf("zone %d (%s): %w: got %v", i, z.Type, ErrInvalidRadius, z.Radius)
		}
		if !finite(z.Center.X()) || !finite(z.Center.Y()) {
			return nil, fmt.Errorf("zone %d (%s): %w", i, z.Type, ErrInvalidCenter)
		}
		if int(z.Rule) >= len(ruleNames) {
			return nil, fmt.Errorf("zone %d (%s): %w: %d", i, z.Type, ErrUnknownRule, uint8(z.Rule))
		}
		c.zones = append(c.zones, z.clone())
	}
	return c, nil
}

// MustCatalog is NewCatalog that panics on invalid input. Intended for
// static layouts known to be valid.
func MustCatalog(zones []Zone, opts ...Option) *Catalog {
	c, err := NewCatalog(zones, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of zones.
func (c *Catalog) Len() int { return len(c.zones) }

// Zone returns a copy of the i-th zone.
func (c *Catalog) Zone(i int) Zone { return c.zones[i].clone() }

// Zones returns a copy of every zone in catalog order.
func (c *Catalog) Zones() []Zone {
	out := make([]Zone, len(c.zones))
	for i, z := range c.zones {
		out[i] = z.clone()
	}
	return out
}

// DefaultType is the type reported away from every zone.
func (c *Catalog) DefaultType() Type { return c.defaultType }

// AttributeDefault returns the global fallback for attr (0 when unset).
func (c *Catalog) AttributeDefault(attr Attribute) float64 {
	return c.attrDefault[attr]
}

// attribute reads zone i's attr, falling back to the catalog default.
func (c *Catalog) attribute(i int, attr Attribute) float64 {
	if v, ok := c.zones[i].Attributes[attr]; ok {
		return v
	}
	return c.attrDefault[attr]
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
