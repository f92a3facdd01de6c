package config

import (
	"errors"
	"fmt"
)

// Validate checks cross-file references and value ranges
func (c *GameConfig) Validate() error {
	var errs []error
	for name, t := range c.Entities.Towers {
		if t.Cost <= 0 || t.Range <= 0 || t.AttackSpeed <= 0 {
			errs = append(errs, fmt.Errorf("tower %s: cost, range and attackSpeed must be positive", name))
		}
	}
	for name, e := range c.Entities.Enemies {
		if e.Health <= 0 || e.Speed < 0 {
			errs = append(errs, fmt.Errorf("enemy %s: health must be positive and speed non-negative", name))
		}
		if e.MagicResist < 0 || e.MagicResist >= 1 {
			errs = append(errs, fmt.Errorf("enemy %s: magicResist must be in [0, 1)", name))
		}
		for kind, r := range e.Resist {
			if r < 0 || r >= 1 {
				errs = append(errs, fmt.Errorf("enemy %s: resist %s must be in [0, 1)", name, kind))
			}
		}
	}
	for i, w := range c.Waves.Waves {
		for _, g := range w.Groups {
			if _, ok := c.Entities.Enemies[g.Enemy]; !ok {
				errs = append(errs, fmt.Errorf("wave %d: unknown enemy %q", i+1, g.Enemy))
			}
		}
	}
	return errors.Join(errs...)
}
