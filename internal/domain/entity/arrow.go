package entity

// HasHit reports whether the arrow already struck the enemy
func (p *Projectile) HasHit(id EntityID) bool {
	for _, h := range p.hits {
		if h == id {
			return true
		}
	}
	return false
}

// RegisterHit adds the enemy to the exclusion set and consumes one pierce.
// It reports whether the arrow keeps flying.
func (p *Projectile) RegisterHit(id EntityID) bool {
	p.hits = append(p.hits, id)
	if p.Pierce > 0 {
		p.Pierce--
		return true
	}
	p.Alive = false
	return false
}

// Hits returns the number of enemies struck so far
func (p *Projectile) Hits() int {
	return len(p.hits)
}
