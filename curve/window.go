package curve

// Prune drops every buffered point whose primary domain coordinate is
// strictly below lowerBound, keeping the remainder in order. Points
// may sit out of order when monotonic mode is off, so the whole
// sequence is walked rather than cut at a search index.
func (c *Curve) Prune(lowerBound float64) (removed int) {
	kept := c.Points[:0]

	for _, pt := range c.Points {
		if pt.PrimaryDomain() < lowerBound {
			removed++

			continue
		}

		kept = append(kept, pt)
	}

	c.Points = kept

	return
}

// MonotonicBroke reports a backward domain step while monotonic mode
// is on. The caller resolves it with a full registry reset before
// accepting the new point: a backward domain means the producer
// restarted its sequence.
func MonotonicBroke(enabled bool, newDomain, lastDomain float64) bool {
	return enabled && newDomain < lastDomain
}
