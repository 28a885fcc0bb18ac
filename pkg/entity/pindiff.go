package entity

// DiffPins compares two pin collections by id and returns the pins present
// only in next (added) and only in prev (removed).
//
// This is the sync primitive behind pin-added/pin-removed notifications: the
// live node's pin collection is the source of truth for which pins currently
// exist, and the canonical node is reconciled against it with this diff
// instead of threading every visual call site through the data model.
//
// Input order is preserved in both result slices. Pins are matched purely by
// id; field changes on a pin that exists on both sides are not reported.
func DiffPins(prev, next []*Pin) (added, removed []*Pin) {
	inPrev := make(map[ID]bool, len(prev))
	for _, p := range prev {
		inPrev[p.ID] = true
	}
	inNext := make(map[ID]bool, len(next))
	for _, p := range next {
		inNext[p.ID] = true
	}

	for _, p := range next {
		if !inPrev[p.ID] {
			added = append(added, p)
		}
	}
	for _, p := range prev {
		if !inNext[p.ID] {
			removed = append(removed, p)
		}
	}
	return added, removed
}
