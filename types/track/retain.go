package track

// Retained is the accumulator threaded through a retaining fold:
// the points kept so far and the last of them.
type Retained struct {
	Kept     Segment
	Rejected Segment

	last    GeoPoint
	hasLast bool
}

// Last returns the last kept point, and false before any point was kept.
func (r *Retained) Last() (GeoPoint, bool) {
	return r.last, r.hasLast
}

// Step folds next into the accumulator.
// The first point is always kept. Later points are kept when keep(last, next)
// holds, where last is the last *kept* point; a rejected point never becomes
// the reference for the points after it.
func (r *Retained) Step(next GeoPoint, keep func(last, next GeoPoint) bool) {
	if r.hasLast && !keep(r.last, next) {
		r.Rejected = append(r.Rejected, next)
		return
	}
	r.Kept = append(r.Kept, next)
	r.last, r.hasLast = next, true
}

// Retain folds the segment through keep and returns the kept and rejected
// points, each in their original order. The input is not modified.
func (s Segment) Retain(keep func(last, next GeoPoint) bool) (kept, rejected Segment) {
	acc := Retained{Kept: make(Segment, 0, len(s))}
	for _, p := range s {
		acc.Step(p, keep)
	}
	return acc.Kept, acc.Rejected
}
