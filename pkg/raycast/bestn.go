package raycast

// MaxHits is the number of nearest hits a single mesh query keeps.
const MaxHits = 8

// Hit is one entry of a BestN: an intersection keyed by its inverse depth.
type Hit struct {
	InvDepth float64
	Point    TriPoint
}

// BestN keeps the MaxHits nearest hits of a query, ordered by inverse depth
// descending (nearest first). Entries with equal keys stay in insertion
// order. The zero value is empty and ready to use.
type BestN struct {
	hits [MaxHits]Hit
	n    int
}

// Insert adds a hit keyed by invDepth. It reports false, leaving the
// collection unchanged, when the collection is full and the hit is no nearer
// than the current farthest entry.
func (b *BestN) Insert(invDepth float64, p TriPoint) bool {
	if b.n == MaxHits && invDepth <= b.hits[b.n-1].InvDepth {
		return false
	}

	pos := b.n
	for pos > 0 && b.hits[pos-1].InvDepth < invDepth {
		pos--
	}

	end := b.n
	if end == MaxHits {
		end--
	}
	copy(b.hits[pos+1:end+1], b.hits[pos:end])
	b.hits[pos] = Hit{InvDepth: invDepth, Point: p}
	if b.n < MaxHits {
		b.n++
	}
	return true
}

// Len returns the number of hits held.
func (b BestN) Len() int { return b.n }

// At returns the i-th nearest hit.
func (b BestN) At(i int) Hit { return b.hits[i] }

// Hits returns a copy of the held hits, nearest first.
func (b BestN) Hits() []Hit {
	out := make([]Hit, b.n)
	copy(out, b.hits[:b.n])
	return out
}

// Best returns the nearest hit.
func (b BestN) Best() (Hit, bool) {
	if b.n == 0 {
		return Hit{}, false
	}
	return b.hits[0], true
}

// Reset empties the collection.
func (b *BestN) Reset() { b.n = 0 }
