package enumerate

// Span is a contiguous slice of the index space.
type Span struct {
	Start uint64
	Count uint64
}

// Partition splits [start, start+count) into at most parts contiguous,
// disjoint spans of near-equal size. Empty spans are omitted.
func Partition(start, count uint64, parts int) []Span {
	if parts < 1 {
		parts = 1
	}
	if count == 0 {
		return nil
	}
	if uint64(parts) > count {
		parts = int(count)
	}

	base := count / uint64(parts)
	extra := count % uint64(parts)

	spans := make([]Span, 0, parts)
	next := start
	for i := 0; i < parts; i++ {
		n := base
		if uint64(i) < extra {
			n++
		}
		spans = append(spans, Span{Start: next, Count: n})
		next += n
	}
	return spans
}
