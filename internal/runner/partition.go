package runner

// Span is one contiguous batch boundary over the pending job list.
type Span struct {
	Lower int
	Upper int
}

// Partition splits n jobs into contiguous spans of the given size. The last
// span absorbs the remainder, so the span count is ceil(n / size) and every
// index appears in exactly one span.
func Partition(n, size int) []Span {
	if n <= 0 || size < 1 {
		return nil
	}

	spans := make([]Span, 0, (n+size-1)/size)
	for lower := 0; lower < n; lower += size {
		upper := lower + size
		if upper > n {
			upper = n
		}
		spans = append(spans, Span{Lower: lower, Upper: upper})
	}

	return spans
}
