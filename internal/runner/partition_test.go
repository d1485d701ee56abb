package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []Span
	}{
		{
			name: "even split with remainder",
			n:    10,
			size: 4,
			want: []Span{{0, 4}, {4, 8}, {8, 10}},
		},
		{
			name: "exact multiple",
			n:    8,
			size: 4,
			want: []Span{{0, 4}, {4, 8}},
		},
		{
			name: "single batch",
			n:    3,
			size: 5,
			want: []Span{{0, 3}},
		},
		{
			name: "size one",
			n:    3,
			size: 1,
			want: []Span{{0, 1}, {1, 2}, {2, 3}},
		},
		{
			name: "no jobs",
			n:    0,
			size: 4,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Partition(tt.n, tt.size))
		})
	}
}

func TestPartitionCoversEveryIndexOnce(t *testing.T) {
	spans := Partition(10, 4)

	covered := make(map[int]int)
	for _, span := range spans {
		for i := span.Lower; i < span.Upper; i++ {
			covered[i]++
		}
	}

	assert.Len(t, covered, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 1, covered[i], "index %d", i)
	}
}
