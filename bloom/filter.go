// Package bloom provides a probabilistic set of directory codes used to skip
// lookups that cannot match.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter of normalized codes.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a code to the filter.
func (f *Filter) Add(code string) {
	f.f.AddString(code)
}

// Test returns true if the code might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(code string) bool {
	return f.f.TestString(code)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
