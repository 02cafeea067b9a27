package bloom

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// ln2 is the natural logarithm of 2
	ln2 = 0.69314718056
	// ln2sq is ln(2)^2
	ln2sq = 0.48045301391
)

// Bloom is a probabilistic set of hashed keys. It never reports a false
// negative, which makes it usable as a negative-lookup filter in front of
// an index. It is NOT thread-safe.
type Bloom struct {
	bitset   []uint64
	k        uint64 // Number of hash functions
	m        uint64 // Size of bitset in bits
	capacity uint64
	fpRate   float64
	added    uint64
}

// New creates a new Bloom filter.
// capacity: estimate of the number of elements to add.
// fpRate: desired false positive rate (0 < fpRate < 1).
func New(capacity uint64, fpRate float64) (*Bloom, error) {
	if capacity == 0 {
		return nil, errors.New("bloom: capacity must be greater than 0")
	}
	if fpRate <= 0 || fpRate >= 1 {
		return nil, errors.Errorf("bloom: fpRate %v must be between 0 and 1", fpRate)
	}

	// m = -n * ln(p) / (ln(2)^2)
	m := uint64(math.Ceil(-float64(capacity) * math.Log(fpRate) / ln2sq))
	// k = (m / n) * ln(2)
	k := uint64(math.Ceil(float64(m) / float64(capacity) * ln2))

	return &Bloom{
		bitset:   make([]uint64, (m+63)/64),
		k:        k,
		m:        m,
		capacity: capacity,
		fpRate:   fpRate,
	}, nil
}

// Add adds a hashed key to the filter.
func (b *Bloom) Add(hash uint64) {
	h := hash
	delta := (h >> 17) | (h << 47) // Rotate to get a different mix
	for i := uint64(0); i < b.k; i++ {
		idx := (h + i*delta) % b.m
		b.bitset[idx/64] |= 1 << (idx % 64)
	}
	b.added++
}

// Has reports whether the hash may have been added. False is definitive.
func (b *Bloom) Has(hash uint64) bool {
	h := hash
	delta := (h >> 17) | (h << 47)
	for i := uint64(0); i < b.k; i++ {
		idx := (h + i*delta) % b.m
		if b.bitset[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// Saturated reports whether more keys were added than the filter was sized
// for, after which its false positive rate climbs past the target.
func (b *Bloom) Saturated() bool {
	return b.added > b.capacity
}

// Added returns how many hashes were added since creation or the last Clear.
func (b *Bloom) Added() uint64 {
	return b.added
}

// FPRate returns the target false positive rate the filter was sized for.
func (b *Bloom) FPRate() float64 {
	return b.fpRate
}

// Clear resets the Bloom filter.
func (b *Bloom) Clear() {
	clear(b.bitset)
	b.added = 0
}

// TotalSize returns the total size of the bloom filter in bits.
func (b *Bloom) TotalSize() uint64 {
	return b.m
}
