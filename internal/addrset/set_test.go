package addrset

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RoundsShardsToPowerOfTwo(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultShards},
		{-3, DefaultShards},
		{1, 1},
		{2, 2},
		{3, 4},
		{17, 32},
		{64, 64},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, New(c.in).Shards(), "shards=%d", c.in)
	}
}

func TestOffer_DuplicatesCountOnce(t *testing.T) {
	s := New(4)
	assert.True(t, s.Offer([]byte("1.1.1.1")))
	for i := 0; i < 100; i++ {
		assert.False(t, s.Offer([]byte("1.1.1.1")))
	}
	assert.Equal(t, int64(1), s.Cardinality())
	assert.True(t, s.OfferString("2.2.2.2"))
	assert.False(t, s.Offer([]byte("2.2.2.2")))
	assert.Equal(t, int64(2), s.Cardinality())
	assert.Equal(t, 2, s.Len())
}

func TestOffer_CopiesKey(t *testing.T) {
	s := New(1)
	buf := []byte("10.0.0.1")
	require.True(t, s.Offer(buf))
	copy(buf, "99.9.9.9")

	assert.True(t, s.Contains("10.0.0.1"))
	assert.False(t, s.Contains("99.9.9.9"))
	assert.Equal(t, []string{"10.0.0.1"}, s.Keys())
}

func TestOffer_BytesAreOpaque(t *testing.T) {
	s := New(2)
	assert.True(t, s.Offer([]byte("::1")))
	assert.True(t, s.Offer([]byte("0:0:0:0:0:0:0:1")))
	assert.True(t, s.Offer([]byte{0xff, 0xfe, 0x00}))
	assert.True(t, s.Offer([]byte("A")))
	assert.True(t, s.Offer([]byte("a")))
	assert.Equal(t, int64(5), s.Cardinality())
}

func TestOffer_ConcurrentSingleWinner(t *testing.T) {
	const workers = 32
	const keys = 2000

	for _, shards := range []int{1, 64} {
		s := New(shards)
		wins := make([]int64, workers)

		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(w int) {
				defer wg.Done()
				for i := 0; i < keys; i++ {
					if s.Offer([]byte("10.0." + strconv.Itoa(i%250) + "." + strconv.Itoa(i/250))) {
						wins[w]++
					}
				}
			}(w)
		}
		wg.Wait()

		var total int64
		for _, n := range wins {
			total += n
		}
		assert.Equal(t, int64(keys), total, "shards=%d", shards)
		assert.Equal(t, int64(keys), s.Cardinality(), "shards=%d", shards)
		assert.Equal(t, keys, s.Len(), "shards=%d", shards)
	}
}

func BenchmarkOffer_Parallel(b *testing.B) {
	for _, shards := range []int{1, 64} {
		b.Run("shards="+strconv.Itoa(shards), func(b *testing.B) {
			s := New(shards)
			b.RunParallel(func(pb *testing.PB) {
				key := make([]byte, 0, 16)
				i := 0
				for pb.Next() {
					key = strconv.AppendInt(key[:0], int64(i%4096), 10)
					s.Offer(key)
					i++
				}
			})
		})
	}
}
