package level

import (
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Streams keep card order and obstacle placement independent for one seed.
const (
	StreamCards     = "cards"
	StreamObstacles = "obstacles"
	StreamHazards   = "hazards"
)

// DailySeed is the shared seed for the daily challenge: the UTC calendar date.
func DailySeed(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NewRand returns a generator for one stream of a seed. An empty seed gives
// an unseeded generator.
func NewRand(seed, stream string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(hash64(seed+"/"+stream), hash64(stream+"/"+seed)))
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
