package world

import (
	"fmt"
	"runtime"
)

// Ring classifies a pool slot by its chunk's distance from the focus.
type Ring uint8

const (
	RingUnloaded Ring = iota
	RingActive
	RingBorder
	RingPrimed
)

func (r Ring) String() string {
	switch r {
	case RingActive:
		return "active"
	case RingBorder:
		return "border"
	case RingPrimed:
		return "primed"
	default:
		return "unloaded"
	}
}

// RingConfig sizes the chunk pool. Radii are Chebyshev distances in chunks.
type RingConfig struct {
	ActiveRadius int
	BorderRadius int
	PoolRadius   int
	// Workers bounds parallel chunk generation. Zero means one per CPU.
	Workers int
}

// DefaultRingConfig is a 3x3 active ring inside a 7x7 pool.
func DefaultRingConfig() RingConfig {
	return RingConfig{ActiveRadius: 1, BorderRadius: 2, PoolRadius: 3}
}

// Validate checks the radii nest.
func (rc RingConfig) Validate() error {
	if rc.ActiveRadius < 0 || rc.BorderRadius < rc.ActiveRadius || rc.PoolRadius < rc.BorderRadius {
		return fmt.Errorf("%w: ring radii must satisfy 0 <= active(%d) <= border(%d) <= pool(%d)",
			ErrInvalidConfig, rc.ActiveRadius, rc.BorderRadius, rc.PoolRadius)
	}
	if rc.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// PoolSize is the number of chunks held for a given focus.
func (rc RingConfig) PoolSize() int {
	side := 2*rc.PoolRadius + 1
	return side * side
}

// RingSize returns how many slots belong to r once the pool is settled.
func (rc RingConfig) RingSize(r Ring) int {
	square := func(radius int) int { return (2*radius + 1) * (2*radius + 1) }
	switch r {
	case RingActive:
		return square(rc.ActiveRadius)
	case RingBorder:
		return square(rc.BorderRadius) - square(rc.ActiveRadius)
	case RingPrimed:
		return square(rc.PoolRadius) - square(rc.BorderRadius)
	default:
		return 0
	}
}

// Classify maps a Chebyshev distance to a ring. Distances beyond the pool
// radius are unloaded.
func (rc RingConfig) Classify(d int) Ring {
	switch {
	case d <= rc.ActiveRadius:
		return RingActive
	case d <= rc.BorderRadius:
		return RingBorder
	case d <= rc.PoolRadius:
		return RingPrimed
	default:
		return RingUnloaded
	}
}

func (rc RingConfig) workers() int {
	if rc.Workers > 0 {
		return rc.Workers
	}
	return max(runtime.NumCPU(), 1)
}

// RingCounts tallies pool slots per ring.
type RingCounts struct {
	Active, Border, Primed, Unloaded int
}

// Loaded is the number of slots holding terrain.
func (c RingCounts) Loaded() int {
	return c.Active + c.Border + c.Primed
}

func (c *RingCounts) add(r Ring) {
	switch r {
	case RingActive:
		c.Active++
	case RingBorder:
		c.Border++
	case RingPrimed:
		c.Primed++
	default:
		c.Unloaded++
	}
}
