// Package prng emulates the 16 bit linear feedback shift register random
// number generator that is used by many NES games, for example Tetris.
package prng

import "iter"

const (
	tapLow  = 1 // feedback taps, bit 1 and bit 9 of the register
	tapHigh = 9
)

// Generator is a deterministic random number generator state.
type Generator struct {
	seed      uint16
	iteration uint16
	value     uint16
}

// New returns a generator for the given seed that is advanced by the given
// number of iterations.
func New(seed, iteration uint16) *Generator {
	g := &Generator{seed: seed}
	g.SetIt(iteration)
	return g
}

// Step advances the register by one iteration and returns the new value.
// The feedback bit is the exclusive or of bit 1 and bit 9, it is shifted into
// bit 15 while the register shifts right.
func (g *Generator) Step() uint16 {
	g.value = next(g.value)
	g.iteration++
	return g.value
}

// SetIt resets the generator to its seed and advances it by n iterations.
// The resulting value only depends on the seed and n.
func (g *Generator) SetIt(n uint16) {
	g.value = g.seed
	g.iteration = 0
	for range n {
		g.Step()
	}
}

// Value returns the current register value.
func (g *Generator) Value() uint16 {
	return g.value
}

// Seed returns the initial register value.
func (g *Generator) Seed() uint16 {
	return g.seed
}

// Iteration returns the number of steps applied since the seed.
func (g *Generator) Iteration() uint16 {
	return g.iteration
}

// Sequence returns the register values of the iterations 1 to n, starting
// from the seed. It does not modify the generator.
func (g *Generator) Sequence(n uint16) iter.Seq2[uint16, uint16] {
	seed := g.seed
	return func(yield func(uint16, uint16) bool) {
		value := seed
		for i := range n {
			value = next(value)
			if !yield(i+1, value) {
				return
			}
		}
	}
}

func next(value uint16) uint16 {
	bit := (value>>tapLow ^ value>>tapHigh) & 1
	return bit<<15 | value>>1
}
