// Package visualizer animates a fake spectrum analyzer.
package visualizer

import "math/rand/v2"

const (
	// Bars is the number of spectrum columns.
	Bars = 32
	// MaxLevel is the tallest a bar can be.
	MaxLevel = 25
	// RestLevel is the height of every bar while stopped.
	RestLevel = 5
	// ChangeProbability is the chance a bar changes on each step.
	ChangeProbability = 0.3
)

// Visualizer holds bar levels in the range [1, MaxLevel].
type Visualizer struct {
	bars    [Bars]int
	running bool
	rand    *rand.Rand
}

// New creates a stopped visualizer with randomized initial bars.
func New(r *rand.Rand) *Visualizer {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	v := &Visualizer{rand: r}
	for i := range v.bars {
		v.bars[i] = 1 + v.rand.IntN(20)
	}
	return v
}

// Start begins animating.
func (v *Visualizer) Start() {
	v.running = true
}

// Stop halts the animation and flattens every bar to RestLevel.
func (v *Visualizer) Stop() {
	v.running = false
	for i := range v.bars {
		v.bars[i] = RestLevel
	}
}

// Running reports whether Step changes the bars.
func (v *Visualizer) Running() bool {
	return v.running
}

// Step advances the animation one frame. It does nothing while stopped.
func (v *Visualizer) Step() {
	if !v.running {
		return
	}
	for i := range v.bars {
		if v.rand.Float64() < ChangeProbability {
			v.bars[i] = 1 + v.rand.IntN(MaxLevel)
		}
	}
}

// Levels returns a copy of the bar levels.
func (v *Visualizer) Levels() []int {
	out := make([]int, Bars)
	copy(out, v.bars[:])
	return out
}

// Scaled returns bar heights scaled to rows, rounding down.
func (v *Visualizer) Scaled(rows int) []int {
	out := make([]int, Bars)
	if rows <= 0 {
		return out
	}
	for i, level := range v.bars {
		out[i] = level * rows / MaxLevel
	}
	return out
}
