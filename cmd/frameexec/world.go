package main

import (
	"math/rand/v2"

	"github.com/momentics/frameexec/api"
)

const (
	gravity = -9.81
	extent  = 100.0
	damping = 0.9
)

// world is a flat particle set integrated once per frame.
type world struct {
	px, py []float64
	vx, vy []float64

	chunk   int
	energy  []float64 // per chunk, summed after the range completes
	bounces []int
}

func newWorld(entities, chunk int, seed uint64) *world {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	w := &world{
		px: make([]float64, entities),
		py: make([]float64, entities),
		vx: make([]float64, entities),
		vy: make([]float64, entities),

		chunk: chunk,
	}
	for i := range entities {
		w.px[i] = r.Float64() * extent
		w.py[i] = r.Float64() * extent
		w.vx[i] = r.Float64()*20 - 10
		w.vy[i] = r.Float64()*20 - 10
	}
	chunks := (entities + chunk - 1) / chunk
	w.energy = make([]float64, chunks)
	w.bounces = make([]int, chunks)
	return w
}

// frameResult is what one frame reports back to the loop.
type frameResult struct {
	energy  float64
	bounces int
}

// step advances every entity by dt on exec's workers.
func (w *world) step(exec api.Executor, dt float64) frameResult {
	exec.ParallelChunks(len(w.px), w.chunk, func(start, end, _ int) {
		c := start / w.chunk
		var e float64
		b := 0
		for i := start; i < end; i++ {
			w.vy[i] += gravity * dt
			w.px[i] += w.vx[i] * dt
			w.py[i] += w.vy[i] * dt
			if w.px[i] < 0 || w.px[i] > extent {
				w.px[i] = min(max(w.px[i], 0), extent)
				w.vx[i] = -w.vx[i] * damping
				b++
			}
			if w.py[i] < 0 || w.py[i] > extent {
				w.py[i] = min(max(w.py[i], 0), extent)
				w.vy[i] = -w.vy[i] * damping
				b++
			}
			e += 0.5 * (w.vx[i]*w.vx[i] + w.vy[i]*w.vy[i])
		}
		w.energy[c] = e
		w.bounces[c] = b
	})

	var r frameResult
	for c := range w.energy {
		r.energy += w.energy[c]
		r.bounces += w.bounces[c]
	}
	return r
}
