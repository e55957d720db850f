package layout

import (
	"time"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/observability"
)

// Sink receives the output of a layout run.
type Sink interface {
	// Begin is called once when a run starts, before any frame.
	Begin(view *cfg.View)
	// Frame is called with the initial positions and then after every clock frame.
	Frame(snap Snapshot)
}

// Runner drives one Simulation at a time from a Clock and streams snapshots to a Sink.
//
// Starting a new run cancels the previous clock subscription first, so at most one
// simulation is ever live. A Runner is not safe for concurrent use.
type Runner struct {
	clock Clock
	sink  Sink
	opts  []Option

	sim     *Simulation
	cancel  func()
	gen     int
	elapsed time.Duration
}

// NewRunner returns a runner that builds simulations with opts.
func NewRunner(clock Clock, sink Sink, opts ...Option) *Runner {
	return &Runner{clock: clock, sink: sink, opts: opts}
}

// Run stops any previous run and starts laying out view. Nodes present in seeds start
// at the seeded position. The new simulation is returned for pinning.
func (r *Runner) Run(view *cfg.View, seeds map[int]Point) *Simulation {
	r.Stop()

	opts := append(append([]Option(nil), r.opts...), WithSeeds(seeds))
	sim := NewSimulation(view, opts...)
	r.sim = sim
	r.gen++
	r.elapsed = 0

	logger := sim.Options().Logger
	logger.Debug("layout started", "nodes", sim.Len(), "edges", len(view.Edges()), "seeded", len(seeds))
	observability.Layout().OnLayoutStart(sim.Len(), len(view.Edges()))

	if r.sink != nil {
		r.sink.Begin(view)
		r.sink.Frame(sim.Snapshot())
	}

	gen := r.gen
	r.cancel = r.clock.OnEachFrame(func(dt time.Duration) {
		if gen != r.gen {
			return
		}
		r.frame(dt)
	})
	return sim
}

func (r *Runner) frame(dt time.Duration) {
	sim := r.sim
	wasStopped := sim.Stopped()
	r.elapsed += dt
	snap := sim.Advance(dt)
	if wasStopped && sim.Stopped() {
		return
	}
	if !wasStopped && sim.Stopped() {
		sim.Options().Logger.Debug("layout settled", "ticks", sim.Ticks(), "elapsed", r.elapsed)
		observability.Layout().OnLayoutSettled(sim.Ticks(), r.elapsed)
	}
	if r.sink != nil {
		r.sink.Frame(snap)
	}
}

// Stop cancels the clock subscription of the current run. The simulation stays
// available through [Runner.Simulation] but no longer advances.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.cancel = nil
	r.gen++
	if r.sim != nil {
		observability.Layout().OnLayoutStopped(r.sim.Ticks())
	}
}

// Running reports whether a run is subscribed to the clock.
func (r *Runner) Running() bool { return r.cancel != nil }

// Simulation returns the current simulation, or nil before the first Run.
func (r *Runner) Simulation() *Simulation { return r.sim }

// Flush pushes the current snapshot to the sink without ticking. Callers use it after
// pinning a node of a stopped simulation.
func (r *Runner) Flush() {
	if r.sim != nil && r.sink != nil {
		r.sink.Frame(r.sim.Snapshot())
	}
}
