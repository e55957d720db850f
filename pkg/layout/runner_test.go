package layout

import (
	"testing"
	"time"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/observability"
)

type recordingSink struct {
	views  []*cfg.View
	frames []Snapshot
}

func (s *recordingSink) Begin(v *cfg.View)   { s.views = append(s.views, v) }
func (s *recordingSink) Frame(snap Snapshot) { s.frames = append(s.frames, snap) }

type countingLayoutHooks struct {
	observability.NoopLayoutHooks
	starts, settles, stops int
}

func (h *countingLayoutHooks) OnLayoutStart(int, int)             { h.starts++ }
func (h *countingLayoutHooks) OnLayoutSettled(int, time.Duration) { h.settles++ }
func (h *countingLayoutHooks) OnLayoutStopped(int)                { h.stops++ }

func TestRunnerStreamsFrames(t *testing.T) {
	clock := NewManualClock()
	sink := &recordingSink{}
	r := NewRunner(clock, sink, WithTickInterval(10*time.Millisecond))

	sim := r.Run(sampleView(t, "sequential", false), nil)
	if len(sink.views) != 1 || len(sink.frames) != 1 {
		t.Fatalf("after Run: %d views, %d frames, want 1, 1", len(sink.views), len(sink.frames))
	}
	if sink.frames[0].Tick != 0 {
		t.Errorf("initial frame tick = %d, want 0", sink.frames[0].Tick)
	}

	clock.Tick(20 * time.Millisecond)
	if len(sink.frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(sink.frames))
	}
	if sim.Ticks() != 2 {
		t.Errorf("ticks = %d, want 2", sim.Ticks())
	}
	if !r.Running() {
		t.Error("Running() = false")
	}
}

func TestRunnerReplacesPreviousRun(t *testing.T) {
	clock := NewManualClock()
	sink := &recordingSink{}
	r := NewRunner(clock, sink, WithTickInterval(0))

	first := r.Run(sampleView(t, "sequential", false), nil)
	second := r.Run(sampleView(t, "sequential", true), nil)

	if clock.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", clock.Subscribers())
	}
	clock.Tick(time.Millisecond)
	if first.Ticks() != 0 {
		t.Errorf("replaced simulation ticked %d times", first.Ticks())
	}
	if second.Ticks() != 1 {
		t.Errorf("current simulation ticks = %d, want 1", second.Ticks())
	}
	if r.Simulation() != second {
		t.Error("Simulation() is not the latest run")
	}
}

func TestRunnerStop(t *testing.T) {
	clock := NewManualClock()
	r := NewRunner(clock, nil)
	sim := r.Run(sampleView(t, "sequential", false), nil)
	r.Stop()
	r.Stop()

	if clock.Subscribers() != 0 {
		t.Errorf("subscribers = %d after Stop", clock.Subscribers())
	}
	clock.Tick(time.Second)
	if sim.Ticks() != 0 {
		t.Error("stopped run ticked")
	}
	if r.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestRunnerHooks(t *testing.T) {
	hooks := &countingLayoutHooks{}
	observability.SetLayoutHooks(hooks)
	defer observability.Reset()

	clock := NewManualClock()
	r := NewRunner(clock, nil, WithTickInterval(0))
	sim := r.Run(sampleView(t, "sequential", false), nil)
	for i := 0; i < 1000 && !sim.Stopped(); i++ {
		clock.Tick(time.Millisecond)
	}
	r.Run(sampleView(t, "sequential", true), nil)

	if hooks.starts != 2 || hooks.settles != 1 || hooks.stops != 1 {
		t.Errorf("hooks = %+v, want 2 starts, 1 settle, 1 stop", *hooks)
	}
}

func TestManualClockCancelInsideCallback(t *testing.T) {
	clock := NewManualClock()
	calls := 0
	var cancel func()
	cancel = clock.OnEachFrame(func(time.Duration) {
		calls++
		cancel()
	})
	clock.Tick(time.Millisecond)
	clock.Tick(time.Millisecond)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
