package layout

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options configures a Simulation. The zero value is not usable; start from
// [DefaultOptions].
type Options struct {
	Width  float64 // canvas width; forces center on Width/2
	Height float64 // canvas height; forces center on Height/2

	LinkDistance       float64 // rest length of flow edges
	DetailLinkDistance float64 // rest length of detail edges
	LinkStrength       float64
	ChargeStrength     float64 // negative values repel
	NodeRadius         float64 // collision radius of main-graph nodes
	DetailRadius       float64 // collision radius of detail nodes
	CollideStrength    float64

	AlphaMin        float64
	AlphaDecay      float64
	VelocityDecay   float64
	DragAlphaTarget float64 // alpha target while any node is being dragged

	// TickInterval is the simulated time one tick stands for. Advance converts
	// elapsed frame time into ticks at this rate.
	TickInterval time.Duration
	// MaxStepsPerFrame bounds the ticks a single Advance may run. Backlog beyond it
	// is dropped.
	MaxStepsPerFrame int

	// Seeds are initial positions for nodes carried over from a previous run.
	Seeds map[int]Point

	Logger *log.Logger
}

// DefaultOptions returns the stock parameters: a 900x700 canvas, springs of 150
// (80 for detail edges) at strength 0.7, repulsion -800, collision radii 70 and 50,
// and a temperature that cools to 0.001 in about 300 ticks.
func DefaultOptions() Options {
	return Options{
		Width:              900,
		Height:             700,
		LinkDistance:       150,
		DetailLinkDistance: 80,
		LinkStrength:       0.7,
		ChargeStrength:     -800,
		NodeRadius:         70,
		DetailRadius:       50,
		CollideStrength:    1,
		AlphaMin:           0.001,
		AlphaDecay:         1 - math.Pow(0.001, 1.0/300),
		VelocityDecay:      0.4,
		DragAlphaTarget:    0.3,
		TickInterval:       16 * time.Millisecond,
		MaxStepsPerFrame:   8,
	}
}

// Center returns the canvas center.
func (o Options) Center() Point { return Point{X: o.Width / 2, Y: o.Height / 2} }

// Option customizes Options.
type Option func(*Options)

// WithOptions replaces all options, keeping seeds and logger already set.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		seeds, logger := o.Seeds, o.Logger
		*o = opts
		if o.Seeds == nil {
			o.Seeds = seeds
		}
		if o.Logger == nil {
			o.Logger = logger
		}
	}
}

// WithCanvas sets the canvas size.
func WithCanvas(width, height float64) Option {
	return func(o *Options) { o.Width, o.Height = width, height }
}

// WithSeeds sets initial positions for the given node ids.
func WithSeeds(seeds map[int]Point) Option { return func(o *Options) { o.Seeds = seeds } }

// WithTickInterval sets the simulated duration of one tick.
func WithTickInterval(d time.Duration) Option { return func(o *Options) { o.TickInterval = d } }

// WithMaxStepsPerFrame bounds the ticks one Advance may run.
func WithMaxStepsPerFrame(n int) Option { return func(o *Options) { o.MaxStepsPerFrame = n } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(o *Options) { o.Logger = l } }

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.MaxStepsPerFrame <= 0 {
		o.MaxStepsPerFrame = 1
	}
	return o
}
