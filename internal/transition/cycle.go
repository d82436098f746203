// Package transition blends between adjacent themes of a theme.Bank, either
// continuously on a clock or in response to sustained audio energy.
package transition

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/theme"
	"github.com/cybre/profile-card-fx/internal/utils"
)

// Policy selects what drives the cycle forward.
type Policy int

const (
	// PolicyTimed blends continuously; every StepDuration one theme hand-off completes.
	PolicyTimed Policy = iota
	// PolicyEnergy holds a theme until mid+high energy stays loud for Sustain,
	// then blends once to the next theme and waits out Cooldown.
	PolicyEnergy
)

// String returns a human-friendly name for the policy.
func (p Policy) String() string {
	switch p {
	case PolicyTimed:
		return "timed"
	case PolicyEnergy:
		return "energy"
	default:
		return "unknown"
	}
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "timed", "time":
		return PolicyTimed, nil
	case "energy", "audio":
		return PolicyEnergy, nil
	default:
		return 0, eris.Errorf("unknown transition policy %q", s)
	}
}

// Phase is the state of the cycle machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBlending
)

// String returns the lower-case phase name used in status output.
func (p Phase) String() string {
	if p == PhaseBlending {
		return "blending"
	}
	return "idle"
}

// Options tunes the behaviour of a Cycle.
type Options struct {
	Policy       Policy
	StepDuration time.Duration
	Threshold    float64
	Sustain      time.Duration
	Cooldown     time.Duration
	EnergyAlpha  float64
}

const (
	DefaultStepDuration = 20 * time.Second
	DefaultThreshold    = 1.6
	DefaultSustain      = 600 * time.Millisecond
	DefaultCooldown     = 8 * time.Second
	DefaultEnergyAlpha  = 0.2
)

func (o Options) withDefaults() Options {
	if o.StepDuration <= 0 {
		o.StepDuration = DefaultStepDuration
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Sustain <= 0 {
		o.Sustain = DefaultSustain
	}
	if o.Cooldown <= 0 {
		o.Cooldown = DefaultCooldown
	}
	if o.EnergyAlpha <= 0 {
		o.EnergyAlpha = DefaultEnergyAlpha
	}
	return o
}

// Cycle owns the theme cycle state. Progress stays within [0, 1]; from and to
// are always equal or adjacent in the bank order.
type Cycle struct {
	bank *theme.Bank
	opts Options

	index    int
	from     theme.Name
	to       theme.Name
	elapsed  time.Duration
	progress float64
	phase    Phase
	steps    uint64

	energy    *dsp.Smoother
	sustained time.Duration
	sinceLast time.Duration
}

// NewCycle starts at the given theme. Timed cycles begin blending towards the
// next theme immediately; energy cycles start idle.
func NewCycle(bank *theme.Bank, start theme.Name, opts Options) *Cycle {
	opts = opts.withDefaults()
	c := &Cycle{
		bank:      bank,
		opts:      opts,
		index:     bank.Index(start),
		from:      start,
		to:        start,
		energy:    dsp.NewSmoother(opts.EnergyAlpha),
		sinceLast: opts.Cooldown,
	}
	if opts.Policy == PolicyTimed {
		c.to = bank.Next(start)
		c.phase = PhaseBlending
	}
	return c
}

// Advance moves the cycle forward by elapsed and returns the interpolated theme.
func (c *Cycle) Advance(elapsed time.Duration, bands dsp.Bands) theme.Theme {
	if elapsed < 0 {
		elapsed = 0
	}

	switch c.opts.Policy {
	case PolicyEnergy:
		c.advanceEnergy(elapsed, bands)
	default:
		c.advanceTimed(elapsed)
	}

	return c.Snapshot()
}

func (c *Cycle) advanceTimed(elapsed time.Duration) {
	c.elapsed += elapsed
	// Late ticks can cover several hand-offs; keep the residue of each.
	for c.elapsed >= c.opts.StepDuration {
		c.elapsed -= c.opts.StepDuration
		c.index = utils.WrapIndex(c.index+1, c.bank.Len())
		c.from = c.to
		c.to = c.bank.Next(c.to)
		c.steps++
	}
	c.progress = c.fraction()
}

func (c *Cycle) advanceEnergy(elapsed time.Duration, bands dsp.Bands) {
	level := c.energy.Step(bands.Mid + bands.High)

	if c.phase == PhaseBlending {
		c.elapsed += elapsed
		c.progress = c.fraction()
		if c.elapsed >= c.opts.StepDuration {
			c.elapsed = 0
			c.progress = 0
			c.index = c.bank.Index(c.to)
			c.from = c.to
			c.phase = PhaseIdle
			c.steps++
			c.sinceLast = 0
			c.sustained = 0
		}
		return
	}

	c.sinceLast += elapsed
	if level >= c.opts.Threshold {
		c.sustained += elapsed
	} else {
		c.sustained = 0
	}

	if c.sustained >= c.opts.Sustain && c.sinceLast >= c.opts.Cooldown {
		c.to = c.bank.Next(c.from)
		c.elapsed = 0
		c.progress = 0
		c.phase = PhaseBlending
		c.sustained = 0
	}
}

// fraction derives progress from the integer accumulator; ticks summing to a
// whole step reach the boundary exactly.
func (c *Cycle) fraction() float64 {
	return float64(c.elapsed) / float64(c.opts.StepDuration)
}

// Snapshot interpolates the current from/to pair without advancing.
func (c *Cycle) Snapshot() theme.Theme {
	return theme.Blend(c.bank.Lookup(c.from), c.bank.Lookup(c.to), c.progress)
}

// Index returns the bank position of the current from theme.
func (c *Cycle) Index() int { return c.index }

// From returns the theme being blended away from.
func (c *Cycle) From() theme.Name { return c.from }

// To returns the theme being blended towards.
func (c *Cycle) To() theme.Name { return c.to }

// Progress returns the blend position in [0, 1].
func (c *Cycle) Progress() float64 { return c.progress }

// Phase reports whether the cycle is idle or blending.
func (c *Cycle) Phase() Phase { return c.phase }

// Steps counts completed hand-offs since construction.
func (c *Cycle) Steps() uint64 { return c.steps }

// Policy returns the configured trigger policy.
func (c *Cycle) Policy() Policy { return c.opts.Policy }

// Energy returns the smoothed mid+high level seen by the energy trigger.
func (c *Cycle) Energy() float64 { return c.energy.Value() }
