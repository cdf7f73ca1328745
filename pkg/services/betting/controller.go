package betting

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Adjuster is anything with a steppable bet. Both game engines satisfy
// it, so one controller type serves every bet widget.
type Adjuster interface {
	AdjustBet(direction int) int64
	Bet() int64
}

const (
	// DefaultInterval is the delay between repeated steps while held.
	DefaultInterval = 140 * time.Millisecond
	// DefaultDoubleEvery is the number of repeat ticks after which the
	// step size doubles.
	DefaultDoubleEvery = 7
)

// Controller turns a press-and-hold gesture into repeated bet steps:
// one immediate step on press, then one per interval, with the step
// size doubling periodically so long holds cross large ranges quickly.
type Controller struct {
	target      Adjuster
	interval    time.Duration
	doubleEvery int
	log         *zap.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval overrides the repeat interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithDoubleEvery overrides how many ticks pass before the step doubles.
func WithDoubleEvery(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.doubleEvery = n
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController creates a controller driving the given adjuster.
func NewController(target Adjuster, opts ...Option) *Controller {
	c := &Controller{
		target:      target,
		interval:    DefaultInterval,
		doubleEvery: DefaultDoubleEvery,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Press starts a hold in the given direction (positive raises, anything
// else lowers). The first step is applied synchronously before Press
// returns; repeats run in the background until Release. A Press while
// already held is ignored.
func (c *Controller) Press(direction int) int64 {
	if direction >= 0 {
		direction = 1
	} else {
		direction = -1
	}

	c.mu.Lock()
	if c.stop != nil {
		c.mu.Unlock()
		return c.target.Bet()
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop = stop
	c.done = done
	c.mu.Unlock()

	bet := c.target.AdjustBet(direction)
	go c.repeat(direction, stop, done)
	c.log.Debug("bet hold started", zap.Int("direction", direction), zap.Int64("bet", bet))
	return bet
}

// Release stops the hold. It is safe to call when nothing is held and
// safe to call more than once.
func (c *Controller) Release() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Held reports whether a hold is active.
func (c *Controller) Held() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

func (c *Controller) repeat(direction int, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	step := 1
	ticks := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ticks++
			if ticks%c.doubleEvery == 0 {
				step *= 2
			}
			for i := 0; i < step; i++ {
				c.target.AdjustBet(direction)
			}
		}
	}
}
