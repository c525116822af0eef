package stream

import (
	"context"
	"time"
)

// frames should go out close to schedule, so naps between them stay
// short enough to notice cancellation and timer coarseness
const defaultMaxSleep = 20 * time.Millisecond

// Pacer drives the fixed-rate frame loop of one cycle. The scroll
// offset is derived from wall-clock time, not the frame counter, which
// keeps the scroll speed accurate even when emission lags. Time spent
// blocked in the sink counts as elapsed time, so a slow encoder eats
// the pacer's spare time instead of queueing frames.
type Pacer struct {
	fps      int
	speed    int // scroll speed, px/sec
	maxSleep time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

func NewPacer(fps, speed int) *Pacer {
	return &Pacer{fps: fps, speed: speed, maxSleep: defaultMaxSleep, now: time.Now, sleep: time.Sleep}
}

// Offset returns the scroll position after elapsed time, wrapped at the
// strip width.
func (p *Pacer) Offset(elapsed time.Duration, stripWidth int) int {
	return int(elapsed.Seconds()*float64(p.speed)) % stripWidth
}

// Run emits frames until the duration elapses or ctx is cancelled,
// whichever comes first. Both are checked between frames only. Lateness
// is never compensated by skipping frames, the interval just shrinks.
// Returns the number of frames emitted.
func (p *Pacer) Run(ctx context.Context, duration time.Duration, stripWidth int, emit func(offset int) error) (int, error) {
	start := p.now()
	frames := 0
	for {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		elapsed := p.now().Sub(start)
		if elapsed >= duration {
			return frames, nil
		}

		if err := emit(p.Offset(elapsed, stripWidth)); err != nil {
			return frames, err
		}
		frames++
		metricFrames.Inc()

		// suspend until this frame's target emission time, napping in
		// bounded slices; when behind, fall straight through
		target := time.Duration(frames) * time.Second / time.Duration(p.fps)
		for {
			ahead := target - p.now().Sub(start)
			if ahead <= 0 {
				metricFrameLag.Set((-ahead).Seconds())
				break
			}
			metricFrameLag.Set(0)
			if ctx.Err() != nil {
				break
			}
			if ahead > p.maxSleep {
				ahead = p.maxSleep
			}
			p.sleep(ahead)
		}
	}
}
