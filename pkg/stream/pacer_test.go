package stream

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock makes the pacer deterministic: time moves forward only when
// the pacer sleeps (or when a test emit callback pushes it).
type fakeClock struct {
	t time.Time
}

func newFakePacer(fps, speed int) (*Pacer, *fakeClock) {
	c := &fakeClock{t: time.Unix(0, 0)}
	p := NewPacer(fps, speed)
	p.now = func() time.Time { return c.t }
	p.sleep = func(d time.Duration) { c.t = c.t.Add(d) }
	return p, c
}

func TestOffset(t *testing.T) {
	tests := []struct {
		speed   int
		elapsed time.Duration
		stripW  int
		want    int
	}{
		// floor(7.125 * 160) = 1140
		{speed: 160, elapsed: 7125 * time.Millisecond, stripW: 100000, want: 1140},
		{speed: 160, elapsed: 7125 * time.Millisecond, stripW: 1140, want: 0},
		{speed: 160, elapsed: 7125 * time.Millisecond, stripW: 1000, want: 140},
		{speed: 100, elapsed: 0, stripW: 500, want: 0},
		{speed: 100, elapsed: 999 * time.Millisecond, stripW: 500, want: 99},
	}
	for _, test := range tests {
		p := NewPacer(24, test.speed)
		if got := p.Offset(test.elapsed, test.stripW); got != test.want {
			t.Errorf("offset(%v, %v) = %v, want %v", test.elapsed, test.stripW, got, test.want)
		}
	}
}

func TestRunFrameCount(t *testing.T) {
	tests := []struct {
		duration time.Duration
		fps      int
	}{
		{duration: 2 * time.Second, fps: 24},
		{duration: time.Second, fps: 30},
		{duration: 1500 * time.Millisecond, fps: 24},
		{duration: 100 * time.Millisecond, fps: 24},
	}
	for _, test := range tests {
		p, _ := newFakePacer(test.fps, 160)
		frames, err := p.Run(context.Background(), test.duration, 1140, func(int) error { return nil })
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		df := test.duration.Seconds() * float64(test.fps)
		min, max := int(df), int(df+0.999999)+1
		if frames < min || frames > max {
			t.Errorf("D=%v F=%v: %v frames, want [%v,%v]", test.duration, test.fps, frames, min, max)
		}
	}
}

func TestRunOffsetsMonotonic(t *testing.T) {
	p, c := newFakePacer(24, 160)
	const stripW = 1140
	var offsets []int
	start := c.t
	_, err := p.Run(context.Background(), 20*time.Second, stripW, func(off int) error {
		offsets = append(offsets, off)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	unwrapped := 0
	prev := 0
	for i, off := range offsets {
		if i > 0 {
			d := off - prev
			if d < 0 {
				d += stripW
			}
			unwrapped += d
		}
		prev = off
	}
	// average rate over the whole run is the configured speed
	elapsed := c.t.Sub(start).Seconds()
	rate := float64(unwrapped) / elapsed
	if rate < 155 || rate > 165 {
		t.Errorf("average scroll rate %.1f px/s, want ~160", rate)
	}
}

func TestRunStopsOnEmitError(t *testing.T) {
	p, _ := newFakePacer(24, 160)
	boom := errors.New("broken pipe")
	calls := 0
	frames, err := p.Run(context.Background(), time.Minute, 1140, func(int) error {
		calls++
		if calls == 10 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
	if calls != 10 {
		t.Errorf("emit called %v times after failure on call 10", calls)
	}
	if frames != 9 {
		t.Errorf("%v frames counted, want 9", frames)
	}
}

func TestRunCancellation(t *testing.T) {
	p, _ := newFakePacer(24, 160)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := p.Run(ctx, time.Minute, 1140, func(int) error {
		calls++
		if calls == 5 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if calls != 5 {
		t.Errorf("emit called %v times after cancellation", calls)
	}
}

// A slow sink eats the pacer's spare time: no sleeping when behind and
// no frames skipped.
func TestRunSlowSink(t *testing.T) {
	p, c := newFakePacer(24, 160)
	// every emit blocks for two frame intervals
	frames, err := p.Run(context.Background(), time.Second, 1140, func(int) error {
		c.t = c.t.Add(2 * time.Second / 24)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if frames != 12 {
		t.Errorf("%v frames, want 12 back-to-back", frames)
	}
}
