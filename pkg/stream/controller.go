package stream

import (
	"context"
	"errors"
	"image"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/image/font"

	"github.com/tickerlive/newscast/pkg/config"
	"github.com/tickerlive/newscast/pkg/content"
	"github.com/tickerlive/newscast/pkg/logger"
	"github.com/tickerlive/newscast/pkg/render"
	"github.com/tickerlive/newscast/pkg/ticker"
)

const fetchTimeout = 30 * time.Second

// Controller runs the endless fetch/render/stream loop as bounded
// cycles. Each cycle gets fresh headlines, a fresh ticker strip and a
// fresh encoder process bound to the cycle's audio. An encoder failure
// ends its cycle, never the run.
type Controller struct {
	conf     config.Config
	log      *logger.Logger
	provider content.Provider
	builder  *ticker.Builder
	base     *image.RGBA

	// channel factory, swapped in tests
	open func(log *logger.Logger) (channel, error)

	done chan struct{}
}

// channel is what the controller needs from an encoder channel.
type channel interface {
	Write(frame []byte) error
	Close() error
}

func NewController(conf config.Config, base *image.RGBA, face font.Face, provider content.Provider, log *logger.Logger) *Controller {
	c := &Controller{
		conf:     conf,
		log:      log,
		provider: provider,
		builder:  ticker.NewBuilder(face, conf.Ticker.Height, conf.Ticker.Gap),
		base:     base,
		done:     make(chan struct{}),
	}
	c.open = func(log *logger.Logger) (channel, error) {
		return OpenChannel(conf.Encoder, conf.Video, conf.Stream.URL, conf.Assets.Audio, log)
	}
	return c
}

// Run loops cycles until ctx is cancelled. Cancellation is observed
// between cycles and, through the pacer, between frames.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.done)
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.runCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			metricEncoderFailures.Inc()
			c.log.Error().Err(err).Msg("cycle ended early")
		}
	}
}

// Done is closed when Run returns.
func (c *Controller) Done() <-chan struct{} { return c.done }

func (c *Controller) runCycle(ctx context.Context) error {
	id, _ := uuid.NewV4()
	log := c.log.Extend(c.log.With().Str("cycle", id.String()[:8]))

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	headlines, err := c.provider.Headlines(fetchCtx)
	cancel()
	if err != nil || len(headlines) == 0 {
		// transient content trouble, the cycle proceeds with a stand-in
		log.Warn().Err(err).Msg("no headlines, using placeholder")
		headlines = []string{c.conf.Content.Placeholder}
	}

	text := tickerText(headlines, c.conf.Content.Separator, c.conf.Ticker.MinTextLen)
	strip, err := c.builder.Build(text)
	if err != nil {
		return err
	}
	comp := render.NewCompositor(c.base, strip)

	ch, err := c.open(log)
	if err != nil {
		return err
	}

	log.Info().Int("headlines", len(headlines)).Int("strip_w", strip.Width).Msg("streaming cycle")

	pacer := NewPacer(c.conf.Video.Fps, c.conf.Ticker.Speed)
	frames, runErr := pacer.Run(ctx, c.conf.Stream.CycleDuration(), strip.Width, func(offset int) error {
		return ch.Write(comp.Composite(offset))
	})

	if err := ch.Close(); err != nil {
		log.Warn().Err(err).Msg("encoder teardown")
	}
	metricCycles.Inc()
	log.Info().Int("frames", frames).Msg("cycle finished")
	return runErr
}

// tickerText joins headlines with the separator and pads short text by
// repetition. Padding is a content policy, which is why it sits here
// and not in the strip builder.
func tickerText(headlines []string, sep string, minLen int) string {
	text := strings.Join(headlines, sep)
	if len([]rune(text)) < minLen {
		text = strings.Repeat(text+sep, 6)
	}
	return text
}
