package stream

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/tickerlive/newscast/pkg/config"
	"github.com/tickerlive/newscast/pkg/logger"
)

// Channel owns one encoder child process for the duration of one cycle.
// The process reads raw rgb24 frames on stdin, loops the cycle's audio
// file, muxes both and pushes the result to the ingest URL. Channels
// are not reused, the controller opens a fresh one every cycle.
type Channel struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	log   *logger.Logger

	stopTimeout time.Duration

	mu       sync.Mutex
	closed   bool
	closeErr error
}

// OpenChannel spawns the encoder process. Frame boundaries on stdin are
// implicit from the fixed frame byte size.
func OpenChannel(conf config.Encoder, video config.Video, url, audio string, log *logger.Logger) (*Channel, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-re",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", video.Width, video.Height),
		"-r", strconv.Itoa(video.Fps),
		"-i", "-",
		"-stream_loop", "-1",
		"-i", audio,
		"-c:v", "libx264",
		"-preset", conf.Preset,
		"-b:v", conf.Bitrate,
		"-pix_fmt", "yuv420p",
		"-g", strconv.Itoa(conf.KeyframeInterval),
		"-c:a", "aac",
		"-b:a", conf.AudioBitrate,
		"-ar", strconv.Itoa(conf.AudioRate),
		"-f", "flv",
		url,
	}
	cmd := exec.Command(conf.Binary, args...)
	return open(cmd, conf.StopTimeout(), log)
}

func open(cmd *exec.Cmd, stopTimeout time.Duration, log *logger.Logger) (*Channel, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &EncoderError{Op: "open", Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &EncoderError{Op: "open", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &EncoderError{Op: "start", Err: err}
	}
	// the encoder's own diagnostics are opaque, drain them into debug logs
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Debug().Str("m", "encoder").Msg(scanner.Text())
		}
	}()
	log.Debug().Int("pid", cmd.Process.Pid).Msg("encoder started")
	return &Channel{cmd: cmd, stdin: stdin, log: log, stopTimeout: stopTimeout}, nil
}

// Write delivers exactly one frame, blocking when the process's input
// buffer is full. That block is the sole backpressure mechanism.
func (c *Channel) Write(frame []byte) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.mu.Unlock()
	if _, err := c.stdin.Write(frame); err != nil {
		return &EncoderError{Op: "write", Err: err}
	}
	return nil
}

// Close shuts down the input stream, waits for the process to exit
// within the stop timeout and kills it if it does not. Idempotent and
// safe on an already-exited process. A forced kill is reported in logs
// only, the next cycle must still be able to start.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		err := c.closeErr
		c.mu.Unlock()
		return err
	}
	c.closed = true
	c.mu.Unlock()

	var result *multierror.Error
	if err := c.stdin.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	wait := make(chan error, 1)
	go func() { wait <- c.cmd.Wait() }()
	select {
	case err := <-wait:
		if err != nil {
			c.log.Debug().Err(err).Msg("encoder exited with error")
		}
	case <-time.After(c.stopTimeout):
		c.log.Warn().Msg("encoder did not exit in time, killing")
		if err := c.cmd.Process.Kill(); err != nil {
			c.log.Debug().Err(err).Msg("encoder kill failed")
		}
		<-wait
	}

	c.mu.Lock()
	c.closeErr = result.ErrorOrNil()
	err := c.closeErr
	c.mu.Unlock()
	return err
}
