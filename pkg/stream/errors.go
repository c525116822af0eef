package stream

import (
	"errors"
	"fmt"
)

// ErrChannelClosed is returned by Write after Close has been called.
var ErrChannelClosed = errors.New("stream: channel closed")

// EncoderError wraps failures of the encoder child process: a broken
// stdin pipe, an unexpected exit, a spawn failure. It ends the current
// cycle, never the whole run.
type EncoderError struct {
	Op  string
	Err error
}

func (e *EncoderError) Error() string { return fmt.Sprintf("encoder %s: %v", e.Op, e.Err) }
func (e *EncoderError) Unwrap() error { return e.Err }
