package extensibility

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// ChannelInputSource feeds input strings from a Go channel.
type ChannelInputSource struct {
	ch chan string
}

// NewChannelInputSource creates a ChannelInputSource with the given channel.
func NewChannelInputSource(ch chan string) *ChannelInputSource {
	return &ChannelInputSource{ch: ch}
}

// Inputs returns the receive-only channel of inputs.
func (s *ChannelInputSource) Inputs() <-chan string {
	return s.ch
}

// Send queues one input. It blocks until the input is taken or ctx ends.
func (s *ChannelInputSource) Send(ctx context.Context, input string) error {
	select {
	case s.ch <- input:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the channel; no more inputs follow.
func (s *ChannelInputSource) Close() {
	close(s.ch)
}

// LineInputSource reads one input per line from a reader. Surrounding
// whitespace is trimmed; blank lines are kept as the empty input.
type LineInputSource struct {
	ch  chan string
	err error
}

// NewLineInputSource starts reading r. The channel is closed at EOF, on a
// read error, or when ctx ends.
func NewLineInputSource(ctx context.Context, r io.Reader) *LineInputSource {
	s := &LineInputSource{ch: make(chan string)}
	go s.run(ctx, r)
	return s
}

func (s *LineInputSource) run(ctx context.Context, r io.Reader) {
	defer close(s.ch)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case s.ch <- strings.TrimSpace(scanner.Text()):
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		}
	}
	s.err = scanner.Err()
}

// Inputs returns the receive-only channel of inputs.
func (s *LineInputSource) Inputs() <-chan string {
	return s.ch
}

// Err returns the read error, if any. Valid once Inputs is closed.
func (s *LineInputSource) Err() error {
	return s.err
}
