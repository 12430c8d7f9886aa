package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader reads lines while honoring context cancellation.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}
	return &NonBlockingReader{reader: bufio.NewReader(reader)}
}

// ReadString reads until delim or until ctx is done. A read abandoned by
// cancellation keeps running in the background until input arrives.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	type result struct {
		err   error
		value string
	}
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads a trimmed line. A final line without a newline is
// returned without error.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Prompter asks yes/no questions on a terminal.
type Prompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from r and writing to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: NewNonBlockingReader(r), writer: w}
}

// Confirm asks question and reports whether the answer was yes. Anything
// other than y or yes, including end of input, is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(question+" [y/N]")); err != nil {
		return false, err
	}

	answer, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
