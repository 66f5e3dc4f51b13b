package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompter reads answers line by line. When in is a terminal, secrets are
// read without echo. Every read gives up as soon as ctx is done.
type TerminalPrompter struct {
	ctx    context.Context
	reader *bufio.Reader
	out    io.Writer
	fd     int

	// err is sticky: once a read was abandoned, the reader may still be in use.
	err error
}

type readResult struct {
	text string
	err  error
}

func NewTerminalPrompter(ctx context.Context, in io.Reader, out io.Writer) *TerminalPrompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &TerminalPrompter{ctx: ctx, reader: bufio.NewReader(in), out: out, fd: fd}
}

func NewStdioPrompter(ctx context.Context) *TerminalPrompter {
	return NewTerminalPrompter(ctx, os.Stdin, os.Stdout)
}

// ReadLine returns the answer without the line ending. io.EOF is returned only when
// the input ends before anything was typed.
func (p *TerminalPrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.await(func() readResult {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line != "" {
				return readResult{text: strings.TrimRight(line, "\r\n")}
			}
			return readResult{err: err}
		}
		return readResult{text: strings.TrimRight(line, "\r\n")}
	}, nil)
}

func (p *TerminalPrompter) ReadSecret(prompt string) (string, error) {
	if p.fd < 0 {
		return p.ReadLine(prompt)
	}

	state, err := term.GetState(p.fd)
	if err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	secret, err := p.await(func() readResult {
		b, err := term.ReadPassword(p.fd)
		return readResult{text: string(b), err: err}
	}, func() {
		// ReadPassword only restores echo when it returns.
		_ = term.Restore(p.fd, state)
	})
	fmt.Fprintln(p.out)
	return secret, err
}

func (p *TerminalPrompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// await runs read in the background and returns early when ctx is done. onCancel
// runs before the cancellation error is returned.
func (p *TerminalPrompter) await(read func() readResult, onCancel func()) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		p.err = err
		return "", err
	}

	done := make(chan readResult, 1)
	go func() { done <- read() }()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		p.err = ctx.Err()
		return "", p.err
	}
}
