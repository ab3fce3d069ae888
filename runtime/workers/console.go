package workers

import (
	"bufio"
	"chat-sync/contract"
	"chat-sync/domain/chat"
	"chat-sync/services"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gookit/color"
)

var _ contract.Worker = (*Console)(nil)

var promptStyle = color.New(color.FgRed)

// Console reads commands typed by the user, one per line.
type Console struct {
	log     *slog.Logger
	lines   chan string
	service services.IChatService
	out     io.Writer
}

// NewConsole starts scanning in right away: a blocking read on stdin cannot be
// interrupted, so the scanner outlives restarts of Run.
func NewConsole(log *slog.Logger, in io.Reader, out io.Writer, service services.IChatService) *Console {
	c := &Console{log: log, lines: make(chan string), service: service, out: out}
	go c.scan(in)
	return c
}

func (c *Console) scan(in io.Reader) {
	defer close(c.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		c.log.Warn("Console input failed", "error", err)
	}
}

func (c *Console) Run(ctx context.Context) error {
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				c.log.Debug("Console input closed")
				return nil
			}
			c.handle(ctx, line)
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	cmd, err := chat.ParseCommand(line)
	if err != nil {
		c.warn(err)
		return
	}
	if err := c.service.Execute(ctx, cmd); err != nil {
		c.warn(err)
	}
}

func (c *Console) warn(err error) {
	_, _ = fmt.Fprintln(c.out, promptStyle.Sprintf("! %v", err))
}
