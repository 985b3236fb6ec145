// Package client is the thin line client: it announces a nickname, prints
// whatever the server sends and forwards what the operator types.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/andy6609/terminal-chat/internal/chat"
	"github.com/andy6609/terminal-chat/internal/console"
)

type Client struct {
	conn    net.Conn
	display *console.Display
	logger  *slog.Logger

	mu   sync.Mutex
	nick string

	done chan struct{}
}

// Dial connects to addr and announces nick with a /nick line.
func Dial(ctx context.Context, addr, nick string, display *console.Display, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if display == nil {
		display = console.New(io.Discard)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	c := &Client{
		conn:    conn,
		display: display,
		logger:  logger,
		nick:    nick,
		done:    make(chan struct{}),
	}
	if err := c.send(chat.NickLine(nick)); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Debug("connected", "addr", addr, "nick", nick)

	go c.readLoop()
	return c, nil
}

func (c *Client) Nick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nick
}

// Done is closed once the server side of the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer close(c.done)
	r := bufio.NewReader(c.conn)
	for {
		line, err := chat.ReadLine(r)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				c.logger.Debug("read failed", "error", err)
			}
			break
		}
		c.display.Println(line)
		c.display.Prompt()
	}
	c.display.Println("Disconnected from server.")
}

func (c *Client) send(line string) error {
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Input handles one operator line. It returns chat.ErrExit after /exit has
// closed the connection.
func (c *Client) Input(line string) error {
	text := strings.TrimSpace(line)
	if text == "" {
		return nil
	}

	name, arg := chat.SplitCommand(text)
	switch name {
	case "/exit":
		_ = c.conn.Close()
		c.display.Println("Disconnected.")
		return chat.ErrExit
	case "/clear":
		c.display.Clear()
		return nil
	case "/nick":
		if arg != "" {
			c.mu.Lock()
			c.nick = arg
			c.mu.Unlock()
		}
	}
	return c.send(line)
}

// Run forwards lines from in until in is exhausted, ctx is cancelled, the
// server goes away, or /exit is typed.
func (c *Client) Run(ctx context.Context, in io.Reader) error {
	defer c.conn.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		r := bufio.NewReader(in)
		for {
			line, err := chat.ReadLine(r)
			if err != nil {
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		c.display.Prompt()
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := c.Input(line); err != nil {
				if errors.Is(err, chat.ErrExit) {
					return nil
				}
				return err
			}
		}
	}
}
