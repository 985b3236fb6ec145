// Command chat is the interactive entry point: a numbered menu that starts
// a server with a host console or connects to one as a client.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/andy6609/terminal-chat/internal/chat"
	"github.com/andy6609/terminal-chat/internal/client"
	"github.com/andy6609/terminal-chat/internal/config"
	"github.com/andy6609/terminal-chat/internal/console"
	"github.com/andy6609/terminal-chat/internal/logging"
)

func main() {
	logger, err := logging.Setup(logging.Options{Level: "info"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	display := console.New(os.Stdout)
	in := bufio.NewReader(os.Stdin)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		debug := "Enable"
		if logging.DebugEnabled() {
			debug = "Disable"
		}
		display.Println("=== Welcome to Terminal Chat ===")
		display.Println("")
		display.Println("Select mode:")
		display.Println("1. Create server (multiplayer)")
		display.Println("2. Connect to server")
		display.Println("3. " + debug + " debug mode")
		display.Println("4. Exit")

		choice, ok := ask(display, in, "Enter number: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			os.Exit(runServer(ctx, display, in, logger))
		case "2":
			os.Exit(runClient(ctx, display, in, logger))
		case "3":
			logging.ToggleDebug()
			display.Clear()
		case "4":
			return
		default:
			display.Println("Invalid option. Try again.")
			display.Println("")
		}
	}
}

func ask(display *console.Display, in *bufio.Reader, prompt string) (string, bool) {
	display.Printf("%s", prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func askPort(display *console.Display, in *bufio.Reader, prompt string) int {
	s, _ := ask(display, in, prompt)
	p, err := strconv.Atoi(s)
	if err != nil {
		return config.DefaultPort
	}
	return p
}

func runServer(ctx context.Context, display *console.Display, in *bufio.Reader, logger *slog.Logger) int {
	display.Clear()
	cfg := config.Default()
	if nick, _ := ask(display, in, "Your nickname (server): "); nick != "" {
		cfg.Nickname = nick
	}
	cfg.Port = askPort(display, in, fmt.Sprintf("Port (e.g., %d): ", config.DefaultPort))
	if err := cfg.Validate(); err != nil {
		display.Println("An error occurred: " + err.Error())
		return 1
	}

	srv := chat.NewServer(cfg.ListenAddr(), logger,
		chat.WithDisplay(display),
		chat.WithHostNick(cfg.Nickname),
	)
	if err := srv.Start(); err != nil {
		display.Println("An error occurred: " + err.Error())
		return 1
	}
	display.Clear()
	srv.Banner()

	if err := srv.RunConsole(ctx, in); errors.Is(err, chat.ErrExit) {
		return 0
	}
	srv.Stop()
	return 0
}

func runClient(ctx context.Context, display *console.Display, in *bufio.Reader, logger *slog.Logger) int {
	display.Clear()
	nick, _ := ask(display, in, "Your nickname: ")
	if nick == "" {
		nick = "User"
	}
	ip, _ := ask(display, in, "Server IP: ")
	port := askPort(display, in, "Port: ")

	c, err := client.Dial(ctx, net.JoinHostPort(ip, strconv.Itoa(port)), nick, display, logger)
	if err != nil {
		display.Println("Connection error: " + err.Error())
		return 1
	}
	display.Clear()
	display.Println("Connected successfully! You can now chat.")
	display.Println("")

	if err := c.Run(ctx, in); err != nil {
		display.Println("Connection error: " + err.Error())
		return 1
	}
	return 0
}
