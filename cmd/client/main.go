package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/andy6609/terminal-chat/internal/client"
	"github.com/andy6609/terminal-chat/internal/config"
	"github.com/andy6609/terminal-chat/internal/console"
	"github.com/andy6609/terminal-chat/internal/logging"
)

func main() {
	nick := flag.String("nick", "User", "your nickname")
	host := flag.String("host", "127.0.0.1", "server IP")
	port := flag.Int("port", config.DefaultPort, "server port")
	logLevel := flag.String("log-level", "warn", "log level: "+logging.LevelNames())
	flag.Parse()

	logger, err := logging.Setup(logging.Options{Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	display := console.New(os.Stdout)
	c, err := client.Dial(ctx, net.JoinHostPort(*host, strconv.Itoa(*port)), *nick, display, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(1)
	}
	display.Println("Connected successfully! You can now chat.")

	if err := c.Run(ctx, os.Stdin); err != nil {
		logger.Error("client stopped", "error", err)
		os.Exit(1)
	}
}
