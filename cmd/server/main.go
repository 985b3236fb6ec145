package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andy6609/terminal-chat/internal/chat"
	"github.com/andy6609/terminal-chat/internal/config"
	"github.com/andy6609/terminal-chat/internal/console"
	"github.com/andy6609/terminal-chat/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	nick := flag.String("nick", "", "host nickname")
	ip := flag.String("ip", "", "bind address (empty for all interfaces)")
	port := flag.Int("port", 0, "listen port (default 8888)")
	metricsAddr := flag.String("metrics-addr", "", "metrics listen address (empty to disable)")
	logLevel := flag.String("log-level", "", "log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", "", "log format: text or json")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nick":
			cfg.Nickname = *nick
		case "ip":
			cfg.BindIP = *ip
		case "port":
			cfg.Port = *port
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	srv := chat.NewServer(cfg.ListenAddr(), logger,
		chat.WithDisplay(console.New(os.Stdout)),
		chat.WithHostNick(cfg.Nickname),
	)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	srv.StartMetricsHTTP(cfg.MetricsAddr)
	srv.Banner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.RunConsole(ctx, os.Stdin); errors.Is(err, chat.ErrExit) {
		// /exit terminates immediately, without draining sessions.
		os.Exit(0)
	}
	if ctx.Err() == nil {
		// stdin closed: keep serving until a signal arrives.
		<-ctx.Done()
	}
	srv.Stop()
}
