// zen is the text-mode front end: the same session, routes and tools as
// the daemon, driven from the keyboard. Useful without a microphone.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	log "log/slog"

	"zen/internal/assistant"
	"zen/internal/brain"
	"zen/internal/config"
	"zen/internal/logging"
	"zen/internal/memory"
	"zen/internal/proxy"
	"zen/internal/tasks"
)

// printSpeaker writes replies to stdout instead of voicing them.
type printSpeaker struct{}

func (printSpeaker) Say(text string) error {
	fmt.Printf("Zen: %s\n", text)
	return nil
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "warn", "Log level")
	cli.Parse()

	cfg := config.Load(*envFile)
	cfg.LogToFile = false

	if err := logging.Setup(cfg, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logging:", err)
		os.Exit(1)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "configuration error:", err)
		}
		os.Exit(1)
	}

	httpClient, err := buildHTTPClient(cfg)
	if err != nil {
		log.Error("Failed to dial socks proxy", "err", err)
		os.Exit(1)
	}

	session, err := brain.NewSession(cfg, httpClient)
	if err != nil {
		log.Error("Failed to init AI session", "err", err)
		os.Exit(1)
	}

	taskMgr, err := tasks.NewManager(cfg.TasksFile)
	if err != nil {
		log.Error("Failed to load tasks", "err", err)
		os.Exit(1)
	}

	mem, err := memory.Open(cfg.MemoryDB)
	if err != nil {
		log.Error("Failed to open memory store", "err", err)
		os.Exit(1)
	}
	defer mem.Close()

	zen := assistant.New(assistant.Options{
		Config:  cfg,
		Session: session,
		Speaker: printSpeaker{},
		Tasks:   taskMgr,
		Memory:  mem,
	})

	fmt.Printf("Zen text mode (provider: %s). Type 'exit' to quit.\n\n", session.ProviderName())

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for zen.Running() {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		zen.HandleText(ctx, line)
	}
}

func buildHTTPClient(cfg *config.Config) (*http.Client, error) {
	if cfg.SocksProxy == "" {
		return nil, nil
	}
	return proxy.NewSocksClient(cfg.SocksProxy)
}
