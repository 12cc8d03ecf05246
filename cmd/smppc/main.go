package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ValerySidorin/smppc/config"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/yaml.v3"
)

var (
	Commit string
)

type app struct {
	confPath string
	conf     config.Config
	l        *slog.Logger
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "smppc",
		Short:         "SMPP client: submit messages and forward deliveries to a message bus",
		Version:       Commit,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(a.confPath, &a.conf); err != nil {
				return err
			}
			if err := a.conf.Validate(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}
			a.l = newLogger(a.conf.Log, cmd.ErrOrStderr())
			a.l.Debug("config loaded", "commit", Commit)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.confPath, "config", "c", "", "path to config file")

	root.AddCommand(newSubmitCmd(a), newListenCmd(a))
	return root
}

func newLogger(conf config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(conf.Level)}

	switch strings.ToLower(conf.Type) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

func parseLogLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadConfig(filePath string, cfg *config.Config) error {
	paths := []string{}

	if filePath == "" {
		paths = append(paths, "./config.yaml", "conf/config.yaml", "config/config.yaml")
	} else {
		paths = append(paths, filePath)
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		log.Printf("found config file in: %s\n", p)

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}

		cfg.SetDefaults()
		return nil
	}

	return fmt.Errorf("failed to find config in: %v", paths)
}
