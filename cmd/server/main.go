// Despacho Legal chat assistant server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ashureev/despacho-chat/internal/agent"
	"github.com/ashureev/despacho-chat/internal/config"
	"github.com/ashureev/despacho-chat/internal/inference"
	"github.com/ashureev/despacho-chat/internal/knowledge"
	"github.com/ashureev/despacho-chat/internal/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Conversational assistant for the legal office",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.AddCommand(newServeCmd(), newAskCmd(), newIntentsCmd())
	return root
}

// app holds the dependencies shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	kb      *knowledge.Base
	remote  *inference.Client
	service *agent.Service
}

// setup loads configuration and builds the dispatcher. Logs go to logOut.
func setup(logOut io.Writer) (*app, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	kb, err := knowledge.Load(cfg.KnowledgeBasePath)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	slog.Info("Knowledge base loaded", "intents", len(kb.Intents()), "path", cfg.KnowledgeBasePath)

	params := inference.DefaultParameters()
	params.MaxNewTokens = cfg.Inference.MaxNewTokens
	remote := inference.NewClient(inference.Config{
		URL:        cfg.Inference.URL,
		Token:      cfg.Inference.APIToken,
		Timeout:    cfg.Inference.Timeout,
		Parameters: params,
	}, validator.New(nil, nil), nil, logger)
	if remote.Enabled() {
		slog.Info("Remote inference enabled", "url", cfg.Inference.URL, "timeout", cfg.Inference.Timeout)
	} else {
		slog.Info("Remote inference disabled (HF_API_TOKEN not set), using knowledge base only")
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		kb:      kb,
		remote:  remote,
		service: agent.NewService(remote, knowledge.NewMatcher(kb), logger),
	}, nil
}
