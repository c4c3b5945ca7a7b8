package serve_lsp

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/identicolor/pkg/config"
	"github.com/walteh/identicolor/pkg/debug"
	"github.com/walteh/identicolor/pkg/lsp"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	debug      bool
	logFile    string
	configPath string
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the highlight server on stdin/stdout",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&me.logFile, "log-file", "", "write logs to this file instead of stderr")
	cmd.Flags().StringVar(&me.configPath, "config", "", "path to an identicolor config file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	var logOut io.Writer = os.Stderr
	if me.logFile != "" {
		file, err := os.OpenFile(me.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Errorf("opening log file: %w", err)
		}
		defer file.Close()
		logOut = file
	}

	level := zerolog.InfoLevel
	if me.debug {
		level = zerolog.TraceLevel
	}

	logger := zerolog.New(logOut).Level(level).With().
		Str("component", "lsp-server").
		Logger().
		Hook(debug.CustomTimeHook{}).
		Hook(debug.CustomCallerHook{})
	ctx = logger.WithContext(ctx)

	cfg := config.Default()
	if me.configPath != "" {
		loaded, err := config.Load(afero.NewOsFs(), me.configPath)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	server := lsp.NewServer(ctx, cfg, lsp.WithDebug(me.debug))

	stream := lsp.NewReadWriteCloser(os.Stdin, os.Stdout)
	if err := server.Serve(ctx, stream); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
