package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"photorestore/internal/client"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type restoreOptions struct {
	server  string
	token   string
	in      string
	out     string
	timeout time.Duration
}

func newRootCommand(logOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "restorectl",
		Short:        "Restore old photos through the photorestore API",
		SilenceUsage: true,
	}
	root.AddCommand(newRestoreCommand(logOut))
	return root
}

func newRestoreCommand(logOut io.Writer) *cobra.Command {
	opts := restoreOptions{}
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Upload one photo and save the restored result",
		Long: `Uploads a .png, .jpg, .jpeg or .webp photo to POST /restore and writes
the returned image to <out>/restored-photo.png.

The session token defaults to $CLERK_SESSION_TOKEN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: logOut, TimeFormat: time.Kitchen}).
				With().Timestamp().Str("cmd", "restorectl").Logger()
			return runRestore(cmd.Context(), opts, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.server, "server", envOr("RESTORE_SERVER", "http://localhost:8080"), "base URL of the photorestore API")
	flags.StringVar(&opts.token, "token", os.Getenv("CLERK_SESSION_TOKEN"), "Clerk session token")
	flags.StringVar(&opts.in, "in", "", "photo to restore (.png, .jpg, .jpeg, .webp)")
	flags.StringVar(&opts.out, "out", ".", "directory for restored-photo.png")
	flags.DurationVar(&opts.timeout, "timeout", 3*time.Minute, "overall request timeout")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runRestore(ctx context.Context, opts restoreOptions, logger zerolog.Logger) error {
	if strings.TrimSpace(opts.token) == "" {
		return errors.New("a session token is required via --token or CLERK_SESSION_TOKEN")
	}

	ctrl := client.NewController(client.NewAPIClient(opts.server, opts.token, nil))
	if err := ctrl.SelectFile(opts.in); err != nil {
		return err
	}
	if !ctrl.CanRestore() {
		return client.ErrNothingSelected
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	logger.Info().Str("file", opts.in).Str("server", opts.server).Msg("restoring photo")
	if err := ctrl.Restore(ctx); err != nil {
		logger.Error().Err(err).Str("error_state", ctrl.State().Error).Msg("restore failed")
		return err
	}

	if st := ctrl.State(); st.Result != nil {
		logResult(logger, st.Result)
	}

	if !ctrl.CanDownload() {
		return fmt.Errorf("server returned no image")
	}
	path, err := ctrl.Download(opts.out)
	if err != nil {
		return err
	}
	logger.Info().Str("path", path).Msg("saved")
	return nil
}

func logResult(logger zerolog.Logger, res *client.RestoreResult) {
	level := zerolog.InfoLevel
	if res.Outcome == "failed" {
		level = zerolog.WarnLevel
	}
	evt := logger.WithLevel(level).Str("outcome", res.Outcome).Str("analysis", res.Analysis)
	if res.FailureReason != "" {
		evt = evt.Str("reason", res.FailureReason)
	}
	evt.Msg(res.Message)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
