package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/edtrpub/internal/attachment"
	"github.com/dgallion1/edtrpub/internal/config"
	"github.com/dgallion1/edtrpub/internal/pipeline"
	"github.com/dgallion1/edtrpub/internal/preview"
)

type options struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "edtrpub <package.zip>",
		Short: "Prepare an EDTR council package for publishing",
		Long: `edtrpub unpacks an EDTR export next to itself, deletes closed-session
topic directories, repairs the agenda document, empties closed-session
agenda items and links every public item to the files of its topic
directory. The agenda document is rewritten in place.`,
		Example: "  edtrpub Koznevelesi_Muvelodesi_es_Ifjusagi_Bizottsag_2020_10_15.zip",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runProcess(cmd, opts, args[0])
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $EDTR_CONFIG)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every inserted link")

	root.AddCommand(newInventoryCmd(opts), newServeCmd(opts))
	return root
}

func newInventoryCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inventory <session-dir>",
		Short: "List the attachments of every topic directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, _, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runInventory(cmd.OutOrStdout(), cfg, args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or html")
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <session-dir>",
		Short: "Preview a processed session directory in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, log, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.PreviewAddr = addr
			}
			return runServe(cfg, log, args[0])
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func setup(opts *options, stderr io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, newLogger(cfg, stderr), nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.Level()
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func runProcess(cmd *cobra.Command, opts *options, archivePath string) error {
	cfg, log, err := setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := pipeline.NewRunner(cfg, log).Run(ctx, archivePath)
	if err != nil {
		return fmt.Errorf("processing %s failed at %w", archivePath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session directory:     %s\n", rep.SessionDir)
	fmt.Fprintf(out, "Agenda document:       %s\n", rep.Document)
	fmt.Fprintf(out, "Closed topics removed: %d\n", len(rep.ClosedTopics))
	fmt.Fprintf(out, "Agenda items:          %d (closed %d, linked %d, skipped %d)\n",
		rep.Agenda.Items, rep.Agenda.Closed, rep.Agenda.Linked, rep.Agenda.Skipped)
	fmt.Fprintf(out, "Links inserted:        %d\n", rep.Agenda.Links)
	if rep.RenditionRemoved {
		fmt.Fprintf(out, "Print rendition removed\n")
	}
	return nil
}

func runInventory(out io.Writer, cfg config.Config, dir, format string) error {
	inv, err := attachment.Build(dir, cfg.ClosedDirSuffix)
	if err != nil {
		return err
	}
	md := inv.Markdown()

	switch format {
	case "markdown", "md":
		_, err = io.WriteString(out, md)
	case "html":
		var body string
		body, err = attachment.RenderHTML(md)
		if err == nil {
			_, err = io.WriteString(out, body)
		}
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	return err
}

func runServe(cfg config.Config, log *slog.Logger, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	httpServer := &http.Server{
		Addr:         cfg.PreviewAddr,
		Handler:      preview.NewServer(dir, cfg.ClosedDirSuffix, log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving preview", "dir", dir, "addr", "http://"+cfg.PreviewAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
