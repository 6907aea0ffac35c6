package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/psdcomp/manifest"
)

func newServeCmd() *cobra.Command {
	var (
		manifestPath string
		addr         string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve composite previews over HTTP",
		Example: `  psdcomp serve -m doc.yaml --addr :8080
  curl 'localhost:8080/composite?hide=3&format=jpeg' > out.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			doc, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              firstNonEmpty(addr, cfg.Server.Addr),
				Handler:           newServer(doc, cfg, logger).routes(),
				ReadHeaderTimeout: cfg.Server.ReadTimeout,
				ReadTimeout:       cfg.Server.ReadTimeout,
				WriteTimeout:      cfg.Server.WriteTimeout,
			}
			return listenAndServe(ctx, srv, logger.Info)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "layer manifest (YAML)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

// listenAndServe runs srv until ctx is done, then shuts it down gracefully.
func listenAndServe(ctx context.Context, srv *http.Server, logf func(msg any, keyvals ...any)) error {
	errCh := make(chan error, 1)
	go func() {
		logf("Listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logf("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
