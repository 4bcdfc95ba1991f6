package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tessro/patchdeck/internal/browser"
	"github.com/tessro/patchdeck/internal/devserver"
)

var (
	serveOpen  bool
	serveWatch bool
	servePort  int
	serveDir   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development server",
	Long: `Serve the built player bundle and forward API traffic to the backend.

Requests under the configured proxy paths (default /api and /uploads) go to
server.upstream; everything else is served from server.static_dir, falling
back to index.html for client-side routes.

The port comes from --port, PATCHDECK_SERVER_PORT, PORT, or server.port.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the player in a browser")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "log asset changes and report them in X-Asset-Version")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "static asset directory (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	serverCfg := cfg.Server
	if cmd.Flags().Changed("port") {
		serverCfg.Port = servePort
	}
	if serveDir != "" {
		serverCfg.StaticDir = serveDir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []devserver.Option
	if serveWatch {
		assets, err := devserver.WatchAssets(serverCfg.StaticDir, logger)
		if err != nil {
			return err
		}
		defer func() { _ = assets.Close() }()
		go func() { _ = assets.Run(ctx) }()
		opts = append(opts, devserver.WithAssetWatcher(assets))
	}

	srv, err := devserver.New(serverCfg, logger, opts...)
	if err != nil {
		return err
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]any{
			"url":      srv.URL(),
			"port":     srv.Port(),
			"upstream": serverCfg.Upstream,
		})
	} else {
		fmt.Printf("Serving %s on %s\n", serverCfg.StaticDir, srv.URL())
		fmt.Printf("Proxying %v to %s\n", serverCfg.ProxyPaths, serverCfg.Upstream)
	}

	if serveOpen {
		if err := browser.Open(srv.URL()); err != nil {
			logger.Warn("could not open browser", "err", err)
		}
	}

	if err := srv.Serve(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
