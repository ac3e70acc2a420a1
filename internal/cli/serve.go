package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/profilemap/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extraction and mapping over HTTP",
	Long: `Serve starts the v1 API:
  POST /v1/extract   snapshot in, result out
  POST /v1/map       any JSON object in, canonical record out (?mode=shallow|deep&depth=N)
  GET  /v1/fields    the field table
  GET  /healthz`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		cfg := rt.config.Server
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		return server.NewServer(rt.pipeline, rt.sink, cfg, rt.logger).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().StringVar(&sinkKind, "sink", "", "result sink (none, file, mongo, kafka); overrides sink.kind")
	serveCmd.Flags().BoolVar(&enableNetwork, "network", false, "allow credentialed same-origin endpoint requests")
}
