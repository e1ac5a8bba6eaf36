package commands

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/homewall/wallsense/internal/server"
	"github.com/homewall/wallsense/internal/source"
)

var (
	serveAddr        string
	serveConfigPath  string
	serveMaxImageDim int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the wallsense HTTP API",
	Long: `Serve starts the stateless analysis API.

Endpoints:
  POST /api/segment        - wall region segmentation
  POST /api/color-palette  - k-means color palette with harmonies
  POST /api/depth          - placeholder depth and perspective data

Configuration is read from the optional YAML file given with --config;
command-line flags override file values.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config file)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to YAML config file")
	serveCmd.Flags().IntVar(&serveMaxImageDim, "max-image-dim", 0, "downscale images larger than this dimension (overrides config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.DefaultFileConfig()
	if serveConfigPath != "" {
		loaded, err := server.LoadFileConfig(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if cmd.Flags().Changed("addr") {
		cfg.Listen = serveAddr
	}
	if cmd.Flags().Changed("max-image-dim") {
		cfg.MaxImageDim = serveMaxImageDim
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The 30s fetch budget is caller policy; the pipeline itself has no
	// internal deadline.
	decoder := source.New(&http.Client{Timeout: 30 * time.Second}, cfg.MaxImageDim)
	srv := server.New(decoder, cfg.Analysis(), log)

	httpSrv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	log.WithField("addr", cfg.Listen).Info("wallsense API listening")
	return httpSrv.ListenAndServe()
}
