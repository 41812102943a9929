package cli

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lifeos/internal/advisor"
	"github.com/mesh-intelligence/lifeos/internal/app"
	"github.com/mesh-intelligence/lifeos/internal/cache"
	"github.com/mesh-intelligence/lifeos/internal/extract"
	"github.com/mesh-intelligence/lifeos/internal/web"
	"github.com/mesh-intelligence/lifeos/pkg/lifeos"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		Long: "Open the configured record store and serve the dashboard API.\n" +
			"AI panels activate when a Gemini API key is configured; the\n" +
			"passphrase gate activates when a passphrase is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(resolveConfigDir())
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
			}
			cfg, err := buildConfig(v)
			if err != nil {
				return exitError(cmd, exitUserError, fmt.Sprintf("invalid config: %s", err))
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx := cmd.Context()
			store, closeStore, err := lifeos.OpenStore(ctx, cfg)
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("open store: %s", err))
			}
			defer closeStore()

			logger := log.New(cmd.ErrOrStderr(), "lifeos ", log.LstdFlags)
			a := app.New(store, cache.New(store, cfg.EffectiveTTL()))

			opts := web.Options{
				App:        a,
				Passphrase: cfg.Passphrase,
				Logger:     logger,
			}
			if cfg.AIEnabled() {
				gen, err := extract.NewGemini(ctx, cfg.GeminiAPIKey)
				if err != nil {
					return exitError(cmd, exitSysError, fmt.Sprintf("gemini client: %s", err))
				}
				opts.Extractor = extract.New(gen)
				opts.Advisor = advisor.New(a, gen)
			} else {
				logger.Printf("no gemini api key configured; ai panels disabled")
			}
			if !cfg.AuthEnabled() {
				logger.Printf("no passphrase configured; gate is open")
			}

			srv := web.New(opts)
			logger.Printf("serving on %s (backend: %s)", cfg.Addr, cfg.Backend)
			return http.ListenAndServe(cfg.Addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8501\")")
	return cmd
}
