package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/imanbakhtiari/cdaas/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the repository registration API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &server.Config{
			DataDir:     viper.GetString("data-dir"),
			ManifestDir: viper.GetString("manifest-dir"),
			Port:        viper.GetInt("port"),
			ToolTimeout: viper.GetDuration("tool-timeout"),
			Logger:      log.Logger,
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("create data dir")
		}

		srv := server.New(cfg)
		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt, syscall.SIGTERM)

		wg := &sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("server error")
			}
		}()

		sig := <-chSignal
		log.Info().Str("signal", sig.String()).Msg("shutting down server...")
		if err := srv.Stop(context.Background()); err != nil {
			log.Error().Err(err).Msg("error during server shutdown")
		}

		wg.Wait()
		log.Info().Msg("server stopped")
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}
