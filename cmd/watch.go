package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/imanbakhtiari/cdaas/internal/cluster"
	"github.com/imanbakhtiari/cdaas/internal/execx"
	"github.com/imanbakhtiari/cdaas/internal/image"
	"github.com/imanbakhtiari/cdaas/internal/manifest"
	"github.com/imanbakhtiari/cdaas/internal/pipeline"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/imanbakhtiari/cdaas/internal/vcs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the build-and-deploy pipeline over all registered repositories",
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := viper.GetString("data-dir")
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("create data dir")
		}

		db, err := repository.NewSQLiteDB(filepath.Join(dataDir, "cdaas.db"))
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}

		runner := execx.NewExecRunner()
		p := pipeline.New(
			pipeline.Config{ToolTimeout: viper.GetDuration("tool-timeout")},
			repository.NewRepositoryRepository(db),
			repository.NewBuildRepository(db),
			repository.NewDeploymentRepository(db),
			vcs.New(runner),
			pipeline.DefaultDetector{},
			image.New(runner),
			cluster.New(runner),
			manifest.New(viper.GetString("manifest-dir")),
			log.Logger,
		)

		interval := viper.GetDuration("interval")
		runPass(p)
		if interval <= 0 {
			return
		}

		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt, syscall.SIGTERM)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runPass(p)
			case sig := <-chSignal:
				log.Info().Str("signal", sig.String()).Msg("stopping watcher")
				return
			}
		}
	},
}

func runPass(p *pipeline.Pipeline) {
	outcomes, err := p.RunAll(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("pipeline pass failed")
		return
	}

	for _, o := range outcomes {
		event := log.Info().Str("repository", o.Repo.Name)
		switch {
		case o.Skipped:
			event.Msg("unchanged")
		case o.Err != nil:
			event.Str("status", "failed").Msg("run finished")
		default:
			event.Str("status", "success").Msg("run finished")
		}
	}
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "Poll interval; 0 runs a single pass and exits")
	viper.BindPFlag("interval", watchCmd.Flags().Lookup("interval"))
	rootCmd.AddCommand(watchCmd)
}
