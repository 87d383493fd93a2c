package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academia-server-go/config"
	"academia-server-go/db"
	"academia-server-go/handlers"
	"academia-server-go/models"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, done, err := setup()
			if err != nil {
				return err
			}
			defer done()
			return serve(cmd.Context(), cfg, memory)
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "keep everything in memory, without Redis")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, memory bool) error {
	gin.SetMode(cfg.GinMode)

	var (
		inst  *models.Institution
		store handlers.SnapshotStore
		err   error
	)
	if memory {
		inst, err = initialInstitution(cfg.SeedSample)
	} else {
		client, cerr := db.InitializeRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if cerr != nil {
			return cerr
		}
		defer client.Close()
		redisService := db.NewRedisService(client)
		store = redisService
		inst, err = loadOrSeed(ctx, redisService, cfg.SeedSample)
	}
	if err != nil {
		return err
	}

	apiHandler := handlers.NewAPIHandler(inst, store)
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           handlers.NewRouter(apiHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initialInstitution returns the sample institution, or an empty one when
// seeding is disabled
func initialInstitution(seed bool) (*models.Institution, error) {
	if seed {
		return models.BuildSampleInstitution()
	}
	return models.NewInstitution(models.SampleInstitution)
}

// loadOrSeed loads the stored institution. When nothing is stored it starts
// from initialInstitution and saves it.
func loadOrSeed(ctx context.Context, s *db.RedisService, seed bool) (*models.Institution, error) {
	inst, err := s.LoadInstitution(ctx)
	if err == nil {
		zap.L().Info("loaded institution from Redis", zap.String("institution", inst.Name))
		return inst, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	zap.L().Info("no institution stored, starting fresh", zap.Bool("seed", seed))
	if inst, err = initialInstitution(seed); err != nil {
		return nil, err
	}
	if err := s.SaveInstitution(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}
