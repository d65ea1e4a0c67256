package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dantero-ps/voxelworld/internal/blockstate"
	"github.com/dantero-ps/voxelworld/internal/logging"
	"github.com/dantero-ps/voxelworld/internal/storage"
	"github.com/dantero-ps/voxelworld/internal/worldmeta"

	worldpkg "github.com/dantero-ps/voxelworld/internal/world"
)

// serverFlags collects the root command's flags; cobra populates it before
// runServer is invoked.
type serverFlags struct {
	worldDir         string
	configPath       string
	seed             int64
	activationRange  int32
	storageFormat    string
	saveStrategy     string
	logLevel         string
	tickRate         float64
	autoSaveInterval time.Duration
	workers          int
	dayLength        time.Duration
}

func newRootCommand() *cobra.Command {
	flags := &serverFlags{}

	cmd := &cobra.Command{
		Use:   "voxelworldd",
		Short: "Streams and persists an infinite voxel world",
		Long: "voxelworldd drives the chunk activation window, the deferred lighting\n" +
			"engine and the background generate/load/save job scheduler against a\n" +
			"world save directory, with no rendering or input attached.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.worldDir, "world", "./world", "world save directory")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "storage config YAML path (defaults to <world>/storage.yaml)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "terrain generation seed (0 picks a time-derived seed for new worlds)")
	cmd.Flags().Int32Var(&flags.activationRange, "activation-range", 8, "chunk activation radius, in chunks, around the tracked position")
	cmd.Flags().StringVar(&flags.storageFormat, "storage-format", "", "override the configured storage format (esf or esfs)")
	cmd.Flags().StringVar(&flags.saveStrategy, "save-strategy", "", "override the configured save strategy (all, modified_only, player_modified_only)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().Float64Var(&flags.tickRate, "tick-rate", 20.0, "world ticks per second")
	cmd.Flags().DurationVar(&flags.autoSaveInterval, "autosave-interval", 0, "override the configured autosave interval (0 keeps the config value)")
	cmd.Flags().IntVar(&flags.workers, "workers", 4, "background generate/load/save worker goroutines")
	cmd.Flags().DurationVar(&flags.dayLength, "day-length", 20*time.Minute, "wall-clock duration of one in-world day/night cycle")

	return cmd
}

func runServer(ctx context.Context, flags *serverFlags) error {
	log, err := logging.New(flags.logLevel, false)
	if err != nil {
		return fmt.Errorf("voxelworldd: %w", err)
	}
	defer log.Sync()

	if err := os.MkdirAll(flags.worldDir, 0o755); err != nil {
		return fmt.Errorf("voxelworldd: %w", err)
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = filepath.Join(flags.worldDir, "storage.yaml")
	}
	if err := storage.SaveDefault(configPath); err != nil {
		log.Warn("voxelworldd: could not write default storage config", zap.Error(err))
	}
	storageCfg, err := storage.LoadConfig(configPath, log)
	if err != nil {
		return fmt.Errorf("voxelworldd: %w", err)
	}
	if flags.storageFormat != "" {
		storageCfg.Format = storage.Format(flags.storageFormat)
	}
	if flags.saveStrategy != "" {
		storageCfg.SaveStrategy = storage.SaveStrategy(flags.saveStrategy)
	}
	if flags.autoSaveInterval > 0 {
		storageCfg.AutoSaveInterval = flags.autoSaveInterval.Seconds()
	} else {
		flags.autoSaveInterval = time.Duration(storageCfg.AutoSaveInterval * float64(time.Second))
	}
	if err := storageCfg.Validate(); err != nil {
		return fmt.Errorf("voxelworldd: %w", err)
	}

	store, err := storage.Open(storageCfg, flags.worldDir, log)
	if err != nil {
		return fmt.Errorf("voxelworldd: %w", err)
	}

	meta, seed, err := loadOrInitMeta(flags.worldDir, flags.seed)
	if err != nil {
		return fmt.Errorf("voxelworldd: %w", err)
	}

	registry := blockstate.NewStaticRegistry()
	generator := worldpkg.NewDefaultTerrainGenerator(worldpkg.DefaultSettings(), registry)
	clock := worldpkg.NewDayCycle(0.5, flags.dayLength)

	w := worldpkg.New(worldpkg.Config{
		Registry:     registry,
		Generator:    generator,
		Storage:      store,
		TimeProvider: clock,
		Seed:         seed,
		Workers:      flags.workers,
		Log:          log,
	})
	w.SetChunkActivationRange(flags.activationRange)
	w.SetPlayerPosition(0, 0, float64(worldpkg.ChunkSizeZ))

	log.Info("voxelworldd: starting",
		zap.String("world_dir", flags.worldDir),
		zap.Int64("seed", seed),
		zap.Int32("activation_range", flags.activationRange),
		zap.String("storage_format", string(storageCfg.Format)),
		zap.String("save_strategy", string(storageCfg.SaveStrategy)),
	)

	return runLoop(ctx, w, flags, meta, log)
}

// loadOrInitMeta reads world.xml if present, otherwise seeds a fresh
// Metadata from the CLI seed flag (falling back to the current time if
// that's zero too).
func loadOrInitMeta(worldDir string, flagSeed int64) (worldmeta.Metadata, int64, error) {
	meta, err := worldmeta.Load(worldDir)
	if err == nil {
		return meta, int64(meta.Seed), nil
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	meta = worldmeta.Metadata{
		Name:       filepath.Base(worldDir),
		Seed:       uint64(seed),
		Version:    1,
		LastPlayed: time.Now().UTC(),
	}
	return meta, seed, nil
}

// runLoop drives World.Update on a fixed-timestep ticker until ctx is
// cancelled or SIGINT/SIGTERM arrives, then saves and closes the world.
func runLoop(ctx context.Context, w *worldpkg.World, flags *serverFlags, meta worldmeta.Metadata, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tickInterval := time.Duration(float64(time.Second) / flags.tickRate)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	autoSave := time.NewTicker(time.Duration(float64(time.Second) * autoSaveSeconds(flags)))
	defer autoSave.Stop()

	dt := tickInterval.Seconds()
	for {
		select {
		case <-ctx.Done():
			log.Info("voxelworldd: shutting down")
			meta.LastPlayed = time.Now().UTC()
			if err := w.CloseWorld(flags.worldDir, meta); err != nil {
				return fmt.Errorf("voxelworldd: %w", err)
			}
			return nil
		case <-autoSave.C:
			meta.LastPlayed = time.Now().UTC()
			if err := w.SaveWorld(flags.worldDir, meta); err != nil {
				log.Error("voxelworldd: autosave failed", zap.Error(err))
			}
		case <-ticker.C:
			w.Update(dt)
		}
	}
}

func autoSaveSeconds(flags *serverFlags) float64 {
	if flags.autoSaveInterval > 0 {
		return flags.autoSaveInterval.Seconds()
	}
	return 300.0
}
