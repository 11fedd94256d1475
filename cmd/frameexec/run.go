package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/frameexec/api"
	"github.com/momentics/frameexec/facade"
	"github.com/momentics/frameexec/internal/config"
)

const statsInterval = time.Second

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a particle world, one blocking computation per frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.Configuration) error {
	runID := uuid.New().String()
	log := zap.S().Named("run").With("run_id", runID)
	log.Infow("starting frame loop", "config", cfg.DebugMap())

	fx, err := facade.New(&facade.Config{
		Threads:     cfg.Threads,
		PinThreads:  cfg.PinThreads,
		StatsWindow: cfg.StatsWindow,
		Logger:      zap.S(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = fx.Shutdown() }()

	w := newWorld(cfg.Entities, cfg.ChunkSize, uint64(time.Now().UnixNano()))
	frames := make(chan frameResult, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(frames)
		return frameLoop(ctx, fx, w, cfg, frames)
	})
	g.Go(func() error {
		return report(ctx, fx, log, frames)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fx.PublishStats()
	log.Infow("frame loop finished", "stats", fx.GetControl().Stats())
	return nil
}

// frameLoop runs one ExecuteBlocking per frame, paced to the configured rate.
func frameLoop(ctx context.Context, exec api.Executor, w *world, cfg *config.Configuration, out chan<- frameResult) error {
	dt := 1.0 / 60
	var tick <-chan time.Time
	if cfg.FrameRate > 0 {
		dt = 1.0 / float64(cfg.FrameRate)
		t := time.NewTicker(time.Second / time.Duration(cfg.FrameRate))
		defer t.Stop()
		tick = t.C
	}

	for frame := 0; cfg.Frames == 0 || frame < cfg.Frames; frame++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		var r frameResult
		exec.ExecuteBlocking(api.ComputationFunc(func() {
			r = w.step(exec, dt)
		}))

		// The reporter only needs the most recent frame.
		select {
		case out <- r:
		default:
		}
	}
	return nil
}

// report logs the rolling frame statistics once per interval.
func report(ctx context.Context, fx *facade.FrameExec, log *zap.SugaredLogger, frames <-chan frameResult) error {
	t := time.NewTicker(statsInterval)
	defer t.Stop()

	var last frameResult
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-frames:
			if !ok {
				return nil
			}
			last = r
		case <-t.C:
			fx.PublishStats()
			stats := fx.GetControl().Stats()
			log.Infow("frame stats",
				"frames", stats["frame.count"],
				"mean", stats["frame.mean"],
				"max", stats["frame.max"],
				"energy", last.energy,
				"bounces", last.bounces,
				"helper_indices", stats["executor.helper_indices"],
			)
		}
	}
}
