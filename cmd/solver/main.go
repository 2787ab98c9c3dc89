// Command solver assesses a run of seeded deals and reports which can be won.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"solitaire/internal/app"
	"solitaire/internal/config"
	"solitaire/internal/ports"
	"solitaire/internal/ports/redis"
	"solitaire/internal/solver"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("solver failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return err
	}
	strategy, err := solver.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var verdicts ports.VerdictPort
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		verdicts = redis.NewVerdictStore(client, 0)
		logger.Info("caching verdicts in redis", zap.String("addr", cfg.RedisAddr))
	}

	svc := app.NewService(nil, app.SolverSettings{Strategy: strategy, Iterations: cfg.Iterations}, verdicts)
	logger.Info("assessing deals",
		zap.Int("deals", cfg.Deals),
		zap.Uint64("first_seed", cfg.FirstSeed),
		zap.String("strategy", string(strategy)),
		zap.Int("iterations", cfg.Iterations),
	)

	counts := make(map[string]int)
	started := time.Now()
	for i := 0; i < cfg.Deals; i++ {
		if ctx.Err() != nil {
			logger.Warn("interrupted", zap.Int("assessed", i))
			break
		}
		seed := cfg.FirstSeed + uint64(i)
		dealStarted := time.Now()
		v, err := svc.AssessDeal(ctx, seed)
		if err != nil {
			return err
		}
		counts[v.Verdict]++
		logger.Info("deal assessed",
			zap.Uint64("seed", seed),
			zap.String("verdict", v.Verdict),
			zap.Int("depth", v.Depth),
			zap.Int("expanded", v.Expanded),
			zap.Duration("elapsed", time.Since(dealStarted)),
		)
	}

	logger.Info("summary",
		zap.Int(solver.Winable.String(), counts[solver.Winable.String()]),
		zap.Int(solver.Lost.String(), counts[solver.Lost.String()]),
		zap.Int(solver.Unknown.String(), counts[solver.Unknown.String()]),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}
