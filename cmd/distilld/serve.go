package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/htmltomarkdown"
	distillhttp "github.com/fwojciec/distill/http"
	"github.com/fwojciec/distill/pipeline"
	"github.com/fwojciec/distill/readability"
	"github.com/fwojciec/distill/rod"
	distillslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/sqlite"
	"github.com/fwojciec/distill/trafilatura"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command: it wires the full pipeline behind the
// HTTP server and blocks until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: level}))

	fc, err := LoadFileConfig(c.Config)
	if err != nil {
		return err
	}
	cfg, err := fc.Apply(distill.DefaultConfig())
	if err != nil {
		return err
	}
	if c.Capacity > 0 {
		cfg.PoolCapacity = c.Capacity
	}

	addr := c.Addr
	if fc.Addr != "" && c.Addr == ":8080" {
		addr = fc.Addr
	}
	engine := c.Engine
	if engine == "" {
		engine = fc.Engine
	}
	cachePath := c.Cache
	if cachePath == "" {
		cachePath = fc.CachePath
	}
	rps, burst := c.RPS, 1
	if rps == 0 {
		rps, burst = fc.RateLimit.RPS, fc.RateLimit.Burst
	}
	if burst < 1 {
		burst = 1
	}

	extractor, err := newExtractor(engine, cfg)
	if err != nil {
		return err
	}

	var pool distill.SessionPool = rod.NewPool(cfg.PoolCapacity)
	pool = rod.NewLoggingPool(pool, logger)
	defer pool.Close()

	p := &pipeline.Pipeline{
		Extractor:      distillslog.NewLoggingExtractor(extractor, logger),
		Converter:      distillslog.NewLoggingConverter(htmltomarkdown.NewConverter(), logger),
		Sessions:       pool,
		Fetcher:        distillhttp.NewFetcher(),
		AcquireTimeout: cfg.AcquireTimeout,
		RenderTimeout:  cfg.RenderTimeout,
	}

	if cachePath != "" {
		db := sqlite.NewDB(cachePath)
		if err := db.Open(); err != nil {
			return fmt.Errorf("opening cache at %q: %w", cachePath, err)
		}
		defer db.Close()
		p.Cache = sqlite.NewExtractionCache(db)
	}

	srv := distillhttp.NewServer(
		distillslog.NewLoggingService(p, logger),
		distillhttp.WithAddr(addr),
		distillhttp.WithPool(pool),
		distillhttp.WithLogger(logger),
		distillhttp.WithRateLimit(rps, burst),
	)
	if err := srv.Open(); err != nil {
		return fmt.Errorf("starting server on %q: %w", addr, err)
	}

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.Close()
	})

	return g.Wait()
}

// newExtractor selects the extraction engine. The heuristic engine is the
// default and the only one that produces locators.
func newExtractor(engine string, cfg distill.Config) (distill.Extractor, error) {
	switch engine {
	case "", "heuristic":
		return goquery.NewExtractor(cfg), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	case "readability":
		return readability.NewExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}
