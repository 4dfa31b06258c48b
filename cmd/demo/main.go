package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/comalice/slicestore"
	"github.com/comalice/slicestore/internal/config"
	"github.com/comalice/slicestore/internal/extensibility"
	"github.com/comalice/slicestore/internal/logging"
	"github.com/comalice/slicestore/internal/metrics"
	"github.com/comalice/slicestore/internal/production"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	instr := metrics.NewStoreMetrics(reg)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(reg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	b := slicestore.NewStoreBuilder(cfg.StoreID).
		Slice("numeros").Static(map[string]any{"min": 1, "max": 10}).
		Slice("nomes").Static([]any{"Ana", "Bia", "Carlos"}).
		Slice("count").Initial(0).Reducer(countReducer).Only("INC", "DEC").Logged(logger).
		Slice("text").Initial("Context API + Hooks").Settable().
		Store()
	if cfg.SeedFile != "" {
		seed, err := production.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		b.Seed(seed)
	}

	changes := make(chan slicestore.Change, 100)
	pub := production.NewChannelPublisher(changes)
	store, err := b.Build(
		slicestore.WithLogger(logger),
		slicestore.WithInstrumentation(instr),
		slicestore.WithPublisher(pub),
	)
	if err != nil {
		return err
	}

	sub := store.Subscribe(func(ctx context.Context, snap slicestore.Snapshot) error {
		count, _ := snap.Get("count")
		fmt.Printf("--- v%d --- count=%v\n", snap.Version(), count)
		return nil
	})
	defer sub.Unsubscribe()

	published := make(chan struct{})
	go func() {
		defer close(published)
		for c := range changes {
			logger.Debug("published", zap.String("action", c.Action.Type), zap.Uint64("version", c.Snapshot.Version()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = slicestore.WithProvider(ctx, store)

	if err := runScenario(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	store.Close()
	<-published
	if n := pub.Dropped(); n > 0 {
		logger.Warn("changes dropped", zap.Uint64("count", n))
	}
	return export(os.Stdout, cfg.ExportFormat, store)
}

// runScenario ticks the counter, then updates the text through the provider.
func runScenario(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	p := slicestore.MustProvider(ctx)

	tickCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Ticks)*cfg.TickInterval+cfg.TickInterval/2)
	defer cancel()
	src := extensibility.NewTimerActionSource(nil, slicestore.NewAction("INC", nil), cfg.TickInterval)
	defer src.Stop()
	if err := extensibility.Pump(tickCtx, p, src, logger); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err := ctx.Err(); err != nil {
		fmt.Println("\nShutting down gracefully...")
		return err
	}

	_, err := slicestore.Setter(p, "text")(ctx, fmt.Sprintf("ticked %d times", cfg.Ticks))
	return err
}

func export(w *os.File, format string, store *slicestore.Store) error {
	var ex production.Exporter
	snap := store.Snapshot()
	switch strings.ToLower(format) {
	case "yaml":
		data, err := ex.ExportYAML(snap)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "dot":
		_, err := fmt.Fprintln(w, ex.ExportDOT(store.ID(), snap))
		return err
	default:
		data, err := ex.ExportJSON(snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}

// countReducer accepts int or float64 state so JSON seeds work.
func countReducer(_ context.Context, state any, action slicestore.Action) (any, error) {
	var n int
	switch v := state.(type) {
	case int:
		n = v
	case float64:
		n = int(v)
	case nil:
	default:
		return nil, fmt.Errorf("count: %w: %T", slicestore.ErrSliceType, state)
	}
	switch action.Type {
	case "INC":
		return n + 1, nil
	case "DEC":
		return n - 1, nil
	}
	return state, nil
}
