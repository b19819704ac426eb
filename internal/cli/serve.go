package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pdrpinto/gridpath/internal/cache"
	"github.com/pdrpinto/gridpath/internal/metrics"
	"github.com/pdrpinto/gridpath/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	cacheTTL      time.Duration
	cacheSize     int
	maxSessions   int
	maxExpansions int
	maxCells      int
	sessionTTL    time.Duration
}

func newServeCommand(opts *globalOptions) *cobra.Command {
	so := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves one-shot searches on POST /v1/paths, step-by-step sessions on
/v1/sessions, and Prometheus metrics on /metrics. Results are cached in
memory, or in Redis when --redis-addr is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			collector, err := metrics.New(reg)
			if err != nil {
				return err
			}

			var resultCache cache.Cache = cache.NewMemory(so.cacheSize)
			if so.redisAddr != "" {
				redisCache := cache.NewRedis(so.redisAddr, so.redisPassword, so.redisDB, cache.WithTTL(so.cacheTTL))
				defer redisCache.Close()
				if err := redisCache.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("failed to reach redis at %s: %w", so.redisAddr, err)
				}
				resultCache = redisCache
			}

			srv := server.New(
				server.WithLogger(logger),
				server.WithCache(resultCache),
				server.WithObserver(collector),
				server.WithGatherer(reg),
				server.WithMaxSessions(so.maxSessions),
				server.WithMaxExpansions(so.maxExpansions),
				server.WithMaxCells(so.maxCells),
				server.WithSessionTTL(so.sessionTTL),
			)

			ln, err := net.Listen("tcp", so.addr)
			if err != nil {
				return err
			}
			httpServer := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", ln.Addr().String())
				serverErrors <- httpServer.Serve(ln)
			}()

			// Channel to listen for interrupt or terminate signals.
			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case sig := <-shutdown:
				logger.Info("shutting down", "signal", sig.String())

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(ctx); err != nil {
					logger.Error("graceful shutdown did not complete", "error", err)
					return httpServer.Close()
				}
				return nil
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&so.addr, "addr", "a", ":8080", "Address to listen on")
	flags.StringVar(&so.redisAddr, "redis-addr", "", "Redis address for the shared result cache")
	flags.StringVar(&so.redisPassword, "redis-password", "", "Redis password")
	flags.IntVar(&so.redisDB, "redis-db", 0, "Redis database")
	flags.DurationVar(&so.cacheTTL, "cache-ttl", time.Hour, "Expiry for results cached in Redis (0 = never)")
	flags.IntVar(&so.cacheSize, "cache-size", 1024, "Entries kept by the in-memory cache")
	flags.IntVar(&so.maxSessions, "max-sessions", 256, "Live step sessions allowed (0 = unlimited)")
	flags.IntVar(&so.maxExpansions, "max-expansions", 0, "Abort one-shot searches after this many expansions (0 = unlimited)")
	flags.IntVar(&so.maxCells, "max-cells", server.DefaultMaxCells, "Largest width x height a request may describe (0 = only the library limit)")
	flags.DurationVar(&so.sessionTTL, "session-ttl", server.DefaultSessionTTL, "Drop step sessions idle for this long (0 = never)")
	return cmd
}
