package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/cache"
	"github.com/hamidzr/stylefind/catalog"
	"github.com/hamidzr/stylefind/category"
	"github.com/hamidzr/stylefind/core"
	"github.com/hamidzr/stylefind/installed"
	"github.com/hamidzr/stylefind/internal/metrics"
	"github.com/hamidzr/stylefind/model"
	"github.com/hamidzr/stylefind/store"
)

// app holds the long lived collaborators built from the config. Parts are
// opened on first use so subcommands only touch what they need.
type app struct {
	cfg *model.Config

	store    store.Store
	cache    *cache.Cache
	registry *installed.Registry
}

func newApp(cfg *model.Config) *app {
	return &app{cfg: cfg}
}

func (a *app) openCache() (*cache.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	var st store.Store
	switch a.cfg.CacheBackend {
	case "memory":
		st = store.NewMemoryStore()
	default:
		sqlite, err := store.NewSQLiteStore(a.cfg.CachePath)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "opening cache store")
		}
		st = sqlite
	}
	c, err := cache.New(st, cache.Options{
		TTL:          a.cfg.CacheTTL,
		MaxBytes:     a.cfg.CacheMaxBytes,
		WriteDelay:   a.cfg.CacheWriteDelay,
		CleanupDelay: a.cfg.CacheCleanupDelay,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	a.store, a.cache = st, c
	return c, nil
}

func (a *app) openRegistry() (*installed.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}
	r, err := installed.Open(a.cfg.InstalledPath)
	if err != nil {
		return nil, err
	}
	a.registry = r
	return r, nil
}

func (a *app) client(c *cache.Cache) *catalog.Client {
	return catalog.NewClient(catalog.Options{
		BaseURL:   a.cfg.BaseURL,
		Timeout:   a.cfg.RequestTimeout,
		RateLimit: a.cfg.RateLimit,
		UserAgent: a.cfg.UserAgent,
		Cache:     c,
	})
}

func (a *app) resolver() *category.Resolver {
	return category.NewResolver(category.Options{
		SelfScheme: a.cfg.SelfScheme,
		SelfName:   a.cfg.SelfName,
	})
}

// sessionDeps wires everything a search session needs except its surface.
func (a *app) sessionDeps() (core.Deps, error) {
	c, err := a.openCache()
	if err != nil {
		return core.Deps{}, err
	}
	registry, err := a.openRegistry()
	if err != nil {
		return core.Deps{}, err
	}
	client := a.client(c)
	return core.Deps{
		Searcher:  client,
		Cache:     c,
		Resolver:  a.resolver(),
		Lookup:    registry,
		Events:    registry,
		Installer: core.NewInstaller(client, registry),
	}, nil
}

func (a *app) sessionOptions() core.SessionOptions {
	opts := core.DefaultSessionOptions()
	opts.PerPage = a.cfg.ItemsPerPage
	opts.FadeIn = a.cfg.FadeInThreshold
	return opts
}

// watchInstalled follows registry changes made by other processes.
func (a *app) watchInstalled(ctx context.Context) {
	if !a.cfg.WatchInstalled || a.registry == nil {
		return
	}
	go func() {
		if err := a.registry.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logrus.WithError(err).Warn("installed styles watcher stopped")
		}
	}()
}

// serveMetrics exposes Prometheus metrics until ctx is done.
func (a *app) serveMetrics(ctx context.Context) {
	if a.cfg.MetricsAddr == "" {
		return
	}
	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logrus.WithField("addr", a.cfg.MetricsAddr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Warn("metrics server stopped")
		}
	}()
}

func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logrus.WithError(err).Warn("closing cache")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logrus.WithError(err).Warn("closing cache store")
		}
	}
}
