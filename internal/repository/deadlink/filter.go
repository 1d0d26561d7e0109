package deadlink

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/halcyon-media/imagery/internal/db"
	"github.com/halcyon-media/imagery/internal/domain"
)

const statusKeyPrefix = "status:"

// cache is the consumer interface for probe verdicts (ISP).
type cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config bounds the probe fan-out.
type Config struct {
	ProbeTimeout time.Duration
	CacheTTL     time.Duration
	MaxParallel  int
}

// Filter drops hits whose image URL no longer answers HTTP 200.
type Filter struct {
	cache  cache
	client *http.Client
	cfg    Config
	probes *prometheus.CounterVec
	logger *zap.Logger
}

// New creates a dead-link filter.
// probes is a counter vec with labels "verdict" ("live"/"dead") and
// "origin" ("cache"/"probe"), passed explicitly.
func New(c cache, cfg Config, probes *prometheus.CounterVec, logger *zap.Logger) *Filter {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 8
	}
	return &Filter{
		cache:  c,
		client: &http.Client{Timeout: cfg.ProbeTimeout},
		cfg:    cfg,
		probes: probes,
		logger: logger,
	}
}

// FilterDead returns the hits whose URL at the same position answers 200.
// Relative order of survivors is preserved. Probe failures count as dead.
func (f *Filter) FilterDead(ctx context.Context, hits []domain.Hit, urls []string) []domain.Hit {
	if len(hits) == 0 || len(hits) != len(urls) {
		return hits
	}

	statuses := make([]int, len(urls))
	sem := make(chan struct{}, f.cfg.MaxParallel)
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			statuses[i] = f.status(ctx, url)
		}(i, url)
	}
	wg.Wait()

	live := make([]domain.Hit, 0, len(hits))
	for i, h := range hits {
		if statuses[i] == http.StatusOK {
			live = append(live, h)
		}
	}
	return live
}

// status returns the cached verdict or probes the URL and caches the result.
func (f *Filter) status(ctx context.Context, url string) int {
	key := statusKeyPrefix + url

	data, err := f.cache.Get(ctx, key)
	if err == nil {
		if code, perr := strconv.Atoi(string(data)); perr == nil {
			f.incProbe(code, "cache")
			return code
		}
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		f.logger.Warn("Failed to read link status cache", zap.String("key", key), zap.Error(err))
	}

	code := f.probe(ctx, url)
	if ctx.Err() != nil {
		// The caller went away mid-probe; the failure says nothing about
		// the link, so it must not poison the cached verdict.
		return code
	}
	if err := f.cache.SetWithTTL(ctx, key, []byte(strconv.Itoa(code)), f.cfg.CacheTTL); err != nil {
		f.logger.Warn("Failed to cache link status", zap.String("key", key), zap.Error(err))
	}
	f.incProbe(code, "probe")
	return code
}

// probe HEADs the URL. Transport errors read as 500 so they cache and expire
// like any other dead verdict.
func (f *Filter) probe(ctx context.Context, url string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return http.StatusInternalServerError
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return http.StatusInternalServerError
	}
	resp.Body.Close()

	return resp.StatusCode
}

func (f *Filter) incProbe(code int, origin string) {
	if f.probes == nil {
		return
	}
	verdict := "dead"
	if code == http.StatusOK {
		verdict = "live"
	}
	f.probes.WithLabelValues(verdict, origin).Inc()
}
