package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samvad-hq/coinbase-public/internal/config"
	"github.com/samvad-hq/coinbase-public/internal/logger"
	"github.com/samvad-hq/coinbase-public/internal/metrics"
	"github.com/samvad-hq/coinbase-public/internal/poller"
	"github.com/samvad-hq/coinbase-public/internal/storage"
	"github.com/samvad-hq/coinbase-public/pkg/coinbase"
	"github.com/samvad-hq/coinbase-public/pkg/httpclient"
	"github.com/samvad-hq/coinbase-public/pkg/publishers"
	"github.com/samvad-hq/coinbase-public/pkg/watchlist"
)

// Quoter is the price polling runtime. It owns the store and the publisher
// clients and releases both when Run returns.
type Quoter struct {
	cfg          *config.Config
	watches      *watchlist.Registry
	publishers   []publishers.Publisher
	fanout       *publishers.Fanout
	poller       *poller.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewQuoter builds a quoter from config files. Metrics are registered on reg
// when it is non-nil.
func NewQuoter(ctx context.Context, cfg *config.Config, log logger.Logger, reg prometheus.Registerer) (*Quoter, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	watches, err := watchlist.LoadRegistry(cfg.WatchlistFile)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	enabledWatches := watches.Enabled()
	pairs := make([]string, 0, len(enabledWatches))
	for _, w := range enabledWatches {
		pairs = append(pairs, w.Pair)
	}
	log.InfoObj("watchlist loaded", "watchlist_meta", map[string]any{
		"count": len(pairs),
		"pairs": pairs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, errors.New("no publishers configured")
	}
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	summaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		QuoteTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), publishers.CloseAll(pubs))
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"quote_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client := coinbase.NewPublic(cfg.APIURL,
		coinbase.WithHTTPClient(httpclient.NewRestyClient(cfg.HTTPTimeout)),
		coinbase.WithLogger(log),
	)
	fanout := publishers.NewFanout(pubs, log)

	return &Quoter{
		cfg:          cfg,
		watches:      watches,
		publishers:   pubs,
		fanout:       fanout,
		poller:       poller.NewService(client, fanout, store, metrics.NewPollMetrics(reg), log),
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run polls immediately and then on every interval until ctx is cancelled.
func (q *Quoter) Run(ctx context.Context) error {
	if q == nil || q.poller == nil {
		return errors.New("quoter is not initialized")
	}
	defer q.close()

	watches := q.watches.Enabled()
	if len(watches) == 0 {
		q.log.WarnObj("no enabled watches; quoter idle", "watchlist_file", q.cfg.WatchlistFile)
		<-ctx.Done()
		return nil
	}

	q.log.InfoObj("quoter loop starting", "quoter_state", map[string]any{
		"watches_count":    len(watches),
		"publishers_count": q.fanout.Size(),
		"poll_interval":    q.pollInterval.String(),
		"api_url":          q.cfg.APIURL,
	})

	if err := q.runOnce(ctx, watches); err != nil {
		q.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(q.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			q.log.InfoObj("quoter loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := q.runOnce(ctx, watches); err != nil {
				q.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

func (q *Quoter) runOnce(ctx context.Context, watches []watchlist.Watch) error {
	start := time.Now()
	if err := q.poller.Run(ctx, watches); err != nil {
		return err
	}
	q.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"watches_count": len(watches),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

func (q *Quoter) close() {
	if err := publishers.CloseAll(q.publishers); err != nil {
		q.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if q.store == nil {
		return
	}
	if err := q.store.Close(); err != nil {
		q.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
