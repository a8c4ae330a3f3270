package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/tayar/config"
	"github.com/d60-Lab/tayar/internal/ingest"
	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/pkg/database"
	"github.com/d60-Lab/tayar/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// 一次性抓取全部订阅源；ROUNDS>1 时重复执行，输出每个源的耗时分位
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := must(database.InitDB(cfg))
	defer func() { _ = database.Close(db) }()
	store := repository.NewStore(db)

	ctx := context.Background()
	lock, closeLock, err := ingest.NewRunLockFromConfig(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = closeLock() }()

	rounds := 1
	if s := os.Getenv("ROUNDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			rounds = n
		}
	}

	p := ingest.NewPipeline(
		store,
		ingest.NewHTTPFetcher(cfg.Ingest.UserAgent, cfg.Ingest.FetchTimeout),
		cfg.Feeds,
		lock,
		ingest.Options{MaxItemsPerFeed: cfg.Ingest.MaxItemsPerFeed, PlaceholderImage: cfg.Ingest.PlaceholderImage},
	)

	perSource := map[string][]time.Duration{}
	failures := map[string]int{}
	created := 0
	t0 := time.Now()
	for i := 0; i < rounds; i++ {
		report, err := p.Run(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "round %d: %v\n", i+1, err)
			os.Exit(1)
		}
		created += report.Created
		for _, sr := range report.Sources {
			perSource[sr.Name] = append(perSource[sr.Name], sr.Duration())
			if sr.Error != "" {
				failures[sr.Name]++
				fmt.Printf("round %d: %s failed: %s\n", i+1, sr.Name, sr.Error)
			}
		}
	}
	total := time.Since(t0)

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		if k >= len(xs) {
			k = len(xs) - 1
		}
		return xs[k]
	}

	count := must(store.Articles.Count(ctx))
	fmt.Printf("ROUNDS=%d, sources=%d, created=%d, stored=%d, total=%v\n", rounds, len(cfg.Feeds), created, count, total)
	for _, src := range cfg.Feeds {
		ds := perSource[src.Name]
		fmt.Printf("%-20s p50=%v p95=%v max=%v failed=%d/%d\n",
			src.Name, pct(ds, 0.50), pct(ds, 0.95), pct(ds, 1), failures[src.Name], len(ds))
	}
}
