package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/tayar/config"
	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/internal/service"
	"github.com/d60-Lab/tayar/pkg/logger"
)

var tracer = otel.Tracer("github.com/d60-Lab/tayar/internal/ingest")

const DefaultMaxItemsPerFeed = 10

// SourceReport 单个订阅源一次抓取的结果
type SourceReport struct {
	Name       string `json:"name"`
	Items      int    `json:"items"`
	Created    int    `json:"created"`
	Skipped    int    `json:"skipped"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`

	duration time.Duration
}

// Duration 抓取耗时
func (r SourceReport) Duration() time.Duration { return r.duration }

// RunReport 一次完整抓取的汇总
type RunReport struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Sources    []SourceReport `json:"sources"`
	Created    int            `json:"created"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
}

type Options struct {
	MaxItemsPerFeed  int
	PlaceholderImage string
}

// Pipeline 依次抓取配置的订阅源，把新条目写成文章
type Pipeline struct {
	store   *repository.Store
	fetcher Fetcher
	sources []config.FeedSource
	lock    RunLock
	opts    Options
	now     func() time.Time
}

func NewPipeline(store *repository.Store, fetcher Fetcher, sources []config.FeedSource, lock RunLock, opts Options) *Pipeline {
	if lock == nil {
		lock = NewLocalRunLock()
	}
	if opts.MaxItemsPerFeed <= 0 {
		opts.MaxItemsPerFeed = DefaultMaxItemsPerFeed
	}
	return &Pipeline{store: store, fetcher: fetcher, sources: sources, lock: lock, opts: opts, now: time.Now}
}

// Run 执行一次抓取。已有抓取在进行时先等它结束再跑本次。
// 单个源失败只记录在报告里，返回的 error 只来自锁或 ctx。
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	release, err := p.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire ingest lock: %w", err)
	}
	defer release()

	ctx, span := tracer.Start(ctx, "ingest.Run")
	defer span.End()

	report := &RunReport{StartedAt: p.now().UTC(), Sources: make([]SourceReport, 0, len(p.sources))}
	logger.Info("ingest run started", zap.Int("sources", len(p.sources)))

	for _, src := range p.sources {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		sr := p.runSource(ctx, src)
		report.Sources = append(report.Sources, sr)
		report.Created += sr.Created
		report.Skipped += sr.Skipped
		if sr.Error != "" {
			report.Failed++
		}
	}

	report.FinishedAt = p.now().UTC()
	span.SetAttributes(
		attribute.Int("ingest.created", report.Created),
		attribute.Int("ingest.failed", report.Failed),
	)
	logger.Info("ingest run finished",
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

func (p *Pipeline) runSource(ctx context.Context, src config.FeedSource) (sr SourceReport) {
	ctx, span := tracer.Start(ctx, "ingest.source", trace.WithAttributes(
		attribute.String("feed.name", src.Name),
		attribute.String("feed.url", src.URL),
	))
	start := time.Now()
	sr.Name = src.Name
	defer func() {
		sr.duration = time.Since(start)
		sr.DurationMs = sr.duration.Milliseconds()
		span.End()
	}()

	fail := func(stage string, err error) SourceReport {
		sr.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
		logger.Warn("ingest source failed",
			zap.String("source", src.Name),
			zap.String("stage", stage),
			zap.Error(err),
		)
		if !errors.Is(err, context.Canceled) {
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("feed", src.Name)
				scope.SetTag("stage", stage)
				sentry.CaptureException(err)
			})
		}
		return sr
	}

	logger.Debug("fetching feed", zap.String("source", src.Name), zap.String("url", src.URL))
	feed, err := p.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return fail("fetch", err)
	}

	var logo *string
	if src.LogoURL != "" {
		l := src.LogoURL
		logo = &l
	}
	source, err := p.store.Sources.GetOrCreate(ctx, src.Name, logo)
	if err != nil {
		return fail("source", err)
	}

	items := feed.Items
	if len(items) > p.opts.MaxItemsPerFeed {
		items = items[:p.opts.MaxItemsPerFeed]
	}
	sr.Items = len(items)

	// 首次真正新建文章时才解析标签
	var tagIDs []uint
	tagsResolved := false

	for _, item := range items {
		if item == nil {
			sr.Skipped++
			continue
		}
		entry, ok := Extract(item, p.opts.PlaceholderImage, p.now())
		if !ok {
			sr.Skipped++
			continue
		}
		exists, err := p.store.Articles.ExistsByURL(ctx, entry.URL)
		if err != nil {
			return fail("dedup", err)
		}
		if exists {
			sr.Skipped++
			continue
		}
		if !tagsResolved {
			tagIDs, err = service.EnsureTags(ctx, p.store.Tags, src.Tags)
			if err != nil {
				return fail("tags", err)
			}
			tagsResolved = true
		}

		article := &model.Article{
			Title:       entry.Title,
			Description: entry.Description,
			Content:     entry.Content,
			ImageURL:    entry.ImageURL,
			SourceID:    source.ID,
			URL:         entry.URL,
			PublishedAt: entry.PublishedAt,
			ReadTime:    entry.ReadTime,
		}
		created, err := p.store.Articles.CreateIfAbsent(ctx, article, tagIDs)
		if err != nil {
			return fail("store", err)
		}
		if !created {
			// 与其他写入方并发时 URL 已被占用
			sr.Skipped++
			continue
		}
		sr.Created++
		logger.Debug("article ingested",
			zap.String("source", src.Name),
			zap.Uint("id", article.ID),
			zap.String("title", article.Title),
		)
	}
	span.SetAttributes(attribute.Int("feed.created", sr.Created))
	return sr
}
