// Package assistant provides the support assistant application.
package assistant

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/support-assistant/internal/assistant/biz"
	"github.com/kart-io/support-assistant/internal/assistant/handler"
	"github.com/kart-io/support-assistant/internal/assistant/metrics"
	"github.com/kart-io/support-assistant/internal/assistant/router"
	"github.com/kart-io/support-assistant/internal/assistant/store"
	"github.com/kart-io/support-assistant/internal/pkg/crawler"
	"github.com/kart-io/support-assistant/internal/pkg/extract"
	"github.com/kart-io/support-assistant/pkg/infra/app"
	"github.com/kart-io/support-assistant/pkg/infra/server"
	"github.com/kart-io/support-assistant/pkg/llm"
	// 导入 LLM 供应商以自动注册
	_ "github.com/kart-io/support-assistant/pkg/llm/gemini"
	redisopts "github.com/kart-io/support-assistant/pkg/options/redis"
	apierrors "github.com/kart-io/support-assistant/pkg/utils/errors"
)

const (
	appName        = "support-assistant"
	appDescription = `Angel One Support Assistant

Answers customer questions from the Angel One support site and local documents.

This server provides:
  - Startup crawl of the support site and local pdf/txt/docx ingestion
  - Conversation-aware answers generated by Gemini
  - Conversation clearing, health and statistics endpoints`
)

// redisPingTimeout 启动时探测 Redis 的超时时间。
const redisPingTimeout = 3 * time.Second

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()
	return newApp(opts, func() error {
		return Run(opts)
	})
}

func newApp(opts *Options, run app.RunFunc) *app.App {
	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithEnvAlias("crawler.max-levels", "MAX_SCRAPE_LEVELS"),
		app.WithEnvAlias("chat.api-key", "GOOGLE_API_KEY"),
		app.WithEnvAlias("port", "PORT"),
		app.WithRunFunc(run),
	)
}

// Run runs the support assistant with the given options.
func Run(opts *Options) error {
	printBanner(opts)

	// 启动阶段（爬取）也需响应 SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 初始化日志
	if err := opts.Log.WithService(appName, app.GetVersion()).Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting support assistant...")

	// 2. 指标与事件上报
	assistantMetrics := metrics.New()
	reporter := biz.NewReporter(assistantMetrics)

	// 3. 初始化文档存储
	docStore, closeStore := newDocumentStore(ctx, opts.Store)
	defer closeStore()
	logger.Infow("Document store initialized", "backend", docStore.Backend())

	// 4. 初始化 LLM 供应商
	chatProvider, err := llm.NewChatProvider(opts.Chat.Provider, opts.Chat.ToConfigMap())
	if err != nil {
		return apierrors.ErrModelUnavailable.WithCause(err)
	}
	logger.Infow("Chat provider initialized",
		"provider", opts.Chat.Provider,
		"model", opts.Chat.Model,
	)

	// 5. 初始化爬虫与本地文档加载器
	siteCrawler := crawler.New(opts.CrawlerConfig(),
		crawler.WithPageHook(reporter.PageCrawled),
		crawler.WithPageErrorHook(reporter.PageFailed),
	)
	loader := extract.NewLoader(
		extract.WithChunkSize(opts.Knowledge.ChunkSize),
		extract.WithWorkers(opts.Knowledge.Workers),
		extract.WithErrorHook(reporter.FileFailed),
	)

	// 6. 初始化 Biz 层，首次启动时在此完成导入
	kb := biz.NewKnowledgeBase(docStore, siteCrawler, loader, &biz.KnowledgeConfig{
		SeedURL:   opts.Crawler.SeedURL,
		AssetsDir: opts.Knowledge.AssetsDir,
	}, reporter)
	answerService, err := biz.NewAnswerService(ctx, kb, biz.NewConversationLedger(), chatProvider, opts.AnswerConfig(), reporter)
	if err != nil {
		return fmt.Errorf("failed to initialize answer service: %w", err)
	}
	if ctx.Err() != nil {
		logger.Info("Startup interrupted, exiting")
		return nil
	}
	logger.Info("Answer service initialized")

	// 7. 初始化 Handler 层
	assistantHandler := handler.NewAssistantHandler(answerService, docStore, assistantMetrics)

	// 8. 初始化服务器
	serverManager := server.NewManager(
		server.WithHTTPOptions(opts.Server.HTTP),
		server.WithMiddleware(opts.Server.Middleware),
		server.WithShutdownTimeout(opts.Server.ShutdownTimeout),
	)

	// 9. 注册路由
	if err := router.Register(serverManager, assistantHandler); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	// 10. 启动服务器
	logger.Infow("Support assistant is ready", "addr", opts.Server.HTTP.Addr)
	return serverManager.Run(ctx)
}

// newDocumentStore 按配置创建存储。Redis 不可用时降级为内存存储。
func newDocumentStore(ctx context.Context, opts *StoreOptions) (store.DocumentStore, func()) {
	noop := func() {}
	if opts.Backend != store.BackendRedis {
		return store.NewMemoryStore(), noop
	}

	client := newRedisClient(opts.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnw("failed to connect to redis, falling back to memory store",
			"addr", opts.Redis.Addr(),
			"error", apierrors.ErrStoreUnavailable.WithCause(err).Error(),
		)
		_ = client.Close()
		return store.NewMemoryStore(), noop
	}

	s, err := store.New(store.BackendRedis, client, opts.KeyPrefix)
	if err != nil {
		logger.Warnw("failed to create redis store, falling back to memory store", "error", err.Error())
		_ = client.Close()
		return store.NewMemoryStore(), noop
	}
	logger.Infow("Redis document store connected", "addr", opts.Redis.Addr(), "key_prefix", opts.KeyPrefix)
	return s, func() { _ = client.Close() }
}

func newRedisClient(opts *redisopts.Options) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr(),
		Password:     opts.Password,
		DB:           opts.Database,
		MaxRetries:   opts.MaxRetries,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
}

func printBanner(opts *Options) {
	fmt.Printf("Starting %s on %s...\n", appName, opts.Server.HTTP.Addr)
}
