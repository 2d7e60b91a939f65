// Package biz 实现客服助手的业务逻辑：知识库装配、会话账本与问答服务。
package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/internal/assistant/store"
)

// FallbackContent 整体导入失败时写入存储的兜底文本。
var FallbackContent = []string{
	"Angel One offers online trading services.",
	"Trading hours for NSE and BSE are 9:15 AM to 3:30 PM.",
	"You can open a demat account through our website.",
}

// contextQuery 查询存储时使用的占位词。
const contextQuery = "all"

// Crawler 抓取站点文本块。
type Crawler interface {
	Crawl(ctx context.Context, seed string) ([]string, error)
}

// Loader 加载本地文档目录的文本块。
type Loader interface {
	LoadDir(ctx context.Context, dir string) []string
}

// KnowledgeConfig 知识库配置。
type KnowledgeConfig struct {
	// SeedURL 爬取起始地址
	SeedURL string
	// AssetsDir 本地文档目录
	AssetsDir string
}

// Context 启动时装配的回答上下文。
type Context struct {
	// Documents 本地文档文本
	Documents string
	// Web 存储中全部文本块以空格拼接
	Web string
}

// Empty 两部分均为空。
func (c *Context) Empty() bool {
	return c.Documents == "" && c.Web == ""
}

// KnowledgeBase 负责首次导入并装配上下文。
type KnowledgeBase struct {
	store    store.DocumentStore
	crawler  Crawler
	loader   Loader
	config   *KnowledgeConfig
	reporter *Reporter
}

// NewKnowledgeBase 创建知识库。
func NewKnowledgeBase(s store.DocumentStore, crawler Crawler, loader Loader, cfg *KnowledgeConfig, reporter *Reporter) *KnowledgeBase {
	if cfg == nil {
		cfg = &KnowledgeConfig{}
	}
	if reporter == nil {
		reporter = NewReporter(nil)
	}
	return &KnowledgeBase{
		store:    s,
		crawler:  crawler,
		loader:   loader,
		config:   cfg,
		reporter: reporter,
	}
}

// Assemble 存储为空时先导入，然后读取全部内容装配上下文。
// 各部分失败只会被上报并留空，不会返回错误。
func (kb *KnowledgeBase) Assemble(ctx context.Context) *Context {
	count, err := kb.store.Count(ctx)
	if err != nil {
		kb.reporter.ContextFailed("count", err)
	}
	if err == nil && count == 0 {
		logger.Info("Collection is empty. Scraping and processing documents...")
		kb.ingest(ctx)
	}

	out := &Context{}

	docs, err := kb.store.LocalDocuments(ctx)
	if err != nil {
		kb.reporter.ContextFailed("documents", err)
	} else {
		out.Documents = docs
	}

	web, err := kb.loadWeb(ctx)
	if err != nil {
		kb.reporter.ContextFailed("web", err)
	} else {
		out.Web = web
	}

	logger.Infow("Knowledge context assembled",
		"documents_chars", len(out.Documents),
		"web_chars", len(out.Web),
	)
	return out
}

func (kb *KnowledgeBase) loadWeb(ctx context.Context) (string, error) {
	count, err := kb.store.Count(ctx)
	if err != nil {
		return "", err
	}
	chunks, err := kb.store.Query(ctx, contextQuery, count)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		logger.Info("No documents found in collection")
		return "", nil
	}
	logger.Infow("Loaded documents into complete context", "count", len(chunks))
	return strings.Join(chunks, " "), nil
}

// ingest 抓取站点、加载本地文档并写入存储；任一步失败则写入兜底内容。
// 启动被取消时不写兜底内容，持久化存储保持为空，下次启动重新导入。
func (kb *KnowledgeBase) ingest(ctx context.Context) {
	if err := kb.runIngest(ctx); err != nil {
		kb.reporter.IngestFailed(err)
		if ctx.Err() != nil {
			logger.Warnw("Ingest interrupted, fallback content not stored", "error", ctx.Err().Error())
			return
		}
		added, addErr := kb.store.Add(ctx, FallbackContent)
		if addErr != nil {
			kb.reporter.ContextFailed("fallback", addErr)
			return
		}
		kb.reporter.FallbackLoaded(added)
	}
}

func (kb *KnowledgeBase) runIngest(ctx context.Context) error {
	var blocks []string
	if kb.crawler != nil {
		var err error
		blocks, err = kb.crawler.Crawl(ctx, kb.config.SeedURL)
		if err != nil {
			return fmt.Errorf("crawl %s: %w", kb.config.SeedURL, err)
		}
		logger.Infow("Site crawl finished", "seed", kb.config.SeedURL, "blocks", len(blocks))
	}

	if kb.loader != nil && kb.config.AssetsDir != "" {
		local := kb.loader.LoadDir(ctx, kb.config.AssetsDir)
		if len(local) > 0 {
			if err := kb.store.SetLocalDocuments(ctx, strings.Join(local, " ")); err != nil {
				return fmt.Errorf("store local documents: %w", err)
			}
			logger.Infow("Added local document chunks", "count", len(local))
		}
	}

	if len(blocks) > 0 {
		added, err := kb.store.Add(ctx, blocks)
		if err != nil {
			return fmt.Errorf("store crawled blocks: %w", err)
		}
		kb.reporter.ChunksStored(added)
		logger.Infow("Added web-scraped documents", "count", added)
	}

	return ctx.Err()
}
