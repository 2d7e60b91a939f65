package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrInvalidSeed 种子 URL 无法解析或缺少协议与主机。
var ErrInvalidSeed = errors.New("invalid seed url")

// Config 爬虫配置。
type Config struct {
	// PathMarker 发现的链接路径必须包含的子串
	PathMarker string
	// MaxLevels 种子之后的最大抓取层数
	MaxLevels int
	// Delay 每个页面抓取前的等待时间
	Delay time.Duration
	// Timeout 单次 HTTP 请求超时
	Timeout time.Duration
	// UserAgent 请求头 User-Agent
	UserAgent string
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		PathMarker: "/support",
		MaxLevels:  5,
		Delay:      500 * time.Millisecond,
		Timeout:    30 * time.Second,
		UserAgent:  "Mozilla/5.0 (compatible; SupportAssistant/1.0)",
	}
}

// PageHook 在每个页面处理完成后调用。
type PageHook func(pageURL string, level int, blocks int)

// Option 配置 Crawler。
type Option func(*Crawler)

// WithPageErrorHook 设置单页失败回调。
func WithPageErrorHook(hook PageErrorHook) Option {
	return func(c *Crawler) {
		c.onPageError = hook
	}
}

// WithPageHook 设置页面完成回调。
func WithPageHook(hook PageHook) Option {
	return func(c *Crawler) {
		c.onPage = hook
	}
}

// Crawler 以广度优先方式按层抓取站点。
type Crawler struct {
	cfg         *Config
	scraper     *Scraper
	onPageError PageErrorHook
	onPage      PageHook
}

// New 创建 Crawler。
func New(cfg *Config, opts ...Option) *Crawler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Crawler{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	c.scraper = NewScraper(cfg, c.reportPage)
	return c
}

// Crawl 从种子开始逐层抓取，返回所有页面的文本块。
// 单页失败被吞掉并上报；只有种子非法或上下文取消才返回错误，此时同时返回已收集的内容。
func (c *Crawler) Crawl(ctx context.Context, seed string) ([]string, error) {
	if u, err := url.Parse(seed); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	visited := map[string]bool{seed: true}
	content, frontier := c.visit(ctx, seed, 0, visited)

	for level := 1; len(frontier) > 0 && level <= c.cfg.MaxLevels; level++ {
		var next []string
		queued := make(map[string]bool)

		for _, link := range frontier {
			if visited[link] {
				continue
			}
			if err := sleepContext(ctx, c.cfg.Delay); err != nil {
				return content, err
			}
			visited[link] = true

			blocks, links := c.visit(ctx, link, level, visited)
			content = append(content, blocks...)
			for _, l := range links {
				if !queued[l] {
					queued[l] = true
					next = append(next, l)
				}
			}
		}

		frontier = next
	}

	if err := ctx.Err(); err != nil {
		return content, err
	}
	return content, nil
}

// visit 抓取一次页面，同时提取文本块与未访问过的链接。
func (c *Crawler) visit(ctx context.Context, pageURL string, level int, visited map[string]bool) ([]string, []string) {
	base, err := url.Parse(pageURL)
	if err != nil {
		c.reportPage(pageURL, err)
		return nil, nil
	}
	doc, err := c.scraper.fetch(ctx, pageURL)
	if err != nil {
		c.reportPage(pageURL, err)
		return nil, nil
	}

	blocks := extractBlocks(doc)
	var links []string
	for _, l := range extractLinks(doc, base, c.cfg.PathMarker) {
		if !visited[l] {
			links = append(links, l)
		}
	}

	if c.onPage != nil {
		c.onPage(pageURL, level, len(blocks))
	}
	return blocks, links
}

func (c *Crawler) reportPage(pageURL string, err error) {
	if c.onPageError != nil {
		c.onPageError(pageURL, err)
	}
}
