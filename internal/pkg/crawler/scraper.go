// Package crawler 抓取支持站点页面，提取文本块并按层级发现同站点链接。
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	// blockSelector 参与文本提取的元素
	blockSelector = "h1, h2, h3, h4, h5, h6, p, article, section"

	// minBlockLen 文本块去除首尾空白后的最小长度（不含）
	minBlockLen = 20
)

// PageErrorHook 接收单页抓取失败；失败页面视为无内容。
type PageErrorHook func(pageURL string, err error)

// Scraper 负责单个页面的抓取、文本提取与链接发现。
type Scraper struct {
	client     *resty.Client
	pathMarker string
	onError    PageErrorHook
}

// NewScraper 创建 Scraper。
func NewScraper(cfg *Config, onError PageErrorHook) *Scraper {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Scraper{
		client:     client,
		pathMarker: cfg.PathMarker,
		onError:    onError,
	}
}

// ScrapePage 返回页面中长度超过阈值的文本块，失败时返回空列表。
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) []string {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		s.report(pageURL, err)
		return nil
	}
	return extractBlocks(doc)
}

// DiscoverLinks 返回页面中同主机且路径包含标记的去重链接，失败时返回空列表。
func (s *Scraper) DiscoverLinks(ctx context.Context, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		s.report(pageURL, err)
		return nil
	}
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		s.report(pageURL, err)
		return nil
	}
	return extractLinks(doc, base, s.pathMarker)
}

// fetch 执行一次 GET（不重试）并解析为 HTML 文档。
// 非 2xx 响应的正文照常解析，只有传输错误和解析错误算作失败。
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func (s *Scraper) report(pageURL string, err error) {
	if s.onError != nil {
		s.onError(pageURL, err)
	}
}

// extractBlocks 按文档顺序返回匹配元素的文本，嵌套匹配各自计入。
func extractBlocks(doc *goquery.Document) []string {
	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len([]rune(text)) > minBlockLen {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

// extractLinks 解析 a[href]。以 "/" 开头的链接按 base 的协议与主机补全。
func extractLinks(doc *goquery.Document, base *url.URL, marker string) []string {
	var links []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)

		switch {
		case strings.HasPrefix(href, "//"):
			href = base.Scheme + ":" + href
		case strings.HasPrefix(href, "/"):
			href = base.Scheme + "://" + base.Host + href
		}

		link, err := url.Parse(href)
		if err != nil || link.Host != base.Host {
			return
		}
		if !strings.Contains(link.Path, marker) {
			return
		}
		if !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})

	return links
}

// sleepContext 等待 d 或上下文结束。
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
