package assistant

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/support-assistant/internal/assistant/biz"
	"github.com/kart-io/support-assistant/internal/assistant/store"
	"github.com/kart-io/support-assistant/internal/pkg/crawler"
	"github.com/kart-io/support-assistant/internal/pkg/extract"
	llmopts "github.com/kart-io/support-assistant/pkg/options/llm"
	logopts "github.com/kart-io/support-assistant/pkg/options/logger"
	redisopts "github.com/kart-io/support-assistant/pkg/options/redis"
	serveropts "github.com/kart-io/support-assistant/pkg/options/server"
	"github.com/kart-io/support-assistant/pkg/validator"
)

// Options contains all support assistant options.
type Options struct {
	// Server contains HTTP server and middleware configuration.
	Server *serveropts.Options `json:"server" mapstructure:"server"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Chat contains generative model configuration.
	Chat *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// Crawler contains support site crawl configuration.
	Crawler *CrawlerOptions `json:"crawler" mapstructure:"crawler"`

	// Knowledge contains local document configuration.
	Knowledge *KnowledgeOptions `json:"knowledge" mapstructure:"knowledge"`

	// Answer contains prompt configuration.
	Answer *AnswerOptions `json:"answer" mapstructure:"answer"`

	// Store contains document store configuration.
	Store *StoreOptions `json:"store" mapstructure:"store"`

	// Port overrides the listen port of server.http.addr when positive.
	Port int `json:"port" mapstructure:"port"`
}

// CrawlerOptions 爬虫配置。
type CrawlerOptions struct {
	SeedURL    string        `json:"seed-url" mapstructure:"seed-url" validate:"httpurl"`
	PathMarker string        `json:"path-marker" mapstructure:"path-marker" validate:"notblank"`
	MaxLevels  int           `json:"max-levels" mapstructure:"max-levels" validate:"gte=0"`
	Delay      time.Duration `json:"delay" mapstructure:"delay" validate:"gte=0"`
	Timeout    time.Duration `json:"timeout" mapstructure:"timeout" validate:"gt=0"`
	UserAgent  string        `json:"user-agent" mapstructure:"user-agent"`
}

// KnowledgeOptions 本地文档配置。
type KnowledgeOptions struct {
	// AssetsDir 本地文档目录，不存在时忽略
	AssetsDir string `json:"assets-dir" mapstructure:"assets-dir"`
	// ChunkSize 文本块字符数
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size" validate:"gt=0"`
	// Workers 并发提取数
	Workers int `json:"workers" mapstructure:"workers" validate:"gt=0"`
}

// AnswerOptions 提示渲染配置。
type AnswerOptions struct {
	SupportURL         string `json:"support-url" mapstructure:"support-url" validate:"httpurl"`
	MaxHistoryMessages int    `json:"max-history-messages" mapstructure:"max-history-messages" validate:"gte=0"`
	MaxContextChars    int    `json:"max-context-chars" mapstructure:"max-context-chars" validate:"gte=0"`
}

// StoreOptions 文档存储配置。
type StoreOptions struct {
	Backend   string             `json:"backend" mapstructure:"backend" validate:"oneof=memory redis"`
	KeyPrefix string             `json:"key-prefix" mapstructure:"key-prefix"`
	Redis     *redisopts.Options `json:"redis" mapstructure:"redis" validate:"-"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	serverOpts := serveropts.NewOptions()
	serverOpts.HTTP.Addr = ":8000"

	crawlerDefaults := crawler.DefaultConfig()

	return &Options{
		Server: serverOpts,
		Log:    logopts.NewOptions(),
		Chat:   llmopts.NewProviderOptions(),
		Crawler: &CrawlerOptions{
			SeedURL:    biz.DefaultSupportURL,
			PathMarker: crawlerDefaults.PathMarker,
			MaxLevels:  crawlerDefaults.MaxLevels,
			Delay:      crawlerDefaults.Delay,
			Timeout:    crawlerDefaults.Timeout,
			UserAgent:  crawlerDefaults.UserAgent,
		},
		Knowledge: &KnowledgeOptions{
			AssetsDir: "assets",
			ChunkSize: extract.DefaultChunkSize,
			Workers:   4,
		},
		Answer: &AnswerOptions{
			SupportURL:         biz.DefaultSupportURL,
			MaxHistoryMessages: 20,
		},
		Store: &StoreOptions{
			Backend:   store.BackendMemory,
			KeyPrefix: store.DefaultKeyPrefix,
			Redis:     redisopts.NewOptions(),
		},
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Server.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Chat.AddFlags(fs, "chat")
	o.addCrawlerFlags(fs)
	o.addKnowledgeFlags(fs)
	o.addAnswerFlags(fs)
	o.addStoreFlags(fs)

	fs.IntVar(&o.Port, "port", o.Port, "Listen port; overrides the port of server.http.addr when set (env PORT)")
}

func (o *Options) addCrawlerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Crawler.SeedURL, "crawler.seed-url", o.Crawler.SeedURL, "Support site page the crawl starts from")
	fs.StringVar(&o.Crawler.PathMarker, "crawler.path-marker", o.Crawler.PathMarker, "Substring a discovered link path must contain")
	fs.IntVar(&o.Crawler.MaxLevels, "crawler.max-levels", o.Crawler.MaxLevels, "Link levels to follow beyond the seed (env MAX_SCRAPE_LEVELS)")
	fs.DurationVar(&o.Crawler.Delay, "crawler.delay", o.Crawler.Delay, "Pause before each page fetch")
	fs.DurationVar(&o.Crawler.Timeout, "crawler.timeout", o.Crawler.Timeout, "Per-page HTTP timeout")
	fs.StringVar(&o.Crawler.UserAgent, "crawler.user-agent", o.Crawler.UserAgent, "User-Agent header for page fetches")
}

func (o *Options) addKnowledgeFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Knowledge.AssetsDir, "knowledge.assets-dir", o.Knowledge.AssetsDir, "Directory of local pdf/txt/docx documents")
	fs.IntVar(&o.Knowledge.ChunkSize, "knowledge.chunk-size", o.Knowledge.ChunkSize, "Characters per local document chunk")
	fs.IntVar(&o.Knowledge.Workers, "knowledge.workers", o.Knowledge.Workers, "Concurrent local document extractions")
}

func (o *Options) addAnswerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Answer.SupportURL, "answer.support-url", o.Answer.SupportURL, "Support page referenced in answers")
	fs.IntVar(&o.Answer.MaxHistoryMessages, "answer.max-history-messages", o.Answer.MaxHistoryMessages, "Prior messages included in the prompt (0 = all)")
	fs.IntVar(&o.Answer.MaxContextChars, "answer.max-context-chars", o.Answer.MaxContextChars, "Characters kept from each context section (0 = all)")
}

func (o *Options) addStoreFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Store.Backend, "store.backend", o.Store.Backend, "Document store backend (memory, redis)")
	fs.StringVar(&o.Store.KeyPrefix, "store.key-prefix", o.Store.KeyPrefix, "Key prefix for the redis document store")
	o.Store.Redis.AddFlags(fs, "store")
}

// Complete fills defaults and applies the PORT override.
func (o *Options) Complete() error {
	if err := o.Server.Complete(); err != nil {
		return err
	}
	if err := o.Log.Complete(); err != nil {
		return err
	}
	if err := o.Chat.Complete(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if o.Store.Redis == nil {
		o.Store.Redis = redisopts.NewOptions()
	}
	if o.Port > 0 {
		o.Server.HTTP.SetPort(o.Port)
	}
	return nil
}

// Validate checks whether the options are valid.
func (o *Options) Validate() error {
	errs := []error{}

	errs = append(errs, o.Server.Validate()...)
	if err := o.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.Chat.Validate()...)
	errs = append(errs, validator.Struct(o.Crawler).Prefixed("crawler")...)
	errs = append(errs, validator.Struct(o.Knowledge).Prefixed("knowledge")...)
	errs = append(errs, validator.Struct(o.Answer).Prefixed("answer")...)
	errs = append(errs, validator.Struct(o.Store).Prefixed("store")...)
	if o.Store.Backend == store.BackendRedis {
		errs = append(errs, o.Store.Redis.Validate()...)
	}
	if o.Port < 0 || o.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", o.Port))
	}

	return utilerrors.NewAggregate(errs)
}

// CrawlerConfig converts the crawler options.
func (o *Options) CrawlerConfig() *crawler.Config {
	return &crawler.Config{
		PathMarker: o.Crawler.PathMarker,
		MaxLevels:  o.Crawler.MaxLevels,
		Delay:      o.Crawler.Delay,
		Timeout:    o.Crawler.Timeout,
		UserAgent:  o.Crawler.UserAgent,
	}
}

// AnswerConfig converts the answer options.
func (o *Options) AnswerConfig() *biz.AnswerConfig {
	return &biz.AnswerConfig{
		SupportURL: o.Answer.SupportURL,
		Limits: biz.PromptLimits{
			MaxHistoryMessages: o.Answer.MaxHistoryMessages,
			MaxContextChars:    o.Answer.MaxContextChars,
		},
	}
}
