package extract

import (
	"context"
	"sync"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/internal/pkg/docutil"
	"github.com/kart-io/support-assistant/pkg/infra/pool"
)

// Loader extracts every supported file of a directory on a bounded worker pool.
type Loader struct {
	extractor *Extractor
	chunkSize int
	workers   int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithChunkSize sets the chunk length in characters.
func WithChunkSize(size int) LoaderOption {
	return func(l *Loader) {
		if size > 0 {
			l.chunkSize = size
		}
	}
}

// WithWorkers sets the number of concurrent extractions.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithErrorHook reports per-file extraction failures.
func WithErrorHook(hook ErrorHook) LoaderOption {
	return func(l *Loader) {
		l.extractor = NewExtractor(hook)
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		extractor: defaultExtractor,
		chunkSize: DefaultChunkSize,
		workers:   4,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDir returns the chunks of every supported file in dir, in file name order.
// Files whose text is empty contribute nothing. A missing directory yields nil.
func (l *Loader) LoadDir(ctx context.Context, dir string) []string {
	if !docutil.DirExists(dir) {
		logger.Warnw("Assets directory not found, skipping local documents", "dir", dir)
		return nil
	}

	files, err := docutil.ListFiles(dir, SupportedExtensions)
	if err != nil {
		l.extractor.report(dir, err)
		return nil
	}
	if len(files) == 0 {
		return nil
	}

	texts := make([]string, len(files))
	p, err := pool.NewPool("extract", &pool.Config{Capacity: min(l.workers, len(files))})
	if err != nil {
		// 退化为顺序执行
		for i, f := range files {
			texts[i] = l.extractor.ExtractText(f)
		}
		return l.chunk(texts)
	}
	defer p.Release()

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			texts[i] = l.extractor.ExtractText(f)
		})
		if err != nil {
			wg.Done()
			logger.Warnw("Skip document extraction", "file", f, "error", err)
		}
	}
	wg.Wait()

	return l.chunk(texts)
}

func (l *Loader) chunk(texts []string) []string {
	var chunks []string
	for _, text := range texts {
		if text == "" {
			continue
		}
		chunks = append(chunks, Chunk(text, l.chunkSize)...)
	}
	return chunks
}
