// Package analyzer predicts manufacturing characteristics from technical
// drawing PDFs using the Anthropic API. Its output feeds the accuracy
// validator.
package analyzer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/partaudit/internal/model"
	"github.com/sells-group/partaudit/pkg/anthropic"
)

// Options configures the analyzer.
type Options struct {
	Model          string
	MaxTokens      int64
	Temperature    float64
	Concurrency    int
	RequestsPerMin int
}

// Analyzer turns drawing PDFs into prediction records.
type Analyzer struct {
	client  anthropic.Client
	opts    Options
	limiter *rate.Limiter
}

// New creates an Analyzer. Zero option fields fall back to working defaults.
func New(client anthropic.Client, opts Options) *Analyzer {
	if opts.Model == "" {
		opts.Model = "claude-sonnet-4-5-20250929"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2000
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.RequestsPerMin <= 0 {
		opts.RequestsPerMin = 30
	}
	return &Analyzer{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMin)), 1),
	}
}

// AnalyzePart analyzes a single drawing PDF and returns its prediction
// record. The source_file field is always set to the PDF's base name.
func (a *Analyzer) AnalyzePart(ctx context.Context, pdfPath string) (*model.PredictionRecord, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, eris.Wrapf(err, "analyzer: read %s", pdfPath)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "analyzer: rate limit wait")
	}

	temp := a.opts.Temperature
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.opts.Model,
		MaxTokens:   a.opts.MaxTokens,
		Temperature: &temp,
		System:      anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{
				Role: "user",
				Content: []anthropic.ContentPart{
					anthropic.PDFPart(data),
					anthropic.TextPart(analysisPrompt),
				},
			},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "analyzer: analyze %s", filepath.Base(pdfPath))
	}
	resp.Usage.LogCost(a.opts.Model, "analyze")

	record, err := parseResponse(resp.Text())
	if err != nil {
		return nil, eris.Wrapf(err, "analyzer: parse response for %s", filepath.Base(pdfPath))
	}
	record.Set("source_file", model.TextValue(filepath.Base(pdfPath)))

	return record, nil
}

// AnalyzeDir analyzes every .pdf file in a directory with bounded concurrency
// and returns the records in file name order. A failed drawing produces a
// record carrying an error field instead of aborting the whole batch.
func (a *Analyzer) AnalyzeDir(ctx context.Context, dir string) ([]model.PredictionRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, eris.Wrapf(err, "analyzer: glob %s", dir)
	}
	sort.Strings(paths)

	log := zap.L().With(zap.Int("drawings", len(paths)))
	log.Info("starting drawing analysis")
	start := time.Now()

	records := make([]model.PredictionRecord, len(paths))
	var mu sync.Mutex
	var failed int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			rec, err := a.AnalyzePart(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				zap.L().Error("drawing analysis failed",
					zap.String("file", filepath.Base(path)),
					zap.Error(err))
				rec = &model.PredictionRecord{}
				rec.Set("error", model.TextValue(err.Error()))
				rec.Set("source_file", model.TextValue(filepath.Base(path)))
				mu.Lock()
				failed++
				mu.Unlock()
			}
			records[i] = *rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "analyzer: batch run")
	}

	log.Info("drawing analysis complete",
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

// parseResponse extracts the JSON object from a model reply, tolerating
// markdown code fences around it.
func parseResponse(text string) (*model.PredictionRecord, error) {
	text = stripFences(text)

	var record model.PredictionRecord
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, eris.Wrap(err, "unmarshal prediction")
	}
	return &record, nil
}

func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}
