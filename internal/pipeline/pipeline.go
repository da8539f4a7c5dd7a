// Package pipeline wires the whole extraction run together: concurrent
// text acquisition, the two extraction branches joined before merge, then
// scoring and the approval gate. One entrypoint, no state between runs
// except the shared acquisition cache.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventhint/eventhint/internal/common"
	"github.com/eventhint/eventhint/internal/event"
	"github.com/eventhint/eventhint/internal/extract"
	"github.com/eventhint/eventhint/internal/merge"
	"github.com/eventhint/eventhint/internal/ocr"
	"github.com/eventhint/eventhint/internal/score"
)

// Attachment is one raw document handed in with a message.
type Attachment struct {
	Name string
	Data []byte
}

// Config holds the pipeline-wide knobs.
type Config struct {
	// Budget is the wall clock for one whole run. On expiry, still-running
	// branches are cancelled and partial results are returned.
	Budget time.Duration
}

// Runner executes pipeline runs. Stateless between calls.
type Runner struct {
	cfg           Config
	acquirer      *ocr.Acquirer
	deterministic extract.Extractor
	generative    extract.Extractor // nil when the oracle is disabled
	engine        *merge.Engine
	logger        *slog.Logger
}

func NewRunner(cfg Config, acquirer *ocr.Acquirer, deterministic, generative extract.Extractor, engine *merge.Engine, logger *slog.Logger) *Runner {
	if cfg.Budget <= 0 {
		cfg.Budget = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:           cfg,
		acquirer:      acquirer,
		deterministic: deterministic,
		generative:    generative,
		engine:        engine,
		logger:        logger,
	}
}

// Run processes one message. It always terminates and always returns a
// (possibly empty) list; every internal failure degrades to fewer or
// lower-confidence events, never to an error.
func (r *Runner) Run(ctx context.Context, rawText string, attachments []Attachment, ec event.Context, policy event.Policy) []event.Merged {
	runID := uuid.New().String()
	ctx = common.WithRunID(ctx, runID)
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Budget)
	defer cancel()

	start := time.Now()
	r.logger.Info("pipeline.run.start",
		"run_id", runID,
		"raw_text_len", len(rawText),
		"attachments", len(attachments),
		"trusted_sender", ec.TrustedSender,
	)

	text, ocrConf := r.acquireAll(ctx, rawText, attachments)
	ec.OCRConfidence = ocrConf

	det, gen := r.extractBoth(ctx, text, ec)
	merged := r.engine.Merge(det, gen)

	out := make([]event.Merged, 0, len(merged))
	for i := range merged {
		c := merged[i]
		if err := event.Validate(&c, ec.DefaultTimezone); err != nil {
			r.logger.Warn("pipeline.candidate_invalid",
				"run_id", runID, "title", c.Title, "error", err)
			continue
		}
		conf := score.Confidence(&c, ec)
		out = append(out, event.Merged{
			Candidate:  c,
			Confidence: conf,
			Decision:   score.Decide(conf, policy, ec),
		})
	}

	r.logger.Info("pipeline.run.done",
		"run_id", runID,
		"events", len(out),
		"ocr_confidence", ocrConf,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}

// acquireAll runs TextAcquirer over every attachment concurrently and
// splices the results after the native message text in attachment arrival
// order, so output is deterministic regardless of which recognizer call
// returns first. The returned confidence is the lowest among attachments
// that contributed text; zero means none did.
func (r *Runner) acquireAll(ctx context.Context, rawText string, attachments []Attachment) (string, float32) {
	results := make([]ocr.AcquireResult, len(attachments))

	var wg sync.WaitGroup
	for i, att := range attachments {
		wg.Add(1)
		go func(i int, att Attachment) {
			defer wg.Done()
			results[i] = r.acquirer.Acquire(ctx, att.Name, att.Data)
		}(i, att)
	}
	wg.Wait()

	var b strings.Builder
	b.WriteString(rawText)

	var minConf float32
	contributed := false
	for i, res := range results {
		if strings.TrimSpace(res.Text) == "" {
			continue
		}
		b.WriteString("\n\n--- ")
		b.WriteString(attachments[i].Name)
		b.WriteString(" ---\n")
		b.WriteString(res.Text)

		if !contributed || res.Confidence < minConf {
			minConf = res.Confidence
		}
		contributed = true
	}
	if !contributed {
		return b.String(), 0
	}
	return b.String(), minConf
}

// extractBoth runs the two branches concurrently and joins them: a join,
// not a race — whichever finishes first waits for the other (or for the
// budget to cancel it). The branches share no mutable state.
func (r *Runner) extractBoth(ctx context.Context, text string, ec event.Context) (det, gen []event.Candidate) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		det, err = r.deterministic.Extract(ctx, text, ec)
		if err != nil {
			r.logger.Warn("pipeline.branch_error", "branch", "deterministic", "error", err)
			det = nil
		}
	}()

	if r.generative != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			gen, err = r.generative.Extract(ctx, text, ec)
			if err != nil {
				r.logger.Warn("pipeline.branch_error", "branch", "llm", "error", err)
				gen = nil
			}
		}()
	}

	wg.Wait()
	return det, gen
}
