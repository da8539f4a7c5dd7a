package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/cache"
)

// AcquirerConfig holds the routing knobs for text acquisition.
type AcquirerConfig struct {
	// ConfidenceThreshold gates escalation to the cloud recognizer.
	ConfidenceThreshold float32
	// CallTimeout bounds each recognizer invocation.
	CallTimeout time.Duration
	// CacheTTL bounds how long acquisition results are reused.
	CacheTTL time.Duration
}

// AcquireResult is the acquirer's output for one attachment.
type AcquireResult struct {
	Text       string
	Confidence float32
	Method     string // "cache" | "sheet" | "text" | "ocr-local" | "ocr-cloud" | "none"
}

// Acquirer routes attachment bytes to the cheapest source of text: the
// content-addressed cache, native text formats, the free local recognizer,
// and only then the premium cloud recognizer. It never fails: a run with
// broken recognizers degrades to empty text with zero confidence.
type Acquirer struct {
	cfg    AcquirerConfig
	local  Recognizer
	cloud  Recognizer // nil when the premium recognizer is disabled
	store  cache.Store
	logger *slog.Logger
}

func NewAcquirer(cfg AcquirerConfig, local, cloud Recognizer, store cache.Store, logger *slog.Logger) *Acquirer {
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 0.75
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{cfg: cfg, local: local, cloud: cloud, store: store, logger: logger}
}

// ContentHash is the cache key for a blob of attachment bytes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Acquire returns plain text plus a confidence scalar for one attachment.
// The name is only used for format detection; identical bytes under
// different names share one cache entry.
func (a *Acquirer) Acquire(ctx context.Context, name string, data []byte) AcquireResult {
	if len(data) == 0 {
		return AcquireResult{Method: "none"}
	}

	hash := ContentHash(data)
	if a.store != nil {
		if e, ok, err := a.store.Get(ctx, hash); err == nil && ok {
			a.logger.Info("acquire.cache_hit", "hash", hash[:12], "confidence", e.Confidence)
			return AcquireResult{Text: e.Text, Confidence: e.Confidence, Method: "cache"}
		} else if err != nil {
			a.logger.Warn("acquire.cache_get_error", "hash", hash[:12], "error", err)
		}
	}

	res := a.acquireUncached(ctx, name, data)

	if a.store != nil && res.Method != "none" {
		if err := a.store.Set(ctx, hash, cache.Entry{Text: res.Text, Confidence: res.Confidence}, a.cfg.CacheTTL); err != nil {
			a.logger.Warn("acquire.cache_set_error", "hash", hash[:12], "error", err)
		}
	}
	return res
}

func (a *Acquirer) acquireUncached(ctx context.Context, name string, data []byte) AcquireResult {
	switch constants.MapExtToFormat(filepath.Ext(name)) {
	case constants.XLSX:
		txt, err := SheetText(data)
		if err != nil {
			a.logger.Warn("acquire.sheet_error", "name", name, "error", err)
			return AcquireResult{Method: "none"}
		}
		return AcquireResult{Text: txt, Confidence: 1.0, Method: "sheet"}
	case constants.TXT:
		if !utf8.Valid(data) {
			a.logger.Warn("acquire.text_not_utf8", "name", name)
			return AcquireResult{Method: "none"}
		}
		return AcquireResult{Text: Normalize(string(data)), Confidence: 1.0, Method: "text"}
	}

	// Image/PDF: free local recognizer first.
	localRes := a.invoke(ctx, a.local, "local", data)

	if localRes.Confidence >= a.cfg.ConfidenceThreshold {
		a.logger.Info("acquire.local_ok", "name", name, "confidence", localRes.Confidence)
		return AcquireResult{Text: localRes.Text, Confidence: localRes.Confidence, Method: "ocr-local"}
	}

	// Below threshold: escalate if the premium recognizer is enabled. Its
	// result wins unconditionally; it is assumed strictly higher quality.
	if a.cloud != nil {
		a.logger.Info("acquire.escalate_cloud",
			"name", name,
			"local_confidence", localRes.Confidence,
			"threshold", a.cfg.ConfidenceThreshold,
		)
		cloudRes := a.invoke(ctx, a.cloud, "cloud", data)
		if cloudRes.Text != "" || cloudRes.Confidence > 0 {
			return AcquireResult{Text: cloudRes.Text, Confidence: cloudRes.Confidence, Method: "ocr-cloud"}
		}
		// cloud branch failed; fall through to the local result
	}

	// Never block the pipeline on missing OCR: keep the low-confidence
	// local text rather than nothing.
	return AcquireResult{Text: localRes.Text, Confidence: localRes.Confidence, Method: "ocr-local"}
}

// invoke runs one recognizer under the per-call timeout. Errors (timeout,
// quota, malformed input) degrade that branch to empty/zero.
func (a *Acquirer) invoke(ctx context.Context, r Recognizer, which string, data []byte) Result {
	if r == nil {
		return Result{}
	}
	callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	res, err := r.Recognize(callCtx, data)
	if err != nil {
		a.logger.Warn("acquire.recognizer_error",
			"recognizer", which,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}
	}
	return res
}
