package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eventhint/eventhint/internal/cache"
	"github.com/eventhint/eventhint/internal/common"
	"github.com/eventhint/eventhint/internal/ocr"
)

// runocr exercises the text-acquisition router on one file and prints the
// acquired text, useful for tuning OCR setup before a full pipeline run.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <file>")
		os.Exit(2)
	}
	path := os.Args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	local := ocr.NewTesseract(ocr.TesseractConfig{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.TesseractLang,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	var cloud ocr.Recognizer
	if cfg.OCR.EnableVision {
		cloud = ocr.NewVision(ocr.VisionConfig{
			APIKey:  cfg.OCR.VisionAPIKey,
			BaseURL: cfg.OCR.VisionBaseURL,
			Timeout: cfg.OCR.CallTimeout,
		}, logger)
	}

	acquirer := ocr.NewAcquirer(ocr.AcquirerConfig{
		ConfidenceThreshold: cfg.OCR.ConfidenceThreshold,
		CallTimeout:         cfg.OCR.CallTimeout,
		CacheTTL:            cfg.Cache.TTL,
	}, local, cloud, cache.NewMemoryStore(), logger)

	start := time.Now()
	res := acquirer.Acquire(ctx, filepath.Base(path), data)

	logger.Info("acquisition OK",
		"method", res.Method,
		"confidence", res.Confidence,
		"bytes", len(res.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	os.Stdout.WriteString(res.Text)
	os.Stdout.WriteString("\n")
}
