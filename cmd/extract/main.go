package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eventhint/eventhint/internal/cache"
	"github.com/eventhint/eventhint/internal/common"
	"github.com/eventhint/eventhint/internal/event"
	"github.com/eventhint/eventhint/internal/export"
	"github.com/eventhint/eventhint/internal/extract"
	"github.com/eventhint/eventhint/internal/extract/llm"
	"github.com/eventhint/eventhint/internal/extract/llm/openai"
	"github.com/eventhint/eventhint/internal/extract/pattern"
	"github.com/eventhint/eventhint/internal/merge"
	"github.com/eventhint/eventhint/internal/ocr"
	"github.com/eventhint/eventhint/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		textPath = flag.String("text", "", "file with the native message text (optional)")
		userName = flag.String("user-name", "", "display name for schedule name-matching")
		userID   = flag.String("user-id", "", "institutional ID for schedule name-matching")
		trusted  = flag.Bool("trusted", false, "treat the message origin as pre-vetted")
		icsPath  = flag.String("ics", "", "also write the result as an ICS file")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rawText := ""
	if *textPath != "" {
		b, err := os.ReadFile(*textPath)
		if err != nil {
			logger.Error("read text file", "path", *textPath, "error", err)
			os.Exit(1)
		}
		rawText = string(b)
	}

	var attachments []pipeline.Attachment
	for _, path := range flag.Args() {
		b, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read attachment", "path", path, "error", err)
			os.Exit(1)
		}
		attachments = append(attachments, pipeline.Attachment{Name: filepath.Base(path), Data: b})
	}
	if rawText == "" && len(attachments) == 0 {
		logger.Error("usage", "cmd", "extract [-text file] [-user-name name] [-user-id id] [-trusted] [-ics out.ics] [attachment ...]")
		os.Exit(2)
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open cache store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	runner := buildRunner(cfg, store, logger)

	ec := event.Context{
		DefaultTimezone: cfg.Pipeline.DefaultTimezone,
		TrustedSender:   *trusted,
		UserName:        *userName,
		UserID:          *userID,
	}
	policy := event.Policy{AutoApproveEnabled: cfg.Pipeline.AutoApprove}

	events := runner.Run(ctx, rawText, attachments, ec, policy)

	out, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	if *icsPath != "" {
		ics, err := export.NewService(logger).EventsICS(events)
		if err != nil {
			logger.Error("render ics", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*icsPath, ics, 0o644); err != nil {
			logger.Error("write ics", "path", *icsPath, "error", err)
			os.Exit(1)
		}
	}
}

func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (cache.Store, func(), error) {
	if cfg.Cache.Path == "" {
		return cache.NewMemoryStore(), func() {}, nil
	}
	s, err := cache.OpenSQLiteStore(ctx, cfg.Cache.Path)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if cerr := s.Close(); cerr != nil {
			logger.Warn("close cache store", "error", cerr)
		}
	}, nil
}

func buildRunner(cfg *common.Config, store cache.Store, logger *slog.Logger) *pipeline.Runner {
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
	}, local, cloud, store, logger)

	var generative extract.Extractor
	if cfg.LLM.Enabled {
		oracle := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		generative = llm.NewExtractor(llm.ExtractorConfig{Timeout: cfg.LLM.Timeout}, oracle, logger)
	}

	engine := merge.NewEngine(merge.Config{
		BucketWidth:     cfg.Pipeline.BucketWidth,
		TitleSimilarity: cfg.Pipeline.TitleSimilarity,
	}, logger)

	return pipeline.NewRunner(
		pipeline.Config{Budget: cfg.Pipeline.Budget},
		acquirer,
		pattern.NewExtractor(logger),
		generative,
		engine,
		logger,
	)
}
