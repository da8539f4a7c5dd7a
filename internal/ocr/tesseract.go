package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// TesseractConfig configures the free local recognizer.
type TesseractConfig struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftotext string // if empty -> "pdftotext"
	Pdftoppm  string // if empty -> "pdftoppm"

	Lang        string // default "eng+hun"
	TessdataDir string
	DPI         int // rasterization DPI for scanned PDFs, default 300

	PSM int // e.g. 6 for a uniform block of text
	OEM int // 1 = LSTM; 0 uses the engine default
}

// Tesseract is the free local recognizer: tesseract for images, pdftotext
// with a pdftoppm+tesseract fallback for PDFs. Input kind is sniffed from
// the bytes so the Recognizer contract stays bytes-in, text-out.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng+hun"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Tesseract{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (t *Tesseract) Recognize(ctx context.Context, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, nil
	}
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return t.recognizePDF(ctx, data)
	}
	return t.recognizeImage(ctx, data)
}

func (t *Tesseract) recognizeImage(ctx context.Context, data []byte) (Result, error) {
	path, cleanup, err := writeTemp(data, "page-*.png")
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	txt, err := t.tesseractOCR(ctx, path)
	if err != nil {
		return Result{}, err
	}
	txt = Normalize(txt)

	var conf float32
	if tsv, err := t.tesseractTSVConfidence(ctx, path); err == nil && tsv > 0 {
		// blend: weight the engine's word confidence higher
		conf = 0.7*tsv + 0.3*heuristicConfidence(txt)
	} else {
		conf = heuristicConfidence(txt)
	}
	if conf > 1.0 {
		conf = 1.0
	}

	return Result{Text: txt, Confidence: conf, Language: t.cfg.Lang}, nil
}

func (t *Tesseract) recognizePDF(ctx context.Context, data []byte) (Result, error) {
	path, cleanup, err := writeTemp(data, "doc-*.pdf")
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	// Text-layer PDFs skip OCR entirely.
	out, _, err := t.runner.Run(ctx, t.cfg.Pdftotext, "-layout", path, "-")
	if err == nil {
		txt := Normalize(string(out))
		if len(txt) >= 50 {
			return Result{Text: txt, Confidence: 0.95, Language: t.cfg.Lang}, nil
		}
	}

	// Scanned PDF: rasterize pages, OCR each.
	tmpDir, err := os.MkdirTemp("", "eh-pdf-*")
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := t.runner.Run(ctx, t.cfg.Pdftoppm, "-png", "-r", strconv.Itoa(t.cfg.DPI), path, prefix); err != nil {
		return Result{}, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(pages) == 0 {
		return Result{}, fmt.Errorf("pdf rasterization produced no pages")
	}
	sort.Strings(pages)

	var b strings.Builder
	var confSum float32
	for _, page := range pages {
		txt, err := t.tesseractOCR(ctx, page)
		if err != nil {
			return Result{}, err
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Normalize(txt))
		if tsv, err := t.tesseractTSVConfidence(ctx, page); err == nil && tsv > 0 {
			confSum += tsv
		} else {
			confSum += heuristicConfidence(txt)
		}
	}

	return Result{
		Text:       strings.TrimSpace(b.String()),
		Confidence: confSum / float32(len(pages)),
		Language:   t.cfg.Lang,
	}, nil
}

func (t *Tesseract) tesseractOCR(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (t *Tesseract) tesseractTSVConfidence(ctx context.Context, path string) (float32, error) {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, _, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}
	lines := strings.Split(string(out), "\n")
	// conf is the last column; the first line is the header
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-1]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float32(sum / n / 100.0), nil
}

func writeTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
