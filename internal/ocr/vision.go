package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VisionConfig configures the premium cloud recognizer.
type VisionConfig struct {
	APIKey  string
	BaseURL string        // default https://vision.googleapis.com/v1
	Timeout time.Duration // http client timeout
}

// Vision is the premium cloud recognizer (Google Cloud Vision document text
// detection over REST). It is assumed strictly higher quality than the local
// recognizer; once invoked, its result always wins.
type Vision struct {
	cfg        VisionConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewVision(cfg VisionConfig, logger *slog.Logger) *Vision {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://vision.googleapis.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Vision{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type visionResponse struct {
	Responses []struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		FullTextAnnotation *struct {
			Text  string `json:"text"`
			Pages []struct {
				Blocks []struct {
					Confidence float64 `json:"confidence"`
				} `json:"blocks"`
				Property *struct {
					DetectedLanguages []struct {
						LanguageCode string `json:"languageCode"`
					} `json:"detectedLanguages"`
				} `json:"property"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
	} `json:"responses"`
}

func (v *Vision) Recognize(ctx context.Context, data []byte) (Result, error) {
	reqID := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"requests": []map[string]any{{
			"image":    map[string]any{"content": base64.StdEncoding.EncodeToString(data)},
			"features": []map[string]any{{"type": "DOCUMENT_TEXT_DETECTION"}},
		}},
	}

	endpoint := strings.TrimRight(v.cfg.BaseURL, "/") + "/images:annotate?key=" + v.cfg.APIKey

	raw, err := v.post(ctx, endpoint, body)
	if err != nil {
		v.logger.Error("vision.recognize.http_error",
			"req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, err
	}

	var resp visionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Result{}, fmt.Errorf("decode vision response: %w", err)
	}
	if len(resp.Responses) == 0 {
		return Result{}, fmt.Errorf("empty vision response")
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return Result{}, fmt.Errorf("vision api error: %s", r.Error.Message)
	}
	if r.FullTextAnnotation == nil {
		return Result{Text: "", Confidence: 0}, nil
	}

	// Mean block confidence; Vision omits it occasionally, default high.
	var sum float64
	var n int
	lang := ""
	for _, page := range r.FullTextAnnotation.Pages {
		for _, b := range page.Blocks {
			if b.Confidence > 0 {
				sum += b.Confidence
				n++
			}
		}
		if lang == "" && page.Property != nil && len(page.Property.DetectedLanguages) > 0 {
			lang = page.Property.DetectedLanguages[0].LanguageCode
		}
	}
	conf := float32(0.8)
	if n > 0 {
		conf = float32(sum / float64(n))
	}

	v.logger.Info("vision.recognize.ok",
		"req_id", reqID,
		"chars", len(r.FullTextAnnotation.Text),
		"confidence", conf,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{
		Text:       Normalize(r.FullTextAnnotation.Text),
		Confidence: conf,
		Language:   lang,
	}, nil
}

func (v *Vision) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision http error: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			v.logger.Warn("vision response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vision status %d: %s", resp.StatusCode, truncate(string(raw), 1024))
	}
	return raw, nil
}
