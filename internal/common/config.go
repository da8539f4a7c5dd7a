package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig
	LLM      LLMConfig
	Cache    CacheConfig
	Pipeline PipelineConfig
}

// OCRConfig holds text-acquisition configuration
type OCRConfig struct {
	ConfidenceThreshold float32       // local result below this tries the cloud recognizer
	EnableVision        bool          // premium cloud recognizer on/off
	VisionAPIKey        string        //
	VisionBaseURL       string        //
	Tesseract           string        // binary name or absolute path
	TesseractLang       string        // e.g. "eng+hun"
	TessdataDir         string        //
	CallTimeout         time.Duration // per recognizer invocation
}

// LLMConfig holds generative-oracle configuration
type LLMConfig struct {
	Enabled     bool
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// CacheConfig holds acquisition-cache configuration
type CacheConfig struct {
	Path string        // sqlite file; empty selects the in-memory store
	TTL  time.Duration //
}

// PipelineConfig holds pipeline-wide knobs
type PipelineConfig struct {
	DefaultTimezone string
	Budget          time.Duration // wall clock for one whole run
	BucketWidth     time.Duration // merge start-time tolerance
	TitleSimilarity float64       // merge title-overlap threshold
	AutoApprove     bool          // user policy default
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			ConfidenceThreshold: getEnvAsFloat32("OCR_CONFIDENCE_THRESHOLD", 0.75),
			EnableVision:        getEnvAsBool("ENABLE_GOOGLE_VISION", false),
			VisionAPIKey:        getEnv("GOOGLE_VISION_API_KEY", ""),
			VisionBaseURL:       getEnv("GOOGLE_VISION_BASE_URL", "https://vision.googleapis.com/v1"),
			Tesseract:           getEnv("TESSERACT_PATH", "tesseract"),
			TesseractLang:       getEnv("TESSERACT_LANG", "eng+hun"),
			TessdataDir:         getEnv("TESSDATA_PREFIX", ""),
			CallTimeout:         getEnvAsDuration("OCR_CALL_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			Enabled:     getEnvAsBool("ENABLE_LLM", true),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", ""),
			TTL:  getEnvAsDuration("CACHE_TTL", 30*24*time.Hour),
		},
		Pipeline: PipelineConfig{
			DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "Europe/Budapest"),
			Budget:          getEnvAsDuration("PIPELINE_BUDGET", 5*time.Minute),
			BucketWidth:     getEnvAsDuration("MERGE_BUCKET_WIDTH", 15*time.Minute),
			TitleSimilarity: getEnvAsFloat64("MERGE_TITLE_SIMILARITY", 0.5),
			AutoApprove:     getEnvAsBool("AUTO_APPROVE_ENABLED", false),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.OCR.EnableVision && c.OCR.VisionAPIKey == "" {
		return NewAppError("CONFIG_ERROR", "GOOGLE_VISION_API_KEY is required when ENABLE_GOOGLE_VISION is set", ErrInvalidInput)
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when ENABLE_LLM is set", ErrInvalidInput)
	}
	if c.OCR.ConfidenceThreshold < 0 || c.OCR.ConfidenceThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "OCR_CONFIDENCE_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	if c.Pipeline.TitleSimilarity < 0 || c.Pipeline.TitleSimilarity > 1 {
		return NewAppError("CONFIG_ERROR", "MERGE_TITLE_SIMILARITY must be in [0,1]", ErrInvalidInput)
	}
	return nil
}
