package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Catalog API
	DataURL string

	// S3 output
	S3Bucket  string
	S3Key     string
	AWSRegion string

	// Alert email (from .env)
	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string
	EmailTo   string

	// Currency adjustment
	BaseCurrency   string
	AdjustCurrency string
	FXSymbol       string

	// Timing
	SyncInterval time.Duration
	TickerDelay  time.Duration
	DedupTickers bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataURL: envStr("DATA_URL", ""),

		S3Bucket:  envStr("S3_BUCKET_NAME", ""),
		S3Key:     envStr("S3_FILE_KEY", "ticker-stats.json"),
		AWSRegion: envStr("AWS_REGION", "us-east-1"),

		EmailHost: envStr("EMAIL_HOST", ""),
		EmailPort: envInt("EMAIL_PORT", 465),
		EmailUser: envStr("EMAIL_USER", ""),
		EmailPass: envStr("EMAIL_PASS", ""),
		EmailTo:   envStr("EMAIL_TO", ""),

		BaseCurrency:   envStr("BASE_CURRENCY", "GBP"),
		AdjustCurrency: envStr("ADJUST_CURRENCY", "USD"),
		FXSymbol:       envStr("FX_SYMBOL", "GBPUSD=X"),

		SyncInterval: time.Duration(envInt("SYNC_INTERVAL_MINUTES", 60)) * time.Minute,
		TickerDelay:  time.Duration(envInt("TICKER_DELAY_MS", 200)) * time.Millisecond,
		DedupTickers: envBool("DEDUP_TICKERS", false),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.DataURL == "" {
		errs = append(errs, "DATA_URL is required")
	}
	if c.S3Bucket == "" {
		errs = append(errs, "S3_BUCKET_NAME is required")
	}
	if c.EmailUser == "" || c.EmailPass == "" {
		fmt.Println("[WARN] EMAIL_USER/EMAIL_PASS not set — failure alerts disabled")
	} else if c.EmailTo == "" {
		fmt.Println("[WARN] EMAIL_TO not set — failure alerts disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Fund Sync Configuration ===")
	fmt.Printf("Catalog API: %s\n", c.DataURL)
	fmt.Printf("Output: s3://%s/%s (%s)\n", c.S3Bucket, c.S3Key, c.AWSRegion)
	fmt.Printf("Base currency: %s | Adjusting %s funds via %s\n",
		c.BaseCurrency, c.AdjustCurrency, c.FXSymbol)
	fmt.Printf("Sync interval: %s | Per-ticker delay: %s\n", c.SyncInterval, c.TickerDelay)
	fmt.Printf("Dedup tickers: %v\n", c.DedupTickers)
	fmt.Printf("Alerts: %s\n", boolLabel(c.EmailUser != "" && c.EmailPass != "" && c.EmailTo != "",
		"email to "+c.EmailTo, "disabled"))
	fmt.Println("===============================")
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
