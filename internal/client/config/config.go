package config

import "time"

// Uploader kinds.
const (
	UploaderHTTP = "http"
	UploaderS3   = "s3"
)

// Config holds runtime settings for the imagepoints CLI.
//
// AdminBaseURL hosts the points and generation-record endpoints,
// ImagesBaseURL the generation and legacy image endpoints, and
// StorageUploadURL is the full blob-storage upload endpoint. CategoryID
// and SourceConfigID tie created records to one project category.
type Config struct {
	AdminBaseURL     string
	ImagesBaseURL    string
	StorageUploadURL string

	DatabasePath string

	CategoryID     string
	SourceConfigID string

	TokenCheckInterval time.Duration
	Token              string

	Uploader        string
	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AdminBaseURL = "http://localhost:8000"
	c.ImagesBaseURL = "http://localhost:3000"
	c.StorageUploadURL = "http://localhost:9000/upload"
	c.DatabasePath = "imagepoints.db"
	c.CategoryID = "6734285177059253106"
	c.SourceConfigID = "1870234794176292672"
	c.TokenCheckInterval = 60 * time.Second
	c.Uploader = UploaderHTTP
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
