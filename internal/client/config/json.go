package config

import (
	"encoding/json"
	"os"

	"github.com/mkorolis/imagepoints/internal/flagx"
	"github.com/mkorolis/imagepoints/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "60s" or as integer nanoseconds.
type JsonConfig struct {
	AdminBaseURL       string         `json:"admin_base_url"`
	ImagesBaseURL      string         `json:"images_base_url"`
	StorageUploadURL   string         `json:"storage_upload_url"`
	DatabasePath       string         `json:"database_path"`
	CategoryID         string         `json:"category_id"`
	SourceConfigID     string         `json:"source_config_id"`
	TokenCheckInterval timex.Duration `json:"token_check_interval"`
	Uploader           string         `json:"uploader"`
	S3Endpoint         string         `json:"s3_endpoint"`
	S3Region           string         `json:"s3_region"`
	S3Bucket           string         `json:"s3_bucket"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3PublicBaseURL    string         `json:"s3_public_base_url"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via the -c/-config flags. Absent fields leave the current value in
// place. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.AdminBaseURL != "" {
		cfg.AdminBaseURL = jc.AdminBaseURL
	}
	if jc.ImagesBaseURL != "" {
		cfg.ImagesBaseURL = jc.ImagesBaseURL
	}
	if jc.StorageUploadURL != "" {
		cfg.StorageUploadURL = jc.StorageUploadURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.CategoryID != "" {
		cfg.CategoryID = jc.CategoryID
	}
	if jc.SourceConfigID != "" {
		cfg.SourceConfigID = jc.SourceConfigID
	}
	if jc.TokenCheckInterval.Duration != 0 {
		cfg.TokenCheckInterval = jc.TokenCheckInterval.Duration
	}
	if jc.Uploader != "" {
		cfg.Uploader = jc.Uploader
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.S3PublicBaseURL != "" {
		cfg.S3PublicBaseURL = jc.S3PublicBaseURL
	}
}
