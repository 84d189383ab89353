// Package config loads runtime configuration for the imagepoints CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string       base URL of the admin (points/records) service
//	-g string       base URL of the image generation service
//	-s string       blob-storage upload endpoint URL
//	-d string       path to the local SQLite database
//	-t string       bearer credential (one-time; prefer IMAGEPOINTS_TOKEN)
//	-i int          token re-validation interval (seconds)
//	-u string       uploader kind: http or s3
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "60s" or integer nanoseconds:
//
//	{
//	  "admin_base_url": "http://localhost:8000",
//	  "images_base_url": "http://localhost:3000",
//	  "storage_upload_url": "http://localhost:9000/upload",
//	  "database_path": "imagepoints.db",
//	  "category_id": "6734285177059253106",
//	  "source_config_id": "1870234794176292672",
//	  "token_check_interval": "60s",
//	  "uploader": "http",
//	  "s3_endpoint": "",
//	  "s3_region": "us-east-1",
//	  "s3_bucket": "",
//	  "s3_access_key": "",
//	  "s3_secret_key": "",
//	  "s3_public_base_url": ""
//	}
//
// S3 settings are JSON-only; they have no flag equivalents.
package config
