package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkorolis/imagepoints/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-s", "-d", "-t", "-i", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AdminBaseURL, "a", cfg.AdminBaseURL, "base URL of the admin (points/records) service")
	fs.StringVar(&cfg.ImagesBaseURL, "g", cfg.ImagesBaseURL, "base URL of the image generation service")
	fs.StringVar(&cfg.StorageUploadURL, "s", cfg.StorageUploadURL, "blob-storage upload endpoint URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local SQLite database")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer credential (one-time)")
	fs.StringVar(&cfg.Uploader, "u", cfg.Uploader, "uploader kind: http or s3")
	tokenCheckInterval := fs.Int("i", int(cfg.TokenCheckInterval.Seconds()), "token re-validation interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenCheckInterval = time.Duration(*tokenCheckInterval) * time.Second
}
