package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkorolis/imagepoints/internal/client/api"
	"github.com/mkorolis/imagepoints/internal/client/generation"
	"github.com/mkorolis/imagepoints/internal/client/points"
)

var (
	sizeChoices       = []string{"auto", "1024x1024", "1536x1024", "1024x1536"}
	qualityChoices    = []string{"auto", "low", "standard", "high"}
	formatChoices     = []string{"png", "jpeg", "webp"}
	backgroundChoices = []string{"auto", "transparent", "opaque"}
	moderationChoices = []string{"auto", "low"}
)

// Generate prompts for generation parameters and runs the pipeline.
func (a *App) Generate(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	req, err := a.promptRequest(ctx, "generate")
	if err != nil {
		return err
	}
	return a.runPipeline(ctx, req)
}

// Edit prompts for source images plus parameters and runs the pipeline in
// edit mode. A second edit attempt while one is active is a no-op.
func (a *App) Edit(ctx context.Context) error {
	if !a.editInFlight.CompareAndSwap(false, true) {
		printlnFn("An edit is already in progress")
		return nil
	}
	defer a.editInFlight.Store(false)

	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	sources, err := a.collectSources(ctx)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("edit mode needs at least one source image")
	}

	req, err := a.promptRequest(ctx, "edit")
	if err != nil {
		return err
	}
	req.SourceImages = sources

	maskPath, err := GetSimpleText(a.reader, "Mask file (empty for none)", outW)
	if err != nil {
		return err
	}
	if maskPath != "" {
		data, err := os.ReadFile(maskPath)
		if err != nil {
			return fmt.Errorf("reading mask: %w", err)
		}
		req.Mask = &api.FileAttachment{Filename: filepath.Base(maskPath), Data: data}
	}

	return a.runPipeline(ctx, req)
}

// collectSources picks edit sources: the last generated batch when the
// user wants it, otherwise files read from disk. Duplicate filenames are
// suppressed and the batch is capped.
func (a *App) collectSources(ctx context.Context) ([]api.FileAttachment, error) {
	var sources []api.FileAttachment
	seen := map[string]bool{}

	if len(a.lastImages) > 0 {
		use, err := GetChoice(a.reader, "Use last generated images as sources?", []string{"y", "n"}, "y", outW)
		if err != nil {
			return nil, err
		}
		if use == "y" {
			for _, img := range a.lastImages {
				if seen[img.Filename] {
					continue
				}
				seen[img.Filename] = true
				sources = append(sources, api.FileAttachment{Filename: img.Filename, Data: img.Data})
			}
		}
	}

	if len(sources) == 0 {
		line, err := GetSimpleText(a.reader, "Source image files (comma separated)", outW)
		if err != nil {
			return nil, err
		}
		for _, p := range strings.Split(line, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			name := filepath.Base(p)
			if seen[name] {
				continue
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", p, err)
			}
			seen[name] = true
			sources = append(sources, api.FileAttachment{Filename: name, Data: data})
		}
	}

	if len(sources) > api.MaxEditImages {
		printlnFn(fmt.Sprintf("Too many source images, keeping the first %d", api.MaxEditImages))
		sources = sources[:api.MaxEditImages]
	}
	return sources, nil
}

func (a *App) promptRequest(ctx context.Context, mode string) (*api.ImageRequest, error) {
	prompt, err := GetSimpleText(a.reader, "Prompt", outW)
	if err != nil {
		return nil, err
	}
	if prompt == "" {
		return nil, errors.New("prompt must not be empty")
	}

	n, err := GetInt(a.reader, "Image count", 1, outW)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > 10 {
		return nil, fmt.Errorf("image count out of range: %d", n)
	}

	size, err := GetChoice(a.reader, "Size", sizeChoices, "auto", outW)
	if err != nil {
		return nil, err
	}
	quality, err := GetChoice(a.reader, "Quality", qualityChoices, "auto", outW)
	if err != nil {
		return nil, err
	}
	format, err := GetChoice(a.reader, "Output format", formatChoices, "png", outW)
	if err != nil {
		return nil, err
	}

	req := &api.ImageRequest{
		Mode:         mode,
		Prompt:       prompt,
		N:            n,
		Size:         size,
		Quality:      quality,
		OutputFormat: format,
	}

	if format == "jpeg" || format == "webp" {
		compression, err := GetInt(a.reader, "Compression (0-100)", 100, outW)
		if err != nil {
			return nil, err
		}
		req.OutputCompression = &compression
	}

	req.Background, err = GetChoice(a.reader, "Background", backgroundChoices, "auto", outW)
	if err != nil {
		return nil, err
	}
	req.Moderation, err = GetChoice(a.reader, "Moderation", moderationChoices, "auto", outW)
	if err != nil {
		return nil, err
	}

	printlnFn("This request costs", points.FormatPoints(points.RequiredPoints(req.Quality, req.N)), "points")
	return req, nil
}

// runPipeline executes the orchestrator and renders the outcome,
// including the distinct record-persist warning.
func (a *App) runPipeline(ctx context.Context, req *api.ImageRequest) error {
	printlnFn("Generating...")

	outcome, err := a.orch.Run(ctx, req)
	if err != nil {
		var ipe *generation.InsufficientPointsError
		if errors.As(err, &ipe) {
			printlnFn(ipe.Error())
			return nil
		}
		return err
	}

	a.lastImages = outcome.Images

	printlnFn(fmt.Sprintf("Done in %dms, %d image(s), %s points used, view: %s",
		outcome.DurationMs, len(outcome.Images), points.FormatPoints(outcome.PointsUsed), outcome.View))
	for _, img := range outcome.Images {
		if img.URL != "" {
			printlnFn(" ", img.Filename, "->", img.URL)
		} else {
			printlnFn(" ", img.Filename, "(upload failed, shown locally only)")
		}
	}

	if outcome.RecordErr != nil {
		printlnFn("Warning:", outcome.RecordErr.Error())
		printlnFn("Your points were NOT charged for this generation.")
	}
	return nil
}
