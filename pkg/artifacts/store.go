// Package artifacts writes the files produced by the transmit_recipe tool.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmuk/recipes/pkg/imagegen"
	"github.com/jmuk/recipes/pkg/session"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Store keeps recipe artifacts under a single output root. Every write goes
// through an os.Root, so nothing can land outside of it.
type Store struct {
	outputRoot string
	root       *os.Root
	images     imagegen.Generator
	out        io.Writer
}

// NewStore opens (and creates when missing) the output root. A leading "~"
// refers to the user's home directory. Overwrite previews are written to out.
func NewStore(outputRoot string, images imagegen.Generator, out io.Writer) (*Store, error) {
	expanded, err := ExpandHome(outputRoot)
	if err != nil {
		return nil, err
	}
	expanded, err = filepath.Abs(expanded)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(expanded, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root %s: %w", expanded, err)
	}
	root, err := os.OpenRoot(expanded)
	if err != nil {
		return nil, err
	}
	return &Store{
		outputRoot: expanded,
		root:       root,
		images:     images,
		out:        out,
	}, nil
}

func (s *Store) OutputRoot() string {
	return s.outputRoot
}

func (s *Store) Close() error {
	return s.root.Close()
}

// Transmit generates pictures for imagePrompt and saves them with the recipe
// as <root>/<stem>-<i>.png and <root>/<stem>.txt. It returns <root>/<stem>.
// When the image service fails the recipe is still saved, unless ctx was
// cancelled, in which case nothing is written.
func (s *Store) Transmit(ctx context.Context, fileStem, imagePrompt, recipe string) (string, error) {
	logger := getLogger(ctx)
	stem := Sanitize(fileStem)
	if stem != fileStem {
		logger.Info("Sanitized file stem", "raw", fileStem, "stem", stem)
	}
	outdir := filepath.Join(s.outputRoot, stem)
	logger = logger.With("outdir", outdir)

	res, imgErr := s.images.Generate(ctx, imagePrompt)
	if errors.Is(imgErr, context.Canceled) || errors.Is(imgErr, context.DeadlineExceeded) {
		logger.Warn("Cancelled before writing", "error", imgErr)
		return "", imgErr
	}
	if imgErr != nil {
		logger.Error("Failed to generate images", "error", imgErr)
	} else {
		logger.Debug("Generated images", "count", len(res.Images), "trace_id", res.TraceID)
		for i, img := range res.Images {
			name := fmt.Sprintf("%s-%d.png", stem, i)
			if err := s.root.WriteFile(name, img.Data, 0644); err != nil {
				logger.Error("Failed to write image", "file", name, "error", err)
				return "", err
			}
		}
	}

	txtName := stem + ".txt"
	s.previewOverwrite(logger, txtName, recipe)
	if err := s.root.WriteFile(txtName, []byte(recipe), 0644); err != nil {
		logger.Error("Failed to write recipe", "error", err)
		return "", err
	}
	if imgErr != nil {
		return "", fmt.Errorf("image generation failed, recipe saved to %s.txt: %w", outdir, imgErr)
	}
	return outdir, nil
}

func (s *Store) previewOverwrite(logger *slog.Logger, name, content string) {
	prev, err := s.root.ReadFile(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to read the previous recipe", "file", name, "error", err)
		}
		return
	}
	if string(prev) == content {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(prev), content, false)
	logger.Info("Overwriting recipe", "file", name)
	fmt.Fprintf(s.out, "Overwriting %s as:\n", name)
	fmt.Fprintln(s.out, dmp.DiffPrettyText(diffs))
}

// ExpandHome resolves a leading "~" to the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

func getLogger(ctx context.Context) *slog.Logger {
	logger, err := session.LoggerFromContext(ctx, "artifacts")
	if err != nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
