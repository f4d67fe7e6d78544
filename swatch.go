package main

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chuhlomin/docxstyle/internal/wordml"
)

const swatchSize = 64

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// writeSwatches writes "<style id>.png" filled with the dominant color of
// every style that has an explicit one.
func writeSwatches(dir string, styles []wordml.StyleSummary) error {
	if err := createDirectory(dir); err != nil {
		return errors.Wrapf(err, "swatch directory creation %q", dir)
	}

	used := map[string]bool{}
	for _, s := range styles {
		c, ok := parseColor(s.Color)
		if !ok {
			continue
		}

		name := swatchFilename(s.StyleID)
		if used[name] {
			unique := uniqueFilename(used, name)
			logger.Warn("Swatch filename taken",
				zap.String("style", s.StyleID),
				zap.String("filename", name),
				zap.String("renamed", unique),
			)
			name = unique
		}
		used[name] = true

		path := filepath.Join(dir, name)
		img := imaging.New(swatchSize, swatchSize, c)
		if err := imaging.Save(img, path); err != nil {
			return errors.Wrapf(err, "save swatch %s", path)
		}
		logger.Debug("Swatch written", zap.String("style", s.StyleID), zap.String("path", path))
	}
	return nil
}

func swatchFilename(styleID string) string {
	return unsafeFilename.ReplaceAllString(styleID, "_") + ".png"
}

// uniqueFilename appends _2, _3, ... to the base name until it is not used.
func uniqueFilename(used map[string]bool, name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		if !used[candidate] {
			return candidate
		}
	}
}

// parseColor converts RRGGBB into an opaque color; "auto" has no fixed value.
func parseColor(v string) (color.NRGBA, bool) {
	if len(v) != 6 {
		return color.NRGBA{}, false
	}
	b, err := hex.DecodeString(v)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, true
}

func createDirectory(name string) error {
	return os.MkdirAll(name, permDir)
}
