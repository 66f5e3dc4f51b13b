package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AzielCF/az-autopost/core/config"
	"github.com/AzielCF/az-autopost/pkg/utils"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"
)

const defaultQuality = 90

// Preparer normalizes an image before upload: EXIF orientation is applied,
// images wider than MaxWidth are scaled down and the result is re-encoded as JPEG.
type Preparer struct {
	MaxWidth int
	Quality  int
	TempDir  string
}

func NewPreparer(cfg config.MediaConfig) *Preparer {
	return &Preparer{
		MaxWidth: cfg.MaxWidth,
		Quality:  cfg.JPEGQuality,
	}
}

// Prepare returns the path to upload and a cleanup func that removes any temp file.
// The source file is never modified.
func (p *Preparer) Prepare(path string) (string, func(), error) {
	noop := func() {}

	info, err := os.Stat(path)
	if err != nil {
		return "", noop, err
	}
	if info.IsDir() {
		return "", noop, fmt.Errorf("%s is a directory", path)
	}

	srcImage, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", noop, fmt.Errorf("failed to open image '%s': %w", path, err)
	}

	bounds := srcImage.Bounds()
	width := bounds.Dx()
	if p.MaxWidth > 0 && width > p.MaxWidth {
		logrus.Debugf("[MEDIA] resizing %s from %dpx to %dpx wide", filepath.Base(path), width, p.MaxWidth)
		srcImage = imaging.Resize(srcImage, p.MaxWidth, 0, imaging.Lanczos)
	}

	quality := p.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out, err := os.CreateTemp(p.TempDir, "autopost-"+base+"-*.jpg")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp image: %w", err)
	}
	outPath := out.Name()
	cleanup := func() { utils.RemoveFile(outPath) }

	if err := imaging.Encode(out, srcImage, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		out.Close()
		cleanup()
		return "", noop, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", noop, err
	}

	if outInfo, err := os.Stat(outPath); err == nil {
		logrus.Debugf("[MEDIA] prepared %s (%s -> %s)", filepath.Base(path),
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(outInfo.Size())))
	}
	return outPath, cleanup, nil
}
