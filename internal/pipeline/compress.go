package pipeline

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

// compressible lists the output extensions worth precompressing. Binary
// assets (images, fonts) are already compressed formats.
var compressible = map[string]bool{
	".js":   true,
	".mjs":  true,
	".css":  true,
	".html": true,
	".svg":  true,
	".json": true,
	".map":  true,
	".xml":  true,
	".txt":  true,
}

// precompressOutputs writes a .gz sibling for every compressible file in the
// output directory so a static file server can hand out precompressed
// responses. Originals are kept.
func precompressOutputs(outputDir string) error {
	return filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !compressible[filepath.Ext(path)] {
			return nil
		}
		return compressFile(path)
	})
}

func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	srcInfo, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	originalSize := srcInfo.Size()

	gzPath := path + ".gz"
	dst, err := os.Create(gzPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", gzPath, err)
	}
	defer dst.Close()

	enc, err := gzip.NewWriterLevel(dst, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}

	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		os.Remove(gzPath)
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		os.Remove(gzPath)
		return fmt.Errorf("failed to close encoder: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(gzPath)
		return fmt.Errorf("failed to close %s: %w", gzPath, err)
	}

	dstInfo, err := os.Stat(gzPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", gzPath, err)
	}
	compressedSize := dstInfo.Size()

	ratio := 0.0
	if originalSize > 0 {
		ratio = (1.0 - float64(compressedSize)/float64(originalSize)) * 100
	}

	log.Debug().
		Str("path", path).
		Int64("original_bytes", originalSize).
		Int64("compressed_bytes", compressedSize).
		Float64("compression_ratio_pct", ratio).
		Msg("Precompressed asset")

	return nil
}
