// Package scanner walks playbill image directories and decides which files
// still need ingesting.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/config"
)

// ProcessedStore answers whether an image was already ingested.
type ProcessedStore interface {
	IsImageProcessed(ctx context.Context, path string) (bool, error)
}

// Scanner locates unprocessed playbill images under the configured
// directories.
type Scanner struct {
	store       ProcessedStore
	seenDir     string
	wishlistDir string
	extensions  map[string]bool
}

// New constructs a scanner over the configured image directories.
func New(cfg *config.Config, store ProcessedStore) *Scanner {
	extensions := make(map[string]bool, len(cfg.Scan.ImageExtensions))
	for _, ext := range cfg.Scan.ImageExtensions {
		extensions[strings.ToLower(ext)] = true
	}
	return &Scanner{
		store:       store,
		seenDir:     cfg.Paths.SeenDir,
		wishlistDir: cfg.Paths.WishlistDir,
		extensions:  extensions,
	}
}

// SeenDir returns the directory holding playbills of attended shows.
func (s *Scanner) SeenDir() string { return s.seenDir }

// WishlistDir returns the directory holding wishlist playbills.
func (s *Scanner) WishlistDir() string { return s.wishlistDir }

// SeenStatusForPath derives a show status from the directory an image lives
// in. Images under the wishlist directory are wishlist entries; everything
// else counts as seen.
func (s *Scanner) SeenStatusForPath(path string) catalog.Status {
	if s.wishlistDir != "" {
		if rel, err := filepath.Rel(s.wishlistDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return catalog.StatusWishlist
		}
	}
	return catalog.StatusSeen
}

// UnprocessedImages lists the image files under dir that have not been
// ingested yet, sorted by name. A missing directory is created empty rather
// than treated as an error.
func (s *Scanner) UnprocessedImages(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure scan directory %q: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scan directory %q: %w", dir, err)
	}

	var pending []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !s.extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		processed, err := s.store.IsImageProcessed(ctx, path)
		if err != nil {
			return nil, err
		}
		if processed {
			continue
		}
		pending = append(pending, path)
	}
	sort.Strings(pending)
	return pending, nil
}

// ReadImage loads an image file and reports its MIME type from the
// extension.
func ReadImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image %q: %w", path, err)
	}
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	}
	return data, mime, nil
}
