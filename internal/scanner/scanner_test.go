package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/scanner"
	"marquee/internal/testsupport"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("image bytes"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestUnprocessedImages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	scan := scanner.New(cfg, store)
	ctx := context.Background()

	if err := os.MkdirAll(cfg.Paths.SeenDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(cfg.Paths.SeenDir, "b.jpg"))
	writeFile(t, filepath.Join(cfg.Paths.SeenDir, "a.png"))
	writeFile(t, filepath.Join(cfg.Paths.SeenDir, "notes.txt"))
	writeFile(t, filepath.Join(cfg.Paths.SeenDir, "done.jpeg"))

	if err := store.MarkImageProcessed(ctx, filepath.Join(cfg.Paths.SeenDir, "done.jpeg")); err != nil {
		t.Fatalf("mark processed: %v", err)
	}

	pending, err := scan.UnprocessedImages(ctx, cfg.Paths.SeenDir)
	if err != nil {
		t.Fatalf("UnprocessedImages returned error: %v", err)
	}
	want := []string{
		filepath.Join(cfg.Paths.SeenDir, "a.png"),
		filepath.Join(cfg.Paths.SeenDir, "b.jpg"),
	}
	if len(pending) != len(want) {
		t.Fatalf("pending = %v, want %v", pending, want)
	}
	for i := range want {
		if pending[i] != want[i] {
			t.Fatalf("pending = %v, want %v", pending, want)
		}
	}
}

func TestUnprocessedImagesCreatesMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	scan := scanner.New(cfg, store)

	pending, err := scan.UnprocessedImages(context.Background(), cfg.Paths.WishlistDir)
	if err != nil {
		t.Fatalf("UnprocessedImages returned error: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending = %v, want empty", pending)
	}
	if _, err := os.Stat(cfg.Paths.WishlistDir); err != nil {
		t.Fatalf("directory should have been created: %v", err)
	}
}

func TestSeenStatusForPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	scan := scanner.New(cfg, store)

	seenPath := filepath.Join(cfg.Paths.SeenDir, "show.jpg")
	if got := scan.SeenStatusForPath(seenPath); got != catalog.StatusSeen {
		t.Fatalf("status = %q, want seen", got)
	}

	wishPath := filepath.Join(cfg.Paths.WishlistDir, "show.jpg")
	if got := scan.SeenStatusForPath(wishPath); got != catalog.StatusWishlist {
		t.Fatalf("status = %q, want wishlist", got)
	}
}

func TestReadImageMIME(t *testing.T) {
	dir := t.TempDir()
	jpg := filepath.Join(dir, "photo.JPG")
	writeFile(t, jpg)

	data, mime, err := scanner.ReadImage(jpg)
	if err != nil {
		t.Fatalf("ReadImage returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("image data empty")
	}
	if mime != "image/jpeg" {
		t.Fatalf("mime = %q, want image/jpeg", mime)
	}

	png := filepath.Join(dir, "photo.png")
	writeFile(t, png)
	_, mime, err = scanner.ReadImage(png)
	if err != nil {
		t.Fatalf("ReadImage returned error: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", mime)
	}
}

func TestAcquireLockExcludesSecondHolder(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "scan.lock")

	release, err := scanner.AcquireLock(lockPath)
	if err != nil {
		t.Fatalf("AcquireLock returned error: %v", err)
	}
	defer release()

	if _, err := scanner.AcquireLock(lockPath); err == nil {
		t.Fatal("second AcquireLock should fail while the lock is held")
	}

	release()
	release2, err := scanner.AcquireLock(lockPath)
	if err != nil {
		t.Fatalf("AcquireLock after release returned error: %v", err)
	}
	release2()
}
