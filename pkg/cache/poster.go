package cache

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"mapposter/pkg/model"
)

// GetPoster returns the path of a cached poster matching spec, or false
// on a miss. The returned path points into the poster cache directory,
// never into the renderer's output directory.
func (m *Manager) GetPoster(spec model.PosterSpec) (string, bool) {
	path := m.posterPath(spec)

	if !isValid(path, posterTTL) {
		slog.Info("poster cache miss", "city", spec.City, "country", spec.Country, "theme", spec.Theme)
		cacheMisses.WithLabelValues(posterDirName).Inc()
		return "", false
	}

	slog.Info("poster cache hit", "city", spec.City, "country", spec.Country, "theme", spec.Theme)
	cacheHits.WithLabelValues(posterDirName).Inc()
	return path, true
}

// SetPoster copies a rendered poster from srcPath into the cache. Only
// the bytes are duplicated, not metadata, so the cache copy gets a fresh
// modification time and a full TTL. Failures are logged and swallowed.
func (m *Manager) SetPoster(srcPath string, spec model.PosterSpec) {
	path := m.posterPath(spec)

	if err := copyFile(srcPath, path); err != nil {
		slog.Error("failed to cache poster", "src", srcPath, "error", err)
		cacheWriteErrors.WithLabelValues(posterDirName).Inc()
		return
	}

	slog.Info("cached poster", "city", spec.City, "country", spec.Country, "theme", spec.Theme)
}

func (m *Manager) posterPath(spec model.PosterSpec) string {
	key := deriveKey(
		foldName(spec.City), foldName(spec.Country), spec.Theme,
		spec.Distance, spec.Width, spec.Height, spec.DPI,
	)
	return filepath.Join(m.posterDir, key+posterExt)
}

// copyFile duplicates src's content at dst with the same temp-then-rename
// publish as every other cache write.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
