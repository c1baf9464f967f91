package kilobite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BuildResult summarizes a static build.
type BuildResult struct {
	Pages  int // rendered routes
	Files  int // copied static files
	Images int // downscaled images
}

// Build renders every public route into outDir as plain files: page routes
// become <path>/index.html, the feed, sitemap and robots.txt keep their names,
// and /404.html holds the not-found page. The static directory and the
// embedded stylesheet are copied alongside, then oversized images are
// downscaled. Existing files in outDir are overwritten, not removed.
func (a *App) Build(ctx context.Context, outDir string) (BuildResult, error) {
	var res BuildResult
	if err := a.Init(); err != nil {
		return res, err
	}
	if outDir == "" {
		outDir = a.Config.OutputDir
	}
	if err := a.checkOutputDir(outDir); err != nil {
		return res, err
	}
	start := time.Now()

	n, err := copyTree(a.Config.StaticDir, outDir)
	if err != nil {
		return res, fmt.Errorf("kilobite: copy static files: %w", err)
	}
	res.Files += n
	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	n, err = copyFS(assets, filepath.Join(outDir, "assets"))
	if err != nil {
		return res, fmt.Errorf("kilobite: copy assets: %w", err)
	}
	res.Files += n

	paths, err := a.contentPaths()
	if err != nil {
		return res, err
	}
	paths = append(paths, "/feed.xml", "/sitemap.xml", "/robots.txt")
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := a.renderTo(outDir, p, http.StatusOK); err != nil {
			return res, err
		}
		res.Pages++
	}
	if err := a.renderTo(outDir, "/404.html", http.StatusNotFound); err != nil {
		return res, err
	}

	srcs, err := a.imageSources()
	if err != nil {
		return res, err
	}
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		file, ok := imageFile(outDir, src)
		if !ok {
			continue
		}
		changed, err := downscaleImage(file, maxImageWidth)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			a.Log.Warn("image referenced but not found", zap.String("src", src))
		case err != nil:
			return res, fmt.Errorf("kilobite: downscale %s: %w", src, err)
		case changed:
			res.Images++
			a.Log.Debug("image downscaled", zap.String("src", src))
		}
	}

	a.Log.Info("build finished",
		zap.String("out", outDir),
		zap.Int("pages", res.Pages),
		zap.Int("files", res.Files),
		zap.Int("images", res.Images),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

// checkOutputDir refuses to build into a source directory.
func (a *App) checkOutputDir(outDir string) error {
	out, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	cwd, _ := os.Getwd()
	for _, src := range []string{a.Config.ContentDir, a.Config.StaticDir, cwd} {
		abs, err := filepath.Abs(src)
		if err == nil && abs == out {
			return fmt.Errorf("kilobite: output directory %s overlaps a source directory", outDir)
		}
	}
	return nil
}

// renderTo serves route through the app's own handler chain and writes the
// response body into outDir.
func (a *App) renderTo(outDir, route string, want int) error {
	req := httptest.NewRequest(http.MethodGet, route, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != want {
		return fmt.Errorf("kilobite: render %s: status %d", route, rec.Code)
	}

	name, err := url.PathUnescape(route)
	if err != nil {
		return fmt.Errorf("kilobite: render %s: %w", route, err)
	}
	file := filepath.Join(outDir, filepath.FromSlash(name))
	if strings.HasSuffix(name, "/") {
		file = filepath.Join(file, "index.html")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, rec.Body.Bytes(), 0o644)
}

// copyTree copies every regular file under src into dst. A missing src copies
// nothing.
func copyTree(src, dst string) (int, error) {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	return copyFS(os.DirFS(src), dst)
}

func copyFS(fsys fs.FS, dst string) (int, error) {
	n := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		in, err := fsys.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		n++
		return out.Close()
	})
	return n, err
}
