package kilobite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 85
)

// downscaleImage rewrites the JPEG or PNG at file in place when it is wider
// than maxWidth, keeping the aspect ratio and the format. It reports whether
// the file changed. Other formats are left alone.
func downscaleImage(file string, maxWidth int) (bool, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return false, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return false, err
	}
	cfg, format, err := image.DecodeConfig(f)
	if errors.Is(err, image.ErrFormat) {
		f.Close()
		return false, nil
	}
	if err != nil {
		f.Close()
		return false, fmt.Errorf("decode %s: %w", file, err)
	}
	if cfg.Width <= maxWidth || (format != "jpeg" && format != "png") {
		f.Close()
		return false, nil
	}
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return false, err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", file, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", file, err)
	}

	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, file); err != nil {
		os.Remove(tmp)
		return false, err
	}
	return true, nil
}

// imageSources returns the site-relative image paths referenced by the site
// configuration and the content: the share image, the hero image and every
// post and project cover.
func (a *App) imageSources() ([]string, error) {
	var srcs []string
	if img, ok := a.Site.Image(); ok {
		srcs = append(srcs, img.Src)
	}
	if hero, ok := a.Site.Hero(); ok && hero.Image != nil {
		srcs = append(srcs, hero.Image.Src)
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.Image != nil {
			srcs = append(srcs, p.Image.Src)
		}
	}
	projects, err := a.Cache.ListProjects()
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Image != nil {
			srcs = append(srcs, p.Image.Src)
		}
	}

	seen := make(map[string]bool, len(srcs))
	out := srcs[:0]
	for _, s := range srcs {
		if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// imageFile maps a site-relative src onto dir, refusing paths that escape it.
func imageFile(dir, src string) (string, bool) {
	clean := path.Clean("/" + strings.SplitN(src, "?", 2)[0])
	if clean == "/" {
		return "", false
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), true
}

func imageMIME(src string) string {
	switch strings.ToLower(path.Ext(src)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}
