package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"launchpad-cli/internal/model"
)

type WriteOptions struct {
	Overwrite bool
	HTML      bool
	Render    RenderOptions
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteLayout writes layout.md (and layout.html when requested) into toDir.
func WriteLayout(c model.Collection, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	md := RenderLayoutMarkdown(c, opt.Render)
	mdPath := filepath.Join(toDir, "layout.md")
	if err := writeFile(mdPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written := []string{mdPath}

	if opt.HTML {
		title := strings.TrimSpace(opt.Render.Title)
		if title == "" {
			title = "Launchpad"
		}
		page, err := RenderHTML(title, md)
		if err != nil {
			return WriteResult{Written: written}, err
		}
		htmlPath := filepath.Join(toDir, "layout.html")
		if err := writeFile(htmlPath, []byte(page), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, htmlPath)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
