package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"pkt.systems/emspace"
)

type inputKind uint8

const (
	inputStdin inputKind = iota
	inputFile
	inputURL
)

// inputSource is one document named on the command line.
type inputSource struct {
	kind inputKind
	// name is what the user sees: a path, a URL or "-".
	name string
	// path is the local file for inputFile.
	path string
}

func (s inputSource) writable() bool {
	return s.kind == inputFile
}

var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mkd":      true,
}

// collectInputs expands args into documents. Directories are walked for
// Markdown files; excludes are doublestar patterns matched against slash
// separated paths.
func collectInputs(args []string, excludes []string, logger *slog.Logger) ([]inputSource, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if len(args) == 0 {
		return []inputSource{{kind: inputStdin, name: "-"}}, nil
	}
	var out []inputSource
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, err
		}
		if src.kind != inputFile {
			out = append(out, src)
			continue
		}
		info, err := os.Stat(src.path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if excluded(excludes, src.name) {
				logger.Warn("skipping excluded input", "path", src.name)
				continue
			}
			out = append(out, src)
			continue
		}
		found, err := walkMarkdown(src.path, src.name, excludes, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return inputSource{kind: inputStdin, name: "-"}, nil
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{kind: inputURL, name: raw}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{kind: inputFile, name: path, path: normalizePath(path)}, nil
		}
	}
	return inputSource{kind: inputFile, name: raw, path: normalizePath(raw)}, nil
}

func walkMarkdown(root, display string, excludes []string, logger *slog.Logger) ([]inputSource, error) {
	var out []inputSource
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		name := filepath.Join(display, rel)
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && excluded(excludes, name, rel) {
				logger.Debug("skipping excluded directory", "path", name)
				return filepath.SkipDir
			}
			return nil
		}
		if !markdownExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if excluded(excludes, name, rel) {
			logger.Debug("skipping excluded file", "path", name)
			return nil
		}
		out = append(out, inputSource{kind: inputFile, name: name, path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", display, err)
	}
	return out, nil
}

// excluded reports whether any pattern matches one of names or the base
// name of the first.
func excluded(excludes []string, names ...string) bool {
	if len(excludes) == 0 || len(names) == 0 {
		return false
	}
	candidates := make([]string, 0, len(names)+1)
	for _, name := range names {
		candidates = append(candidates, filepath.ToSlash(filepath.Clean(name)))
	}
	candidates = append(candidates, filepath.Base(candidates[0]))
	for _, pattern := range excludes {
		for _, c := range candidates {
			if ok, _ := doublestar.Match(pattern, c); ok {
				return true
			}
		}
	}
	return false
}

// formatSource loads src and runs it through the pipeline without writing.
func formatSource(ctx context.Context, src inputSource, stdin io.Reader, cfg emspace.Config) (emspace.Result, error) {
	switch src.kind {
	case inputStdin:
		return emspace.FormatStream(emspace.FormatRequest{Reader: stdin, Config: cfg})
	case inputURL:
		return emspace.HTTPFormat(ctx, emspace.HTTPFormatRequest{URL: src.name, Config: cfg})
	}
	f, err := os.Open(src.path)
	if err != nil {
		return emspace.Result{}, err
	}
	defer f.Close()
	return emspace.FormatStream(emspace.FormatRequest{Reader: f, Config: cfg})
}

// writeInPlace replaces the file behind src, keeping its permissions.
func writeInPlace(src inputSource, content string) error {
	info, err := os.Stat(src.path)
	if err != nil {
		return err
	}
	return os.WriteFile(src.path, []byte(content), info.Mode().Perm())
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
