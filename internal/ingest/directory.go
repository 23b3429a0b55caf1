package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/upload"
)

type FileResult struct {
	Path string
	Name string
	Err  string
}

type DirStats struct {
	Scanned uint32
	Matched uint32
	Read    uint32
	Failed  uint32
}

// ScanDirectory walks root and reads every file with an allowed extension into
// an upload candidate. Candidates are named by their path relative to root so
// equal base names in different folders stay distinct in the queue.
func ScanDirectory(root string, skipHidden bool, logger *slog.Logger) ([]upload.Candidate, []FileResult, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}

	var (
		candidates []upload.Candidate
		results    []FileResult
		stats      DirStats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		name, err := filepath.Rel(root, path)
		if err != nil {
			name = filepath.Base(path)
		}
		c, err := ReadCandidate(path, filepath.ToSlash(name))
		if err != nil {
			results = append(results, FileResult{Path: path, Name: name, Err: err.Error()})
			stats.Failed++
			return nil
		}
		candidates = append(candidates, c)
		results = append(results, FileResult{Path: path, Name: c.Name})
		stats.Read++
		return nil
	})
	if err != nil {
		return candidates, results, stats, fmt.Errorf("walk: %w", err)
	}

	logger.Info("ingest.scan.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"read", stats.Read,
		"failed", stats.Failed,
	)
	return candidates, results, stats, nil
}

// ReadCandidate loads one file from disk. The declared mime type comes from
// the extension; the queue still enforces its own size and type rules.
func ReadCandidate(path, name string) (upload.Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return upload.Candidate{}, err
	}
	if info.IsDir() {
		return upload.Candidate{}, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return upload.Candidate{}, fmt.Errorf("read %s: %w", path, err)
	}
	if name == "" {
		name = filepath.Base(path)
	}
	return upload.Candidate{Name: name, MimeType: mimeForExt(filepath.Ext(path)), Data: data}, nil
}

func mimeForExt(ext string) string {
	if constants.NormalizeExt(ext) == "pdf" {
		return constants.MimePDF
	}
	return "application/octet-stream"
}

// AllowedExt checks if a file extension is in constants.AllowedExtensions.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
