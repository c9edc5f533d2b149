// Package dataset downloads the MovieLens archive and extracts the two
// source files the pipeline reads.
package dataset

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/httputil"
	"github.com/wonny/cinemood/pkg/logger"
)

// Downloader is satisfied by *httputil.Client
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

var _ Downloader = (*httputil.Client)(nil)

// extractedFileMode is applied before rename (CreateTemp uses 0600)
const extractedFileMode os.FileMode = 0o644

// Result lists the extracted files
type Result struct {
	URL       string
	Bytes     int64
	Extracted []string // destination paths, in request order
}

// Fetcher downloads a zip archive and extracts selected files
// ⭐ SSOT: 원본 데이터셋 다운로드는 여기서만
type Fetcher struct {
	client Downloader
	logger *logger.Logger
}

// NewFetcher creates a new Fetcher
func NewFetcher(client Downloader, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: log.WithComponent("dataset"),
	}
}

// Fetch downloads url and writes the archive entries whose base name is in
// files into destDir. Entries are matched by base name, so the archive's
// top-level folder (ml-latest-small/) does not matter. Existing files are
// replaced only after the whole archive has been read successfully.
func (f *Fetcher) Fetch(ctx context.Context, url, destDir string, files ...string) (*Result, error) {
	if len(files) == 0 {
		return nil, contracts.NewValidationError("dataset", "files", "nothing to extract")
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	archive, err := os.CreateTemp(destDir, ".download-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(archive.Name())
	defer archive.Close()

	f.logger.WithField("url", url).Info("Downloading dataset")

	n, err := f.client.Download(ctx, url, archive)
	if err != nil {
		return nil, fmt.Errorf("download dataset: %w", err)
	}

	zr, err := zip.NewReader(archive, n)
	if err != nil {
		return nil, contracts.NewValidationError(url, "", fmt.Sprintf("not a zip archive: %v", err))
	}

	entries := make(map[string]*zip.File, len(files))
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		name := path.Base(zf.Name)
		if _, seen := entries[name]; !seen {
			entries[name] = zf
		}
	}

	// 모두 존재하는지 먼저 확인 (일부만 교체되는 상황 방지)
	for _, name := range files {
		if _, ok := entries[name]; !ok {
			return nil, contracts.NewValidationError(url, name, "file not found in archive")
		}
	}

	staged := make([]string, 0, len(files))
	defer func() {
		for _, p := range staged {
			_ = os.Remove(p)
		}
	}()

	for _, name := range files {
		tmp, err := extract(entries[name], destDir)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", name, err)
		}
		staged = append(staged, tmp)
	}

	result := &Result{URL: url, Bytes: n, Extracted: make([]string, 0, len(files))}
	for i, name := range files {
		dest := filepath.Join(destDir, name)
		if err := os.Rename(staged[i], dest); err != nil {
			return nil, fmt.Errorf("install %s: %w", name, err)
		}
		result.Extracted = append(result.Extracted, dest)
	}
	staged = staged[:0]

	f.logger.WithFields(map[string]interface{}{
		"url":   url,
		"bytes": n,
		"files": result.Extracted,
	}).Info("Dataset extracted")

	return result, nil
}

// extract copies one archive entry into a temp file in dir
func extract(zf *zip.File, dir string) (string, error) {
	src, err := zf.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, ".extract-*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Chmod(extractedFileMode); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
