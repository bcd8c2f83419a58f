package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ErrNoWorkbook is returned when the archive contains no .xlsx member.
var ErrNoWorkbook = errors.New("dataset: archive contains no workbook")

// ExtractWorkbook unpacks the first .xlsx member of the zip archive at
// archivePath into destDir and returns the extracted file path. Unless
// keepArchive is set, the archive is removed after a successful
// extraction.
func ExtractWorkbook(archivePath, destDir string, keepArchive bool) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	var member *zip.File
	for _, f := range r.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".xlsx") {
			member = f
			break
		}
	}
	if member == nil {
		return "", ErrNoWorkbook
	}

	destPath := filepath.Join(destDir, filepath.Base(member.Name))
	if err := extractMember(member, destPath); err != nil {
		return "", err
	}

	if !keepArchive {
		r.Close()
		if err := os.Remove(archivePath); err != nil {
			return "", fmt.Errorf("remove archive %s: %w", archivePath, err)
		}
	}
	return destPath, nil
}

func extractMember(member *zip.File, destPath string) error {
	src, err := member.Open()
	if err != nil {
		return fmt.Errorf("open archive member %s: %w", member.Name, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".extract-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("extract %s: %w", member.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename workbook into place: %w", err)
	}
	return nil
}
