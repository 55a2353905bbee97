package extract

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"resumescore/internal/errors"
)

// TextFromBytes extracts plain text from PDF data held in memory.
func TextFromBytes(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractError(errors.ErrCodeExtractFailed,
			"Failed to open PDF", err)
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", errors.NewExtractError(errors.ErrCodeExtractFailed,
			"Failed to extract text from PDF", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plainText); err != nil {
		return "", errors.NewExtractError(errors.ErrCodeExtractFailed,
			"Failed to read extracted text", err)
	}

	return buf.String(), nil
}

// TextFromFile extracts plain text from a file. PDF files go through
// the PDF extractor; anything else is read as plain text.
func TextFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			"Failed to read input file", err).WithContext("path", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return TextFromBytes(data)
	}

	return string(data), nil
}
