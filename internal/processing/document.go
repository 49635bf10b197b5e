package processing

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Threshold below which extracted text is considered too sparse, hinting
// the PDF is a scan that would need OCR.
const ocrTextThreshold = 50

// ExtractText pulls the text layer out of a PDF using pdftotext.
// maxPages <= 0 extracts every page.
func ExtractText(path string, maxPages int) (string, error) {
	args := []string{}
	if maxPages > 0 {
		args = append(args, "-l", strconv.Itoa(maxPages))
	}
	args = append(args, path, "-")

	output, err := exec.Command("pdftotext", args...).Output()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// PageCount reads the page count from pdfinfo output.
func PageCount(path string) (int, error) {
	output, err := exec.Command("pdfinfo", path).Output()
	if err != nil {
		return 0, fmt.Errorf("failed to read document info: %v", err)
	}
	for _, line := range strings.Split(string(output), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			count, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err != nil {
				return 0, fmt.Errorf("failed to parse page count: %v", err)
			}
			return count, nil
		}
	}
	return 0, fmt.Errorf("page count not present in document info")
}

// NeedsOCR reports whether the extracted text is sparse enough that the
// document is likely a scan.
func NeedsOCR(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < ocrTextThreshold
}

// OCRText rasterizes up to maxPages pages with pdftoppm and runs
// tesseract over each page image. maxPages <= 0 processes every page.
func OCRText(path string, maxPages int, language string) (string, error) {
	if language == "" {
		language = "eng"
	}

	dir, err := os.MkdirTemp("", "ocr-")
	if err != nil {
		return "", fmt.Errorf("failed to prepare OCR workspace: %v", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	args := []string{"-png", "-r", "300"}
	if maxPages > 0 {
		args = append(args, "-l", strconv.Itoa(maxPages))
	}
	args = append(args, path, prefix)
	if err := exec.Command("pdftoppm", args...).Run(); err != nil {
		return "", fmt.Errorf("failed to rasterize document: %v", err)
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(pages) == 0 {
		return "", fmt.Errorf("no pages rasterized for OCR")
	}
	sort.Strings(pages)

	var parts []string
	for _, page := range pages {
		output, err := exec.Command("tesseract", page, "-", "-l", language).Output()
		if err != nil {
			return "", fmt.Errorf("failed to run OCR: %v", err)
		}
		if text := strings.TrimSpace(string(output)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
