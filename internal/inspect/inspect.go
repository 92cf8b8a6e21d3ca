// Package inspect checks produced documents: structural validation and page
// count, plain-text extraction, and first-page previews.
package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrNotPDF = errors.New("not a pdf document")

func init() {
	api.DisableConfigDir()
}

// Report summarises one document.
type Report struct {
	Pages int    `json:"pages"`
	Size  int    `json:"sizeBytes"`
	Text  string `json:"text"`
}

// Verify validates b and returns its page count.
func Verify(b []byte) (int, error) {
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		return 0, ErrNotPDF
	}
	conf := model.NewDefaultConfiguration()
	if err := api.Validate(bytes.NewReader(b), conf); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	n, err := api.PageCount(bytes.NewReader(b), conf)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// ExtractText returns the document's text with whitespace collapsed.
func ExtractText(b []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// Inspect runs Verify and ExtractText.
func Inspect(b []byte) (Report, error) {
	pages, err := Verify(b)
	if err != nil {
		return Report{}, err
	}
	text, err := ExtractText(b)
	if err != nil {
		return Report{}, err
	}
	return Report{Pages: pages, Size: len(b), Text: text}, nil
}

// Preview renders one page as JPEG.
func Preview(b []byte, page int) ([]byte, error) {
	doc, err := fitz.NewFromMemory(b)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (%d pages)", page, doc.NumPage())
	}
	img, err := doc.Image(page)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", page, err)
	}
	return buf.Bytes(), nil
}
