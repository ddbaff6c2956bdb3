package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF documents, one segment per page.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

var _ Extractor = (*PDFExtractor)(nil)

// Extract parses the PDF and returns one segment per non-empty page.
// Pages are numbered from 1. Returns ErrNoText when the whole document
// yields no text.
func (e *PDFExtractor) Extract(ctx context.Context, content []byte) ([]Segment, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e.logger.Error("failed to create PDF reader",
			slog.String("error", err.Error()),
			slog.Int("data_size", len(content)))
		return nil, fmt.Errorf("create PDF reader: %w", err)
	}

	totalPages := reader.NumPage()
	e.logger.Debug("starting PDF text extraction", slog.Int("total_pages", totalPages))

	var segments []Segment
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			e.logger.Warn("null page encountered", slog.Int("page_number", pageIndex))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract text from page %d: %w", pageIndex, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pageNum := pageIndex
		segments = append(segments, Segment{Text: text, PageNumber: &pageNum})
	}

	if len(segments) == 0 {
		return nil, ErrNoText
	}

	e.logger.Info("extracted text from PDF",
		slog.Int("total_pages", totalPages),
		slog.Int("segments", len(segments)))

	return segments, nil
}
