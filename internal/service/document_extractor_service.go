package service

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	mimeCSV  = "text/csv"
	mimeText = "text/plain"
)

type DocumentExtractor interface {
	// Extract sniffs the content type and returns the document's plain text.
	Extract(data []byte) (string, error)
	// ExtractPDF accepts PDF content only.
	ExtractPDF(data []byte) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

func (e *documentExtractor) Extract(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	var (
		text string
		err  error
	)
	switch {
	case mt.Is(mimePDF):
		text, err = pdfText(data)
	case mt.Is(mimeDOCX):
		text, err = ooxmlText(data, func(name string) bool { return name == "word/document.xml" })
	case mt.Is(mimePPTX):
		text, err = ooxmlText(data, isSlidePart)
	case mt.Is(mimeCSV):
		text, err = csvText(data)
	case isText(mt):
		text = string(data)
	default:
		log.Warn().Str("mime", mt.String()).Msg("Extract: unsupported upload")
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, mt.String())
	}
	if err != nil {
		log.Warn().Err(err).Str("mime", mt.String()).Msg("Extract: failed to read document")
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, mt.Extension(), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func (e *documentExtractor) ExtractPDF(data []byte) (string, error) {
	if mt := mimetype.Detect(data); !mt.Is(mimePDF) {
		return "", fmt.Errorf("%w: expected PDF, got %s", ErrUnsupportedFileType, mt.String())
	}
	return e.Extract(data)
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return true
		}
	}
	return false
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// csvText joins each row's fields with spaces, one row per line, skipping the header.
func csvText(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var lines []string
	header := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if header {
			header = false
			continue
		}
		lines = append(lines, strings.Join(record, " "))
	}
	return strings.Join(lines, "\n"), nil
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml")
}

// ooxmlText reads the text runs of the matching zip parts, in slide order for
// presentations. Paragraph ends become newlines.
func ooxmlText(data []byte, match func(name string) bool) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var parts []*zip.File
	for _, f := range zr.File {
		if match(f.Name) {
			parts = append(parts, f)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return partNumber(parts[i].Name) < partNumber(parts[j].Name) })

	var sb strings.Builder
	for _, f := range parts {
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		err = xmlRuns(rc, &sb)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%s: %w", f.Name, err)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func partNumber(name string) int {
	base := strings.TrimSuffix(path.Base(name), ".xml")
	n, err := strconv.Atoi(strings.TrimLeft(base, "abcdefghijklmnopqrstuvwxyz"))
	if err != nil {
		return 0
	}
	return n
}

func xmlRuns(r io.Reader, sb *strings.Builder) error {
	dec := xml.NewDecoder(r)
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
}
