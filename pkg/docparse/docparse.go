// Package docparse extracts raw text from planning documents. Unsupported
// formats yield empty text rather than an error; the controller treats empty
// text as an abort condition.
package docparse

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PlanningInput is the extracted planning document. Immutable once produced.
type PlanningInput struct {
	Text   string
	Source string
	Format string
}

// IsEmpty reports whether extraction produced no usable text.
func (p PlanningInput) IsEmpty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Parse extracts text from the document at path based on its extension.
// A missing file is an error; an unsupported extension is not.
func Parse(path string) (PlanningInput, error) {
	if _, err := os.Stat(path); err != nil {
		return PlanningInput{}, fmt.Errorf("planning document %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown", ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return PlanningInput{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		format := "markdown"
		if ext == ".txt" {
			format = "text"
		}
		return PlanningInput{Text: norm.NFC.String(string(data)), Source: path, Format: format}, nil
	case ".pptx":
		text, err := parsePptx(path)
		if err != nil {
			// Parse failures surface as empty text, per the extractor contract.
			return PlanningInput{Source: path, Format: "pptx"}, nil
		}
		return PlanningInput{Text: norm.NFC.String(text), Source: path, Format: "pptx"}, nil
	default:
		// .pdf, .xlsx and anything else we cannot read: empty, not an error.
		return PlanningInput{Source: path, Format: "unsupported"}, nil
	}
}

var slidePathRegex = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// parsePptx pulls the visible text runs out of each slide of a .pptx archive.
// Output mirrors one markdown section per slide with bullet lines.
func parsePptx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pptx archive: %w", err)
	}
	defer archive.Close()

	type slide struct {
		number int
		file   *zip.File
	}
	var slides []slide
	for _, f := range archive.File {
		if m := slidePathRegex.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{number: n, file: f})
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var sections []string
	for _, s := range slides {
		lines, err := extractSlideText(s.file)
		if err != nil {
			return "", err
		}
		section := []string{fmt.Sprintf("## Slide %d", s.number)}
		for _, line := range lines {
			section = append(section, "- "+line)
		}
		sections = append(sections, strings.Join(section, "\n"))
	}
	return strings.Join(sections, "\n\n"), nil
}

// extractSlideText returns one entry per paragraph, concatenating the text
// runs (<a:t> elements) within each <a:p> paragraph.
func extractSlideText(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open slide %s: %w", f.Name, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var lines []string
	var paragraph strings.Builder
	inTextRun := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode slide %s: %w", f.Name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				if line := strings.TrimSpace(paragraph.String()); line != "" {
					lines = append(lines, strings.ReplaceAll(line, "\n", " "))
				}
				paragraph.Reset()
			}
		case xml.CharData:
			if inTextRun {
				paragraph.Write(t)
			}
		}
	}
	if line := strings.TrimSpace(paragraph.String()); line != "" {
		lines = append(lines, strings.ReplaceAll(line, "\n", " "))
	}
	return lines, nil
}
