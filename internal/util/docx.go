package util

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ExtractText returns the plain text of an uploaded document. .docx files
// are unpacked and read from word/document.xml, everything else is treated
// as plain text.
func ExtractText(fileName string, data []byte) (string, error) {
	if GetFileExt(fileName) == ".docx" {
		return extractDocxText(data)
	}
	return string(data), nil
}

// extractDocxText pulls the character data out of word/document.xml.
// Paragraphs (<w:p>) become newlines so tag markers split across runs
// inside one paragraph stay on one line.
func extractDocxText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var document *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("open word/document.xml: %w", err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			fmt.Printf("failed to close document.xml: %v", cerr)
		}
	}()

	var sb strings.Builder
	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode word/document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String(), nil
}
