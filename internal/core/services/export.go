// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// ErrUnknownFormat is returned for export formats other than txt, json and doc.
var ErrUnknownFormat = errors.New("unknown export format")

// Export formats.
const (
	FormatTXT  = "txt"
	FormatJSON = "json"
	FormatDOC  = "doc"
)

// ExportFile is a rendered download.
type ExportFile struct {
	FileName string `json:"file_name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Exporter renders content into one download format. Content is a string,
// a script or any value that marshals to JSON.
type Exporter interface {
	Format() string
	MIMEType() string
	Render(content any) ([]byte, error)
}

// NewExporter returns the exporter for format.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatTXT:
		return textExporter{}, nil
	case FormatJSON:
		return jsonExporter{}, nil
	case FormatDOC:
		return docExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Export renders content and names the file "<name>.<format>".
func Export(name, format string, content any) (*ExportFile, error) {
	exporter, err := NewExporter(format)
	if err != nil {
		return nil, err
	}
	data, err := exporter.Render(content)
	if err != nil {
		return nil, err
	}
	return &ExportFile{FileName: name + "." + exporter.Format(), MIMEType: exporter.MIMEType(), Data: data}, nil
}

func asScript(content any) ([]model.ScriptLine, bool) {
	switch v := content.(type) {
	case []model.ScriptLine:
		return v, true
	case *[]model.ScriptLine:
		if v != nil {
			return *v, true
		}
	}
	return nil, false
}

func asText(content any) (string, bool) {
	switch v := content.(type) {
	case string:
		return v, true
	case *string:
		if v != nil {
			return *v, true
		}
	}
	return "", false
}

func indentedJSON(content any) ([]byte, error) {
	return json.MarshalIndent(content, "", "  ")
}

type jsonExporter struct{}

func (jsonExporter) Format() string   { return FormatJSON }
func (jsonExporter) MIMEType() string { return "application/json" }

func (jsonExporter) Render(content any) ([]byte, error) {
	return indentedJSON(content)
}

type textExporter struct{}

func (textExporter) Format() string   { return FormatTXT }
func (textExporter) MIMEType() string { return "text/plain" }

func (textExporter) Render(content any) ([]byte, error) {
	if s, ok := asText(content); ok {
		return []byte(s), nil
	}
	if script, ok := asScript(content); ok {
		blocks := make([]string, 0, len(script))
		for _, line := range script {
			blocks = append(blocks, fmt.Sprintf("[%s]\nVISUAL: %s\nAUDIO: %s\n-------------------", line.TimeRange, line.Visual, line.Audio))
		}
		return []byte(strings.Join(blocks, "\n")), nil
	}
	return indentedJSON(content)
}

type docExporter struct{}

func (docExporter) Format() string   { return FormatDOC }
func (docExporter) MIMEType() string { return "application/msword" }

const (
	docCell   = `<td style="border:1px solid #ddd; padding:8px;">%s</td>`
	docHeader = `<th style="border:1px solid #ddd; padding:12px; text-align:left;">%s</th>`
)

// Render wraps text and scripts in an HTML document Word opens natively.
// Other values are written as compact JSON without the wrapper.
func (docExporter) Render(content any) ([]byte, error) {
	var body bytes.Buffer
	if s, ok := asText(content); ok {
		body.WriteString(`<pre style="font-family: Arial; white-space: pre-wrap;">`)
		body.WriteString(html.EscapeString(s))
		body.WriteString("</pre>")
	} else if script, ok := asScript(content); ok {
		body.WriteString(`<table style="border-collapse: collapse; width: 100%;"><thead><tr style="background-color: #f2f2f2;">`)
		for _, h := range []string{"Timing", "Visual", "Audio"} {
			fmt.Fprintf(&body, docHeader, h)
		}
		body.WriteString("</tr></thead><tbody>")
		for _, line := range script {
			body.WriteString("<tr>")
			fmt.Fprintf(&body, docCell, html.EscapeString(line.TimeRange))
			fmt.Fprintf(&body, docCell, html.EscapeString(line.Visual))
			fmt.Fprintf(&body, docCell, html.EscapeString(line.Audio))
			body.WriteString("</tr>")
		}
		body.WriteString("</tbody></table>")
	} else {
		return json.Marshal(content)
	}

	var doc bytes.Buffer
	doc.WriteString("<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>\n")
	doc.WriteString("<head><meta charset='utf-8'><title>Export</title></head>\n")
	doc.WriteString("<body>")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}

// ExportRequest is the input of the export publish workflow.
type ExportRequest struct {
	Name    string `json:"name"`
	Format  string `json:"format"`
	Content any    `json:"content"`
}
