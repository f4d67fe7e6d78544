// Package wordmltest builds small .docx archives for tests.
package wordmltest

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const ContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const Rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Styles wraps style definitions into a word/styles.xml part.
func Styles(styles ...string) string {
	return header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		strings.Join(styles, "") + `</w:styles>`
}

// Document wraps body content into a word/document.xml part.
func Document(body ...string) string {
	return header + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		strings.Join(body, "") + `</w:body></w:document>`
}

// SourceStyles is a style table with run properties in three paragraph
// styles and one character style.
var SourceStyles = Styles(
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/>`+
		`<w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:color w:val="000000"/></w:rPr></w:style>`,
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>`+
		`<w:pPr><w:rPr><w:rFonts w:ascii="Arial"/></w:rPr></w:pPr>`+
		`<w:rPr><w:rFonts w:ascii="Times New Roman"/><w:color w:val="2f5496"/></w:rPr></w:style>`,
	`<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/></w:style>`,
	`<w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/>`+
		`<w:rPr><w:rFonts w:ascii="Georgia"/></w:rPr></w:style>`,
)

// TargetStyles is a style table to apply an analysis to.
var TargetStyles = Styles(
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/>`+
		`<w:pPr><w:spacing w:after="160"/></w:pPr></w:style>`,
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/>`+
		`<w:rPr><w:rFonts w:asciiTheme="majorHAnsi" w:hAnsiTheme="majorHAnsi"/><w:sz w:val="32"/></w:rPr></w:style>`,
)

// SourceDocument has paragraphs in Normal (implicitly) and Heading1.
var SourceDocument = Document(
	`<w:p><w:r><w:rPr><w:rFonts w:ascii="Calibri"/><w:color w:val="FF0000"/></w:rPr><w:t>short</w:t></w:r>`+
		`<w:r><w:rPr><w:rFonts w:ascii="Verdana"/></w:rPr><w:t>a much longer run of text</w:t></w:r>`+
		`<w:r><w:rPr><w:rFonts w:ascii="Calibri"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
	`<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:rPr><w:color w:val="00FF00"/></w:rPr></w:pPr>`+
		`<w:hyperlink><w:r><w:rPr><w:rFonts w:ascii="Arial"/><w:color w:val="0000ff"/></w:rPr><w:t>Title</w:t></w:r></w:hyperlink></w:p>`,
)

// Parts returns a minimal package with the given styles and document parts.
func Parts(styles, document string) map[string]string {
	parts := map[string]string{
		"[Content_Types].xml": ContentTypes,
		"_rels/.rels":         Rels,
	}
	if styles != "" {
		parts["word/styles.xml"] = styles
	}
	if document != "" {
		parts["word/document.xml"] = document
	}
	return parts
}

// WriteDocx writes the parts into a new .docx under t.TempDir() and returns
// its path. Entries are written in a fixed order.
func WriteDocx(t testing.TB, name string, parts map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, n := range order(parts) {
		out, err := w.Create(n)
		require.NoError(t, err)
		_, err = out.Write([]byte(parts[n]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

// ReadPart returns one entry of the archive at path.
func ReadPart(t testing.TB, path, name string) string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()

		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("part %s not found in %s", name, path)
	return ""
}

func order(parts map[string]string) []string {
	known := []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml"}
	var names, extra []string
	for _, n := range known {
		if _, ok := parts[n]; ok {
			names = append(names, n)
		}
	}
	for n := range parts {
		if indexOf(known, n) < 0 {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
