package wordml

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/chuhlomin/docxstyle/internal/wordml/wordmltest"
)

func TestOpen(t *testing.T) {
	path := wordmltest.WriteDocx(t, "source.docx", wordmltest.Parts(wordmltest.SourceStyles, wordmltest.SourceDocument))

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, path, p.Path())
	require.Equal(t, []string{"[Content_Types].xml", "_rels/.rels", PartDocument, PartStyles}, p.Parts())
	require.True(t, p.Has(PartStyles))
	require.False(t, p.Has("word/numbering.xml"))

	b, err := p.ReadPart(PartStyles)
	require.NoError(t, err)
	require.Equal(t, wordmltest.SourceStyles, string(b))
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		description string
		path        func(t *testing.T) string
	}{
		{
			description: "Missing file",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.docx")
			},
		},
		{
			description: "Not a zip archive",
			path: func(t *testing.T) string {
				return writeFile(t, "plain.docx", "hello")
			},
		},
	}

	for _, test := range tests {
		_, err := Open(test.path(t))
		require.Error(t, err, test.description)
	}
}

func TestReadPartNotFound(t *testing.T) {
	path := wordmltest.WriteDocx(t, "doc.docx", wordmltest.Parts("", wordmltest.SourceDocument))

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.ReadPart(PartStyles)
	require.True(t, errors.Is(err, ErrPartNotFound))
	require.Contains(t, err.Error(), PartStyles)

	_, err = p.ReadStyles()
	require.True(t, errors.Is(err, ErrPartNotFound))
}

func TestReadXMLMalformed(t *testing.T) {
	parts := wordmltest.Parts("<w:styles", wordmltest.SourceDocument)
	path := wordmltest.WriteDocx(t, "broken.docx", parts)

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.ReadXML(PartStyles)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse word/styles.xml")
}

func TestWriteTo(t *testing.T) {
	path := wordmltest.WriteDocx(t, "source.docx", wordmltest.Parts(wordmltest.SourceStyles, wordmltest.SourceDocument))

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	var buf bytes.Buffer
	err = p.WriteTo(&buf, map[string][]byte{PartStyles: []byte(wordmltest.TargetStyles)})
	require.NoError(t, err)

	out, err := NewPackage(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Equal(t, p.Parts(), out.Parts())

	b, err := out.ReadPart(PartStyles)
	require.NoError(t, err)
	require.Equal(t, wordmltest.TargetStyles, string(b))

	b, err = out.ReadPart(PartDocument)
	require.NoError(t, err)
	require.Equal(t, wordmltest.SourceDocument, string(b))
}

func TestWriteToUnknownPart(t *testing.T) {
	path := wordmltest.WriteDocx(t, "source.docx", wordmltest.Parts("", wordmltest.SourceDocument))

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	var buf bytes.Buffer
	err = p.WriteTo(&buf, map[string][]byte{PartStyles: []byte("<x/>")})
	require.True(t, errors.Is(err, ErrPartNotFound))
	require.Zero(t, buf.Len())
}
