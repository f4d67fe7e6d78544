package wordml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chuhlomin/docxstyle/internal/wordml/wordmltest"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseStyles(t *testing.T) {
	styles, err := ParseStyles([]byte(wordmltest.SourceStyles))
	require.NoError(t, err)

	var ids []string
	for _, st := range styles.All() {
		ids = append(ids, st.ID)
	}
	require.Equal(t, []string{"Normal", "Heading1", "Quote", "Strong"}, ids)

	h, ok := styles.Lookup("Heading1")
	require.True(t, ok)
	require.Equal(t, "heading 1", h.Name)
	require.Equal(t, TypeParagraph, h.Type)
	require.Equal(t, "Normal", h.BasedOn)
	require.False(t, h.Default)
	require.Equal(t, "Times New Roman", h.Font())
	require.Equal(t, "2f5496", h.Color())

	strong, ok := styles.Lookup("Strong")
	require.True(t, ok)
	require.Equal(t, TypeCharacter, strong.Type)
	require.Empty(t, strong.Color())

	_, ok = styles.Lookup("Missing")
	require.False(t, ok)

	require.Equal(t, "Normal", styles.DefaultParagraphStyle())
}

func TestParseStylesEdgeCases(t *testing.T) {
	tests := []struct {
		description  string
		xml          string
		ids          []string
		types        []string
		defaultStyle string
	}{
		{
			description: "Style without styleId is skipped",
			xml: wordmltest.Styles(
				`<w:style w:type="paragraph"><w:name w:val="anonymous"/></w:style>`,
				`<w:style w:type="paragraph" w:styleId="Body"/>`,
			),
			ids:          []string{"Body"},
			types:        []string{TypeParagraph},
			defaultStyle: "Normal",
		},
		{
			description: "Missing type means paragraph",
			xml: wordmltest.Styles(
				`<w:style w:styleId="Body" w:default="true"/>`,
			),
			ids:          []string{"Body"},
			types:        []string{TypeParagraph},
			defaultStyle: "Body",
		},
		{
			description: "Duplicate ids keep the first definition",
			xml: wordmltest.Styles(
				`<w:style w:type="table" w:styleId="Grid"/>`,
				`<w:style w:type="paragraph" w:styleId="Grid"/>`,
			),
			ids:          []string{"Grid"},
			types:        []string{TypeTable},
			defaultStyle: "Normal",
		},
		{
			description: "Default flag on a character style is not the paragraph default",
			xml: wordmltest.Styles(
				`<w:style w:type="character" w:default="1" w:styleId="DefaultParagraphFont"/>`,
			),
			ids:          []string{"DefaultParagraphFont"},
			types:        []string{TypeCharacter},
			defaultStyle: "Normal",
		},
	}

	for _, test := range tests {
		styles, err := ParseStyles([]byte(test.xml))
		require.NoError(t, err, test.description)

		var ids, types []string
		for _, st := range styles.All() {
			ids = append(ids, st.ID)
			types = append(types, st.Type)
		}
		require.Equal(t, test.ids, ids, test.description)
		require.Equal(t, test.types, types, test.description)
		require.Equal(t, test.defaultStyle, styles.DefaultParagraphStyle(), test.description)
	}
}

func TestParseStylesCustomPrefix(t *testing.T) {
	xml := `<x:styles xmlns:x="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<x:style x:type="paragraph" x:styleId="Normal"><x:name x:val="Normal"/>` +
		`<x:rPr><x:rFonts x:ascii="Arial"/></x:rPr></x:style></x:styles>`

	styles, err := ParseStyles([]byte(xml))
	require.NoError(t, err)

	st, ok := styles.Lookup("Normal")
	require.True(t, ok)
	require.Equal(t, "Normal", st.Name)
	require.Equal(t, "Arial", st.Font())
}

func TestParseStylesWrongNamespace(t *testing.T) {
	tests := []struct {
		description string
		xml         string
	}{
		{
			description: "Other namespace",
			xml:         `<w:styles xmlns:w="urn:example"/>`,
		},
		{
			description: "Not a style table",
			xml:         wordmltest.Document(),
		},
		{
			description: "Malformed",
			xml:         `<w:styles`,
		},
	}

	for _, test := range tests {
		_, err := ParseStyles([]byte(test.xml))
		require.Error(t, err, test.description)
	}
}
