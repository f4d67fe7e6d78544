package wordml

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/chuhlomin/docxstyle/internal/wordml/wordmltest"
)

func parseDocument(t *testing.T, xml string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc
}

func TestAnalyzeStyles(t *testing.T) {
	styles, err := ParseStyles([]byte(wordmltest.SourceStyles))
	require.NoError(t, err)

	tests := []struct {
		description string
		opts        Options
		summaries   []StyleSummary
	}{
		{
			description: "Paragraph styles by default",
			opts:        Options{Mode: ModeStyles},
			summaries: []StyleSummary{
				{StyleID: "Normal", Name: "Normal", Type: TypeParagraph, Font: "Calibri", FontCount: 1, FontTotal: 1, Color: "000000", ColorCount: 1, ColorTotal: 1},
				{StyleID: "Heading1", Name: "heading 1", Type: TypeParagraph, Font: "Arial", FontCount: 1, FontTotal: 2, Color: "2F5496", ColorCount: 1, ColorTotal: 1},
			},
		},
		{
			description: "Character styles when asked for",
			opts:        Options{Mode: ModeStyles, StyleTypes: []string{TypeCharacter}},
			summaries: []StyleSummary{
				{StyleID: "Strong", Name: "Strong", Type: TypeCharacter, Font: "Georgia", FontCount: 1, FontTotal: 1},
			},
		},
		{
			description: "Include filter",
			opts: Options{Mode: ModeStyles, Include: func(st *StyleTally) bool {
				return st.StyleID == "Heading1"
			}},
			summaries: []StyleSummary{
				{StyleID: "Heading1", Name: "heading 1", Type: TypeParagraph, Font: "Arial", FontCount: 1, FontTotal: 2, Color: "2F5496", ColorCount: 1, ColorTotal: 1},
			},
		},
	}

	for _, test := range tests {
		got := AnalyzeStyles(styles, test.opts).Summaries()
		if diff := cmp.Diff(test.summaries, got); diff != "" {
			t.Errorf("%s: summaries mismatch (-want +got):\n%s", test.description, diff)
		}
	}
}

func TestAnalyzeDocument(t *testing.T) {
	styles, err := ParseStyles([]byte(wordmltest.SourceStyles))
	require.NoError(t, err)
	doc := parseDocument(t, wordmltest.SourceDocument)

	tests := []struct {
		description string
		opts        Options
		summaries   []StyleSummary
	}{
		{
			description: "Each run counts once",
			opts:        Options{Mode: ModeDocument, Weight: WeightRuns},
			summaries: []StyleSummary{
				{StyleID: "Normal", Name: "Normal", Type: TypeParagraph, Font: "Calibri", FontCount: 2, FontTotal: 3, Color: "FF0000", ColorCount: 1, ColorTotal: 1},
				{StyleID: "Heading1", Name: "heading 1", Type: TypeParagraph, Font: "Arial", FontCount: 1, FontTotal: 1, Color: "00FF00", ColorCount: 1, ColorTotal: 2},
			},
		},
		{
			description: "Runs weighted by text length",
			opts:        Options{Mode: ModeDocument, Weight: WeightChars},
			summaries: []StyleSummary{
				{StyleID: "Normal", Name: "Normal", Type: TypeParagraph, Font: "Verdana", FontCount: 25, FontTotal: 31, Color: "FF0000", ColorCount: 5, ColorTotal: 5},
				{StyleID: "Heading1", Name: "heading 1", Type: TypeParagraph, Font: "Arial", FontCount: 5, FontTotal: 5, Color: "0000FF", ColorCount: 5, ColorTotal: 5},
			},
		},
	}

	for _, test := range tests {
		got := AnalyzeDocument(doc, styles, test.opts).Summaries()
		if diff := cmp.Diff(test.summaries, got); diff != "" {
			t.Errorf("%s: summaries mismatch (-want +got):\n%s", test.description, diff)
		}
	}
}

func TestAnalyzeDocumentWithoutStyles(t *testing.T) {
	doc := parseDocument(t, wordmltest.Document(
		`<w:p><w:r><w:rPr><w:rFonts w:ascii="Arial"/></w:rPr><w:t>a</w:t></w:r></w:p>`,
		`<w:p><w:pPr><w:pStyle w:val="Caption"/></w:pPr><w:r><w:t>no properties</w:t></w:r></w:p>`,
	))

	tally := AnalyzeDocument(doc, nil, Options{Mode: ModeDocument})

	normal, ok := tally.Get("Normal")
	require.True(t, ok)
	require.Empty(t, normal.Name)
	require.Equal(t, 1, normal.Fonts.Count("Arial"))

	caption, ok := tally.Get("Caption")
	require.True(t, ok, "styles without observations are still tallied")
	require.Zero(t, caption.Fonts.Len())

	require.Equal(t, []StyleSummary{
		{StyleID: "Normal", Type: TypeParagraph, Font: "Arial", FontCount: 1, FontTotal: 1},
	}, tally.Summaries())
}

func TestAnalyzeDocumentNestedParagraphs(t *testing.T) {
	doc := parseDocument(t, wordmltest.Document(
		`<w:p><w:pPr><w:pStyle w:val="Body"/></w:pPr>`+
			`<w:r><w:rPr><w:rFonts w:ascii="Arial"/></w:rPr><w:t>outer</w:t>`+
			`<w:pict><w:txbxContent><w:p><w:pPr><w:pStyle w:val="Box"/></w:pPr>`+
			`<w:r><w:rPr><w:rFonts w:ascii="Courier New"/></w:rPr><w:t>inner</w:t></w:r></w:p></w:txbxContent></w:pict>`+
			`</w:r></w:p>`,
	))

	tally := AnalyzeDocument(doc, nil, Options{Mode: ModeDocument})

	body, ok := tally.Get("Body")
	require.True(t, ok)
	require.Equal(t, PairList{{"Arial", 1}}, body.Fonts.Pairs())

	box, ok := tally.Get("Box")
	require.True(t, ok)
	require.Equal(t, PairList{{"Courier New", 1}}, box.Fonts.Pairs())
}

func TestAnalyzeIgnoresThemeFontsAndBadColors(t *testing.T) {
	styles, err := ParseStyles([]byte(wordmltest.Styles(
		`<w:style w:type="paragraph" w:styleId="Body"><w:rPr>`+
			`<w:rFonts w:asciiTheme="minorHAnsi"/><w:color w:val="accent1"/></w:rPr></w:style>`,
		`<w:style w:type="paragraph" w:styleId="Auto"><w:rPr>`+
			`<w:rFonts w:ascii=" Cambria "/><w:color w:val="AUTO"/></w:rPr></w:style>`,
	)))
	require.NoError(t, err)

	require.Equal(t, []StyleSummary{
		{StyleID: "Auto", Type: TypeParagraph, Font: "Cambria", FontCount: 1, FontTotal: 1, Color: "auto", ColorCount: 1, ColorTotal: 1},
	}, AnalyzeStyles(styles, Options{}).Summaries())
}

func TestTallyMerge(t *testing.T) {
	styles, err := ParseStyles([]byte(wordmltest.SourceStyles))
	require.NoError(t, err)

	a := AnalyzeStyles(styles, Options{})
	b := AnalyzeDocument(parseDocument(t, wordmltest.SourceDocument), styles, Options{Mode: ModeDocument})
	a.Merge(b)

	normal, ok := a.Get("Normal")
	require.True(t, ok)
	require.Equal(t, PairList{{"Calibri", 3}, {"Verdana", 1}}, normal.Fonts.Pairs())
	require.Equal(t, PairList{{"000000", 1}, {"FF0000", 1}}, normal.Colors.Pairs())
}

func TestAnalyzePackage(t *testing.T) {
	path := wordmltest.WriteDocx(t, "source.docx", wordmltest.Parts(wordmltest.SourceStyles, wordmltest.SourceDocument))
	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	tally, err := Analyze(p, Options{Mode: ModeStyles})
	require.NoError(t, err)
	require.Len(t, tally.Summaries(), 2)

	tally, err = Analyze(p, Options{Mode: ModeDocument})
	require.NoError(t, err)
	require.Len(t, tally.Summaries(), 2)

	_, err = Analyze(p, Options{Mode: "numbering"})
	require.EqualError(t, err, `unknown mode "numbering"`)
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in  string
		out string
		ok  bool
	}{
		{"ff00aa", "FF00AA", true},
		{" 000000 ", "000000", true},
		{"Auto", "auto", true},
		{"red", "", false},
		{"12345", "", false},
		{"GGGGGG", "", false},
	}

	for _, test := range tests {
		out, ok := NormalizeColor(test.in)
		require.Equal(t, test.ok, ok, test.in)
		require.Equal(t, test.out, out, test.in)
	}
}

func TestNormalizeFont(t *testing.T) {
	require.Equal(t, "Caf\u00e9 Sans", NormalizeFont(" Cafe\u0301 Sans "))
}
