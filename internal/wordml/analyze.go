package wordml

import (
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Mode selects the part fonts and colors are collected from.
type Mode string

const (
	// ModeStyles tallies the run properties of each style definition.
	ModeStyles Mode = "styles"
	// ModeDocument tallies the run properties of the paragraphs using each style.
	ModeDocument Mode = "document"
)

// Weight selects how much one observation counts.
type Weight string

const (
	WeightRuns  Weight = "runs"
	WeightChars Weight = "chars"
)

// Options control the analysis.
type Options struct {
	Mode   Mode
	Weight Weight
	// StyleTypes limits ModeStyles to these style types. Empty means paragraph.
	StyleTypes []string
	// Include, when set, keeps only styles it accepts.
	Include func(st *StyleTally) bool
}

// StyleTally holds the font and color counts of one style.
type StyleTally struct {
	StyleID string
	Name    string
	Type    string
	Fonts   *Counter
	Colors  *Counter
}

func newStyleTally(id string) *StyleTally {
	return &StyleTally{
		StyleID: id,
		Type:    TypeParagraph,
		Fonts:   NewCounter(),
		Colors:  NewCounter(),
	}
}

// Tally is the per-style result of an analysis.
type Tally struct {
	styles map[string]*StyleTally
	order  []string
}

func NewTally() *Tally {
	return &Tally{styles: map[string]*StyleTally{}}
}

func (t *Tally) style(id string) *StyleTally {
	st, ok := t.styles[id]
	if !ok {
		st = newStyleTally(id)
		t.styles[id] = st
		t.order = append(t.order, id)
	}
	return st
}

// Get returns the tally of one style.
func (t *Tally) Get(id string) (*StyleTally, bool) {
	st, ok := t.styles[id]
	return st, ok
}

// Styles returns the style tallies in first-seen order.
func (t *Tally) Styles() []*StyleTally {
	out := make([]*StyleTally, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.styles[id])
	}
	return out
}

// Merge adds the counts of other into t.
func (t *Tally) Merge(other *Tally) {
	for _, id := range other.order {
		src := other.styles[id]
		dst := t.style(id)
		if dst.Name == "" {
			dst.Name = src.Name
		}
		if src.Type != "" {
			dst.Type = src.Type
		}
		dst.Fonts.Merge(src.Fonts)
		dst.Colors.Merge(src.Colors)
	}
}

// StyleSummary is the dominant font and color of one style.
type StyleSummary struct {
	StyleID    string `json:"style_id" yaml:"style_id" toml:"style_id"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Font       string `json:"font,omitempty" yaml:"font,omitempty" toml:"font,omitempty"`
	FontCount  int    `json:"font_count,omitempty" yaml:"font_count,omitempty" toml:"font_count,omitempty"`
	FontTotal  int    `json:"font_total,omitempty" yaml:"font_total,omitempty" toml:"font_total,omitempty"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	ColorCount int    `json:"color_count,omitempty" yaml:"color_count,omitempty" toml:"color_count,omitempty"`
	ColorTotal int    `json:"color_total,omitempty" yaml:"color_total,omitempty" toml:"color_total,omitempty"`
}

// Summaries returns one summary per style that has at least one font or
// color observation.
func (t *Tally) Summaries() []StyleSummary {
	var out []StyleSummary
	for _, st := range t.Styles() {
		s := StyleSummary{StyleID: st.StyleID, Name: st.Name, Type: st.Type}
		if p, ok := st.Fonts.MostCommon(); ok {
			s.Font, s.FontCount, s.FontTotal = p.Key, p.Value, st.Fonts.Total()
		}
		if p, ok := st.Colors.MostCommon(); ok {
			s.Color, s.ColorCount, s.ColorTotal = p.Key, p.Value, st.Colors.Total()
		}
		if s.Font == "" && s.Color == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Analyze tallies fonts and colors per style in the package.
func Analyze(p *Package, opts Options) (*Tally, error) {
	switch opts.Mode {
	case ModeStyles, "":
		styles, err := p.ReadStyles()
		if err != nil {
			return nil, err
		}
		return AnalyzeStyles(styles, opts), nil

	case ModeDocument:
		doc, err := p.ReadXML(PartDocument)
		if err != nil {
			return nil, err
		}
		var styles *Styles
		if p.Has(PartStyles) {
			if styles, err = p.ReadStyles(); err != nil {
				return nil, err
			}
		}
		return AnalyzeDocument(doc, styles, opts), nil
	}

	return nil, errors.Errorf("unknown mode %q", opts.Mode)
}

// AnalyzeStyles tallies the run properties found inside each style definition.
func AnalyzeStyles(styles *Styles, opts Options) *Tally {
	types := opts.StyleTypes
	if len(types) == 0 {
		types = []string{TypeParagraph}
	}

	t := NewTally()
	for _, s := range styles.All() {
		if indexOf(types, s.Type) < 0 {
			continue
		}

		st := newStyleTally(s.ID)
		st.Name, st.Type = s.Name, s.Type
		if opts.Include != nil && !opts.Include(st) {
			continue
		}

		for _, rPr := range descendants(s.el, "rPr") {
			observe(st, rPr, 1)
		}
		t.styles[s.ID] = st
		t.order = append(t.order, s.ID)
	}
	return t
}

// AnalyzeDocument tallies the run properties of the body paragraphs, grouped
// by paragraph style. styles may be nil.
func AnalyzeDocument(doc *etree.Document, styles *Styles, opts Options) *Tally {
	t := NewTally()
	skipped := map[string]bool{}
	defaultStyle := styles.DefaultParagraphStyle()

	for _, p := range descendants(doc.Root(), "p") {
		pPr := child(p, "pPr")
		id := wAttrValue(child(pPr, "pStyle"), "val")
		if id == "" {
			id = defaultStyle
		}
		if skipped[id] {
			continue
		}

		st, known := t.styles[id]
		if !known {
			st = newStyleTally(id)
			if styles != nil {
				if s, ok := styles.Lookup(id); ok {
					st.Name, st.Type = s.Name, s.Type
				}
			}
			if opts.Include != nil && !opts.Include(st) {
				skipped[id] = true
				continue
			}
			t.styles[id] = st
			t.order = append(t.order, id)
		}

		if opts.Weight != WeightChars {
			observe(st, child(pPr, "rPr"), 1)
		}
		for _, r := range paragraphRuns(p) {
			n := 1
			if opts.Weight == WeightChars {
				n = runLength(r)
			}
			observe(st, child(r, "rPr"), n)
		}
	}
	return t
}

// paragraphRuns returns the runs of p, including runs wrapped in hyperlinks,
// tracked insertions and similar containers, but not the runs of paragraphs
// nested inside p (text boxes).
func paragraphRuns(p *etree.Element) []*etree.Element {
	var runs []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			switch {
			case isW(c, "p"):
				continue
			case isW(c, "r"):
				runs = append(runs, c)
			}
			walk(c)
		}
	}
	walk(p)
	return runs
}

func runLength(r *etree.Element) int {
	n := 0
	for _, t := range r.ChildElements() {
		if isW(t, "t") {
			n += utf8.RuneCountInString(t.Text())
		}
	}
	return n
}

func observe(st *StyleTally, rPr *etree.Element, n int) {
	if rPr == nil || n <= 0 {
		return
	}
	if font, ok := wAttr(child(rPr, "rFonts"), "ascii"); ok {
		if font = NormalizeFont(font); font != "" {
			st.Fonts.Add(font, n)
		}
	}
	if color, ok := wAttr(child(rPr, "color"), "val"); ok {
		if color, ok = NormalizeColor(color); ok {
			st.Colors.Add(color, n)
		}
	}
}

// NormalizeFont trims a font name and puts it in Unicode NFC form.
func NormalizeFont(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NormalizeColor returns an upper-case RRGGBB value or "auto".
func NormalizeColor(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "auto") {
		return "auto", true
	}
	if len(v) != 6 {
		return "", false
	}
	for _, r := range v {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	return strings.ToUpper(v), true
}
