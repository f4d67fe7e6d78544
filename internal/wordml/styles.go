package wordml

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Style types defined by WordprocessingML.
const (
	TypeParagraph = "paragraph"
	TypeCharacter = "character"
	TypeTable     = "table"
	TypeNumbering = "numbering"
)

// Style is one w:style definition.
type Style struct {
	ID      string
	Name    string
	Type    string
	BasedOn string
	Default bool

	el *etree.Element
}

// Styles is the parsed word/styles.xml part.
type Styles struct {
	doc  *etree.Document
	list []*Style
	byID map[string]*Style
}

// ParseStyles parses the content of word/styles.xml.
func ParseStyles(data []byte) (*Styles, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, "parse styles")
	}
	return newStyles(doc)
}

func newStyles(doc *etree.Document) (*Styles, error) {
	root := doc.Root()
	if !isW(root, "styles") {
		return nil, errors.New("root element is not w:styles")
	}

	s := &Styles{doc: doc, byID: map[string]*Style{}}
	for _, el := range root.ChildElements() {
		if !isW(el, "style") {
			continue
		}
		id, ok := wAttr(el, "styleId")
		if !ok || id == "" {
			continue
		}
		if _, dup := s.byID[id]; dup {
			continue
		}

		st := &Style{
			ID:      id,
			Type:    TypeParagraph,
			Name:    wAttrValue(child(el, "name"), "val"),
			BasedOn: wAttrValue(child(el, "basedOn"), "val"),
			el:      el,
		}
		if t, ok := wAttr(el, "type"); ok && t != "" {
			st.Type = t
		}
		if d, ok := wAttr(el, "default"); ok {
			st.Default = isOn(d)
		}

		s.list = append(s.list, st)
		s.byID[id] = st
	}
	return s, nil
}

// ReadStyles parses word/styles.xml from the package.
func (p *Package) ReadStyles() (*Styles, error) {
	doc, err := p.ReadXML(PartStyles)
	if err != nil {
		return nil, err
	}
	return newStyles(doc)
}

// Lookup returns the style with the given id.
func (s *Styles) Lookup(id string) (*Style, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// All returns the styles in document order.
func (s *Styles) All() []*Style {
	return s.list
}

// DefaultParagraphStyle returns the id of the paragraph style applied to
// paragraphs without a w:pStyle.
func (s *Styles) DefaultParagraphStyle() string {
	if s != nil {
		for _, st := range s.list {
			if st.Type == TypeParagraph && st.Default {
				return st.ID
			}
		}
	}
	return "Normal"
}

// Bytes serializes the (possibly modified) style table.
func (s *Styles) Bytes() ([]byte, error) {
	b, err := s.doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "serialize styles")
	}
	return b, nil
}

// Font returns w:rFonts/@w:ascii of the style's own run properties.
func (st *Style) Font() string {
	return wAttrValue(child(child(st.el, "rPr"), "rFonts"), "ascii")
}

// Color returns w:color/@w:val of the style's own run properties.
func (st *Style) Color() string {
	return wAttrValue(child(child(st.el, "rPr"), "color"), "val")
}

// isOn interprets an ST_OnOff value.
func isOn(v string) bool {
	switch v {
	case "1", "true", "on":
		return true
	}
	return false
}
