package wordml

import "github.com/beevik/etree"

// NamespaceW is the WordprocessingML main namespace.
const NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Schema sequence of w:style children (CT_Style).
var styleChildOrder = []string{
	"name", "aliases", "basedOn", "next", "link", "autoRedefine", "hidden",
	"uiPriority", "semiHidden", "unhideWhenUsed", "qFormat", "locked",
	"personal", "personalCompose", "personalReply", "rsid",
	"pPr", "rPr", "tblPr", "trPr", "tcPr", "tblStylePr",
}

// Schema sequence of w:rPr children (CT_RPr / EG_RPrBase).
var runPropertiesOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike",
	"dstrike", "outline", "shadow", "emboss", "imprint", "noProof",
	"snapToGrid", "vanish", "webHidden", "color", "spacing", "w", "kern",
	"position", "sz", "szCs", "highlight", "u", "effect", "bdr", "shd",
	"fitText", "vertAlign", "rtl", "cs", "em", "lang", "eastAsianLayout",
	"specVanish", "oMath", "rPrChange",
}

// isW reports whether el is the WordprocessingML element with the given
// local name, whatever prefix the document binds the namespace to.
func isW(el *etree.Element, local string) bool {
	return el != nil && el.Tag == local && el.NamespaceURI() == NamespaceW
}

func wAttr(el *etree.Element, local string) (string, bool) {
	if el == nil {
		return "", false
	}
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key == local && a.NamespaceURI() == NamespaceW {
			return a.Value, true
		}
	}
	return "", false
}

func wAttrValue(el *etree.Element, local string) string {
	v, _ := wAttr(el, local)
	return v
}

// setWAttr sets the namespaced attribute, reusing the element's own prefix
// when the attribute does not exist yet.
func setWAttr(el *etree.Element, local, value string) {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key == local && a.NamespaceURI() == NamespaceW {
			a.Value = value
			return
		}
	}
	el.CreateAttr(qualify(el.Space, local), value)
}

func removeWAttr(el *etree.Element, local string) bool {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key == local && a.NamespaceURI() == NamespaceW {
			el.RemoveAttr(a.FullKey())
			return true
		}
	}
	return false
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// child returns the first direct child with the given local name.
func child(el *etree.Element, local string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if isW(c, local) {
			return c
		}
	}
	return nil
}

// descendants returns all elements below el with the given local name, in
// document order.
func descendants(el *etree.Element, local string) []*etree.Element {
	var found []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if isW(c, local) {
				found = append(found, c)
			}
			walk(c)
		}
	}
	if el != nil {
		walk(el)
	}
	return found
}

// ensureChild returns the direct child with the given local name, creating
// it at its schema position when missing.
func ensureChild(parent *etree.Element, local string, order []string) (*etree.Element, bool) {
	if c := child(parent, local); c != nil {
		return c, false
	}

	created := etree.NewElement(qualify(parent.Space, local))
	rank := indexOf(order, local)
	for _, c := range parent.ChildElements() {
		if c.NamespaceURI() != NamespaceW {
			continue
		}
		if r := indexOf(order, c.Tag); r > rank {
			parent.InsertChildAt(c.Index(), created)
			return created, true
		}
	}
	parent.AddChild(created)
	return created, true
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
