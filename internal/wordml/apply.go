package wordml

// Properties written by Apply.
const (
	PropertyFont  = "font"
	PropertyColor = "color"
)

// ApplyOptions select which properties Apply writes.
type ApplyOptions struct {
	Fonts  bool
	Colors bool
}

// Change is one property rewritten in a style definition.
type Change struct {
	StyleID  string
	Property string
	Old      string
	New      string
}

// ApplyResult describes what Apply did to a style table.
type ApplyResult struct {
	Changes   []Change
	Missing   []string // style ids absent from the target
	Unchanged []string // styles that already had the values
}

// Changed reports whether the style table was modified.
func (r ApplyResult) Changed() bool {
	return len(r.Changes) > 0
}

// Apply writes the dominant font and color of each summary into the run
// properties of the matching style definition.
func (s *Styles) Apply(summaries []StyleSummary, opts ApplyOptions) ApplyResult {
	var res ApplyResult
	for _, sum := range summaries {
		st, ok := s.Lookup(sum.StyleID)
		if !ok {
			res.Missing = append(res.Missing, sum.StyleID)
			continue
		}

		before := len(res.Changes)
		if opts.Fonts && sum.Font != "" {
			if old, changed := st.setFont(sum.Font); changed {
				res.Changes = append(res.Changes, Change{st.ID, PropertyFont, old, sum.Font})
			}
		}
		if opts.Colors && sum.Color != "" {
			if old, changed := st.setColor(sum.Color); changed {
				res.Changes = append(res.Changes, Change{st.ID, PropertyColor, old, sum.Color})
			}
		}
		if len(res.Changes) == before {
			res.Unchanged = append(res.Unchanged, st.ID)
		}
	}
	return res
}

func (st *Style) setFont(font string) (string, bool) {
	if rFonts := child(child(st.el, "rPr"), "rFonts"); rFonts != nil {
		ascii, _ := wAttr(rFonts, "ascii")
		hAnsi, _ := wAttr(rFonts, "hAnsi")
		_, asciiTheme := wAttr(rFonts, "asciiTheme")
		_, hAnsiTheme := wAttr(rFonts, "hAnsiTheme")
		if ascii == font && hAnsi == font && !asciiTheme && !hAnsiTheme {
			return ascii, false
		}
	}

	rPr, _ := ensureChild(st.el, "rPr", styleChildOrder)
	rFonts, _ := ensureChild(rPr, "rFonts", runPropertiesOrder)
	old := wAttrValue(rFonts, "ascii")

	// theme fonts take precedence over explicit names
	removeWAttr(rFonts, "asciiTheme")
	removeWAttr(rFonts, "hAnsiTheme")
	setWAttr(rFonts, "ascii", font)
	setWAttr(rFonts, "hAnsi", font)
	return old, true
}

func (st *Style) setColor(color string) (string, bool) {
	if c := child(child(st.el, "rPr"), "color"); c != nil {
		val, _ := wAttr(c, "val")
		_, themed := wAttr(c, "themeColor")
		if val == color && !themed {
			return val, false
		}
	}

	rPr, _ := ensureChild(st.el, "rPr", styleChildOrder)
	c, _ := ensureChild(rPr, "color", runPropertiesOrder)
	old := wAttrValue(c, "val")

	removeWAttr(c, "themeColor")
	removeWAttr(c, "themeTint")
	removeWAttr(c, "themeShade")
	setWAttr(c, "val", color)
	return old, true
}
