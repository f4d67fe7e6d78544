package main

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/chuhlomin/typograph"
	"github.com/fatih/color"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	i "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed locales/*.toml
var localesFS embed.FS

type reporter struct {
	format     string
	language   string
	typography bool
	localizer  *i.Localizer
	templates  *template.Template
}

type reportData struct {
	analysis
	Language string
	Body     string // rendered markdown, html format only
}

func newReporter(c config) (*reporter, error) {
	lang, err := language.Parse(c.Language)
	if err != nil {
		return nil, errors.Wrapf(err, "parse language %q", c.Language)
	}

	bundle, err := loadBundle()
	if err != nil {
		return nil, err
	}

	r := &reporter{
		format:     c.Format,
		language:   lang.String(),
		typography: c.TypographyEnabled,
		localizer:  i.NewLocalizer(bundle, lang.String()),
	}

	r.templates, err = template.New("").Funcs(r.funcMap()).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "templates parsing")
	}
	return r, nil
}

func loadBundle() (*i.Bundle, error) {
	bundle := i.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, errors.Wrap(err, "read locales")
	}
	for _, e := range entries {
		b, err := localesFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "read message file %s", e.Name())
		}
		if _, err := bundle.ParseMessageFileBytes(b, e.Name()); err != nil {
			return nil, errors.Wrapf(err, "load message file %s", e.Name())
		}
	}
	return bundle, nil
}

func (r *reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"i18n":  r.i18n,  // translate string
		"join":  join,    // alias for strings.Join
		"share": share,   // "2/3, 67%"
		"cell":  cell,    // escape document text for markdown
		"dash":  dash,    // "-" for empty values
		"pad":   pad,     // right-pad to width
		"css":   css,     // "2F5496" -> "#2F5496"
	}
}

func (r *reporter) renderAnalysis(w io.Writer, a *analysis) error {
	data := reportData{analysis: *a, Language: r.language}

	switch r.format {
	case formatText:
		return r.execute(w, "report.txt.tmpl", data)

	case formatMarkdown:
		return r.execute(w, "report.md.tmpl", data)

	case formatHTML:
		var md bytes.Buffer
		if err := r.execute(&md, "report.md.tmpl", data); err != nil {
			return err
		}
		// no smartypants: it turns shares like 1/2 into fractions
		renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.FlagsNone})
		body := markdown.ToHTML(md.Bytes(), nil, renderer)
		if r.typography {
			body = typograph.NewTypograph().Process(body)
		}
		data.Body = string(body)
		return r.execute(w, "report.html.tmpl", data)

	case formatJSON, formatYAML, formatTOML:
		return encodeAnalysis(w, a, r.format)
	}

	return errors.Wrapf(ErrUnknownFormat, "%q", r.format)
}

func (r *reporter) renderApply(w io.Writer, o *applyOutcome) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	tr := func(id string) string {
		s, err := r.i18n(id)
		if err != nil {
			return id
		}
		return s
	}

	for _, ch := range o.Result.Changes {
		fmt.Fprintf(w, "  %s %s %s: %q -> %q\n", green(pad(tr("updated"), 9)), ch.StyleID, tr("property_"+ch.Property), ch.Old, ch.New)
	}
	for _, id := range o.Result.Unchanged {
		fmt.Fprintf(w, "  %s %s\n", gray(pad(tr("unchanged"), 9)), id)
	}
	for _, id := range o.Result.Missing {
		fmt.Fprintf(w, "  %s %s\n", yellow(pad(tr("missing"), 9)), id)
	}

	switch {
	case o.DryRun:
		fmt.Fprintln(w, tr("dry_run"))
	case o.Output == "":
		fmt.Fprintln(w, tr("nothing_written"))
	default:
		fmt.Fprintf(w, "%s %s\n", tr("written_to"), o.Output)
	}
	if o.Backup != "" {
		fmt.Fprintf(w, "%s %s\n", tr("backup_created"), o.Backup)
	}
	return nil
}

func (r *reporter) execute(w io.Writer, name string, data interface{}) error {
	t := r.templates.Lookup(name)
	if t == nil {
		return errors.Errorf("template %q not found", name)
	}
	if err := t.Execute(w, data); err != nil {
		return errors.Wrapf(err, "template %s execution", name)
	}
	return nil
}

func (r *reporter) i18n(id string) (string, error) {
	return r.localizer.Localize(&i.LocalizeConfig{
		MessageID: id,
	})
}

func join(elems []string, sep string) string {
	return strings.Join(elems, sep)
}

func share(count, total int) string {
	if total == 0 {
		return ""
	}
	percent := int(math.Round(float64(count) * 100 / float64(total)))
	return fmt.Sprintf("%d/%d, %d%%", count, total, percent)
}

var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
	"|", `\|`,
)

// cell escapes text taken from a document so that it stays plain text in a
// markdown table and in the html rendered from it.
func cell(s string) string {
	return cellEscaper.Replace(s)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// css returns a WordprocessingML color as a CSS value, empty for "auto".
func css(c string) string {
	if c == "" || c == "auto" {
		return ""
	}
	return "#" + c
}
