// Command docxinspect unpacks the XML parts of a .docx into a directory,
// indented for reading and diffing, together with a table of its styles.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chuhlomin/docxstyle/internal/wordml"
)

type config struct {
	Source          string   `env:"INSPECT_SOURCE,required"`
	OutputDirectory string   `env:"INSPECT_OUTPUT_DIRECTORY" envDefault:"unpacked"`
	Parts           []string `env:"INSPECT_PARTS" envDefault:"word/styles.xml,word/document.xml" envSeparator:","`
	Indent          int      `env:"INSPECT_INDENT" envDefault:"2"`
}

var logger = zap.NewNop()

func main() {
	l, err := zap.NewProduction()
	if err == nil {
		logger = l
		defer logger.Sync()
	}

	logger.Info("Starting...")

	var c config
	if err := env.Parse(&c); err != nil {
		logger.Fatal("environment variables parsing", zap.Error(err))
	}

	if err := run(c); err != nil {
		logger.Fatal("inspect failed", zap.Error(err))
	}

	logger.Info("Stopped")
}

func run(c config) error {
	if err := os.MkdirAll(c.OutputDirectory, 0755); err != nil {
		return errors.Wrap(err, "output directory creation")
	}

	pkg, err := wordml.Open(c.Source)
	if err != nil {
		return err
	}
	defer pkg.Close()

	if err := writeFile(c.OutputDirectory, "parts.txt", []byte(strings.Join(pkg.Parts(), "\n")+"\n")); err != nil {
		return errors.Wrap(err, "parts.txt creation")
	}

	for _, part := range c.Parts {
		part = strings.TrimSpace(part)
		if !pkg.Has(part) {
			logger.Warn("part not found", zap.String("part", part))
			continue
		}
		if err := unpackPart(pkg, part, c.OutputDirectory, c.Indent); err != nil {
			return errors.Wrapf(err, "unpack %s", part)
		}
	}

	if !pkg.Has(wordml.PartStyles) {
		return nil
	}
	styles, err := pkg.ReadStyles()
	if err != nil {
		return err
	}
	return errors.Wrap(
		writeFile(c.OutputDirectory, "styles.md", []byte(stylesTable(styles))),
		"styles.md creation",
	)
}

func unpackPart(pkg *wordml.Package, part, dir string, indent int) error {
	if !filepath.IsLocal(part) {
		return errors.Errorf("unsafe part name %q", part)
	}

	doc, err := pkg.ReadXML(part)
	if err != nil {
		return err
	}
	doc.Indent(indent)

	b, err := doc.WriteToBytes()
	if err != nil {
		return err
	}
	return writeFile(dir, part, b)
}

func writeFile(dir, name string, b []byte) error {
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func stylesTable(styles *wordml.Styles) string {
	var sb strings.Builder
	sb.WriteString("| ID | Type | Name | Based on | Font | Color |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, st := range styles.All() {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			st.ID, st.Type, st.Name, st.BasedOn, st.Font(), st.Color())
	}
	return sb.String()
}
