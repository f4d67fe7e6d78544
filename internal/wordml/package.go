// Package wordml reads and rewrites the WordprocessingML parts of a .docx
// package: the style table, the document body and the fonts and colors used
// by each paragraph style.
package wordml

import (
	"archive/zip"
	"bytes"
	"io"
	"os"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Well-known part names inside a .docx archive.
const (
	PartDocument = "word/document.xml"
	PartStyles   = "word/styles.xml"
)

// ErrPartNotFound is returned when a part is absent from the archive.
var ErrPartNotFound = errors.New("part not found")

// Package is an opened .docx archive.
type Package struct {
	path   string
	reader *zip.Reader
	closer io.Closer
}

// Open opens the .docx file at path as a ZIP archive.
func Open(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	p, err := NewPackage(f, info.Size())
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "read %s", path)
	}
	p.path = path
	p.closer = f
	return p, nil
}

// NewPackage reads a .docx archive from r.
func NewPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "not a zip archive")
	}
	return &Package{reader: zr}, nil
}

// Path returns the file path the package was opened from, if any.
func (p *Package) Path() string {
	return p.path
}

// Close releases the underlying file.
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	err := p.closer.Close()
	p.closer = nil
	return err
}

// Parts returns the archive entry names in archive order.
func (p *Package) Parts() []string {
	names := make([]string, 0, len(p.reader.File))
	for _, f := range p.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Has reports whether the archive contains the named part.
func (p *Package) Has(name string) bool {
	return p.file(name) != nil
}

func (p *Package) file(name string) *zip.File {
	for _, f := range p.reader.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ReadPart returns the uncompressed content of the named part.
func (p *Package) ReadPart(name string) ([]byte, error) {
	f := p.file(name)
	if f == nil {
		return nil, errors.Wrap(ErrPartNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open part %s", name)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read part %s", name)
	}
	return b, nil
}

// ReadXML parses the named part as an XML document.
func (p *Package) ReadXML(name string) (*etree.Document, error) {
	b, err := p.ReadPart(name)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	return doc, nil
}

// WriteTo writes a copy of the archive to w. Parts listed in replace get the
// new content, everything else is copied without recompression. Entry order
// and headers are preserved.
func (p *Package) WriteTo(w io.Writer, replace map[string][]byte) error {
	for name := range replace {
		if !p.Has(name) {
			return errors.Wrapf(ErrPartNotFound, "replace %s", name)
		}
	}

	zw := zip.NewWriter(w)
	for _, f := range p.reader.File {
		content, ok := replace[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return errors.Wrapf(err, "copy %s", f.Name)
			}
			continue
		}

		header := f.FileHeader
		header.Extra = nil // sizes and timestamps are rewritten by CreateHeader
		header.CompressedSize64 = 0
		header.UncompressedSize64 = 0
		header.CRC32 = 0
		out, err := zw.CreateHeader(&header)
		if err != nil {
			return errors.Wrapf(err, "create %s", f.Name)
		}
		if _, err := io.Copy(out, bytes.NewReader(content)); err != nil {
			return errors.Wrapf(err, "write %s", f.Name)
		}
	}

	return errors.Wrap(zw.Close(), "finish archive")
}
