package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chuhlomin/docxstyle/internal/wordml"
)

type applyOutcome struct {
	Target string
	Output string // empty when nothing was written
	Backup string // empty when no backup was made
	DryRun bool
	Result wordml.ApplyResult
}

// applyAnalysis writes the analysis into the style table of target. The
// result goes to c.Output, or replaces target after backing it up.
func applyAnalysis(target string, a *analysis, c config) (*applyOutcome, error) {
	pkg, err := wordml.Open(target)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	styles, err := pkg.ReadStyles()
	if err != nil {
		return nil, errors.Wrapf(err, "read styles of %s", target)
	}

	summaries := a.Styles
	if match := styleMatcher(c.Styles); match != nil {
		summaries = nil
		for _, s := range a.Styles {
			if match(s.StyleID, s.Name) {
				summaries = append(summaries, s)
			}
		}
	}

	outcome := &applyOutcome{
		Target: target,
		DryRun: c.DryRun,
		Result: styles.Apply(summaries, wordml.ApplyOptions{Fonts: c.Fonts, Colors: c.Colors}),
	}
	for _, id := range outcome.Result.Missing {
		logger.Warn("Style not found in target", zap.String("style", id), zap.String("target", target))
	}

	if c.DryRun {
		return outcome, nil
	}

	dest := target
	if c.Output != "" {
		dest = c.Output
	}
	inPlace := samePath(dest, target)
	if inPlace && !outcome.Result.Changed() {
		logger.Info("Nothing to change", zap.String("target", target))
		return outcome, nil
	}

	b, err := styles.Bytes()
	if err != nil {
		return nil, err
	}

	if inPlace && c.Backup {
		outcome.Backup = backupPath(target)
		if err := copyFile(target, outcome.Backup); err != nil {
			return nil, errors.Wrapf(err, "backup %s", target)
		}
		logger.Info("Backup created", zap.String("path", outcome.Backup))
	}

	if err := writeDocument(pkg, dest, map[string][]byte{wordml.PartStyles: b}); err != nil {
		return nil, errors.Wrapf(err, "write %s", dest)
	}
	outcome.Output = dest
	logger.Info("Styles written", zap.String("path", dest), zap.Int("changes", len(outcome.Result.Changes)))

	return outcome, nil
}

// writeDocument writes a copy of pkg with replaced parts to a temporary file
// next to dest and renames it over dest. pkg is closed before the rename.
func writeDocument(pkg *wordml.Package, dest string, replace map[string][]byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, permDir); err != nil {
		return errors.Wrapf(err, "create directories for file %s", dest)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := pkg.WriteTo(tmp, replace); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(permFile)
	if info, err := os.Stat(dest); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}

	if err := pkg.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// backupPath turns "dir/Target.docx" into "dir/Target_backup.docx".
func backupPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_backup" + ext
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func copyFile(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, permDir); err != nil {
		return errors.Wrapf(err, "create directories for file %s", dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}
