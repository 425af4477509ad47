// Package scan turns an upload (a zip archive, a directory or a single source
// file) into the flat list of file entries consumed by the pipeline.
package scan

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"

	"frscan/internal/logger"
	"frscan/internal/safeio"
	"frscan/internal/types"
)

// maxExtractBytes bounds the total uncompressed size written for one archive.
const maxExtractBytes = 1 << 30

var ErrArchiveTooLarge = errors.New("scan: archive expands beyond the extraction limit")

type Options struct {
	// WorkDir receives extracted archives; os.TempDir() when empty.
	WorkDir string
	// Ignore holds doublestar patterns matched against slash-separated paths
	// relative to the scan root. A matching directory is skipped entirely.
	Ignore []string
	// MaxFileSize skips files larger than this many bytes; 0 disables it.
	MaxFileSize int64
	Log         hclog.Logger
}

// Loader implements pipeline.Loader.
type Loader struct {
	opts Options
	log  hclog.Logger
}

func NewLoader(opts Options) (*Loader, error) {
	for _, p := range opts.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("scan: invalid ignore pattern %q", p)
		}
	}
	return &Loader{opts: opts, log: logger.OrNull(opts.Log)}, nil
}

// Load scans p. Zip archives (detected by content, not name) are extracted
// to a temporary directory that is removed before Load returns.
func (l *Loader) Load(ctx context.Context, p string) ([]types.FileEntry, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return l.Walk(ctx, p)
	}

	zr, err := zip.OpenReader(p)
	switch {
	case err == nil:
		defer zr.Close()
		return l.loadArchive(ctx, &zr.Reader, filepath.Base(p))
	case errors.Is(err, zip.ErrFormat):
		return l.loadSingle(p, info)
	case errors.Is(err, zip.ErrInsecurePath):
		if zr != nil {
			zr.Close()
		}
		return nil, fmt.Errorf("scan: archive member escapes extraction dir: %w", err)
	default:
		return nil, fmt.Errorf("scan: open archive: %w", err)
	}
}

func (l *Loader) loadSingle(p string, info fs.FileInfo) ([]types.FileEntry, error) {
	name := filepath.Base(p)
	if l.tooLarge(info.Size()) {
		return []types.FileEntry{}, nil
	}
	root, err := safeio.NewSafeFS(filepath.Dir(p))
	if err != nil {
		return nil, err
	}
	if e, ok := l.readEntry(root, name); ok {
		return []types.FileEntry{e}, nil
	}
	return []types.FileEntry{}, nil
}

func (l *Loader) loadArchive(ctx context.Context, zr *zip.Reader, name string) ([]types.FileEntry, error) {
	workDir := l.opts.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	dir, err := os.MkdirTemp(workDir, stem+"_unzipped-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := l.extract(ctx, zr, dir); err != nil {
		return nil, err
	}
	return l.Walk(ctx, dir)
}

func (l *Loader) extract(ctx context.Context, zr *zip.Reader, dir string) error {
	root, err := safeio.NewSafeFS(dir)
	if err != nil {
		return err
	}
	var written int64
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := root.SafeMkdirAll(f.Name); err != nil {
				return fmt.Errorf("scan: extract %s: %w", f.Name, err)
			}
			continue
		case !mode.IsRegular():
			l.log.Debug("skipping non-regular archive member", "name", f.Name, "mode", mode)
			continue
		}
		if l.tooLarge(int64(f.UncompressedSize64)) {
			continue
		}
		n, err := l.extractFile(root, f, maxExtractBytes-written)
		if err != nil {
			return err
		}
		written += n
	}
	return nil
}

func (l *Loader) extractFile(root *safeio.SafeFS, f *zip.File, budget int64) (int64, error) {
	out, err := root.SafeCreate(f.Name)
	if err != nil {
		return 0, fmt.Errorf("scan: extract %s: %w", f.Name, err)
	}
	defer out.Close()
	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("scan: extract %s: %w", f.Name, err)
	}
	defer rc.Close()

	n, err := io.Copy(out, io.LimitReader(rc, budget+1))
	if err != nil {
		return n, fmt.Errorf("scan: extract %s: %w", f.Name, err)
	}
	if n > budget {
		return n, ErrArchiveTooLarge
	}
	return n, nil
}

// Walk scans every recognized file under root. Entries are sorted by filename.
func (l *Loader) Walk(ctx context.Context, root string) ([]types.FileEntry, error) {
	sfs, err := safeio.NewSafeFS(root)
	if err != nil {
		return nil, err
	}
	entries := []types.FileEntry{}
	err = filepath.WalkDir(sfs.Root(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			l.log.Debug("walk error", "path", p, "error", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(sfs.Root(), p)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if l.ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil && d.Type().IsRegular() && l.tooLarge(info.Size()) {
			l.log.Debug("skipping large file", "path", rel, "size", info.Size())
			return nil
		}
		if e, ok := l.readEntry(sfs, rel); ok {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })
	return entries, nil
}

// readEntry loads rel as a FileEntry. Unknown extensions, unreadable files and
// files that are not valid UTF-8 are skipped.
func (l *Loader) readEntry(sfs *safeio.SafeFS, rel string) (types.FileEntry, bool) {
	lang := LanguageFor(rel)
	if lang == "" {
		return types.FileEntry{}, false
	}
	b, err := sfs.SafeReadFile(filepath.FromSlash(rel))
	if err != nil {
		l.log.Debug("skipping unreadable file", "path", rel, "error", err)
		return types.FileEntry{}, false
	}
	if !utf8.Valid(b) {
		l.log.Debug("skipping non-UTF-8 file", "path", rel)
		return types.FileEntry{}, false
	}
	folder := path.Dir(rel)
	if folder == "." {
		folder = ""
	}
	return types.FileEntry{Filename: rel, Folder: folder, Language: lang, Code: string(b)}, true
}

func (l *Loader) ignored(rel string) bool {
	for _, p := range l.opts.Ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (l *Loader) tooLarge(size int64) bool {
	return l.opts.MaxFileSize > 0 && size > l.opts.MaxFileSize
}
