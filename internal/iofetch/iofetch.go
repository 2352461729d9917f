// Package iofetch downloads Banco de España database archives and extracts
// their CSV files into the data root. A database is downloaded at most once
// per calendar day unless the download is forced.
package iofetch

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/bdeseries/internal/ioassemble"
	"github.com/gnames/bdeseries/internal/iobuild"
	"github.com/gnames/bdeseries/internal/iofs"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/databases"
	"github.com/gnames/bdeseries/pkg/lifecycle"
	"github.com/gnames/gn"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type fetcher struct {
	cfg    *config.Config
	root   string
	dbs    []databases.Database
	client *http.Client
	// now is replaced in tests.
	now func() time.Time
}

// New creates a Fetcher for the given databases. Archives are extracted
// into subdirectories of root named after database tags.
func New(
	cfg *config.Config,
	root string,
	dbs []databases.Database,
) lifecycle.Fetcher {
	return &fetcher{
		cfg:    cfg,
		root:   root,
		dbs:    dbs,
		client: &http.Client{},
		now:    time.Now,
	}
}

// LoadDatabases reads and validates databases.yaml.
func LoadDatabases(path string) (*databases.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, DatabasesConfigError(path, err)
	}

	var res databases.Config
	if err = yaml.Unmarshal(data, &res); err != nil {
		return nil, DatabasesConfigError(path, err)
	}

	if err = res.Validate(); err != nil {
		return nil, DatabasesConfigError(path, err)
	}
	return &res, nil
}

// FetchAll downloads databases concurrently. It stops at the first
// failed database.
func (f *fetcher) FetchAll(ctx context.Context) ([]string, error) {
	var mu sync.Mutex
	var res []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(f.cfg.JobsNumber, len(f.dbs))))

	for _, db := range f.dbs {
		g.Go(func() error {
			paths, err := f.fetch(ctx, db)
			if err != nil {
				return err
			}
			mu.Lock()
			res = append(res, paths...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(res)
	return res, nil
}

func (f *fetcher) fetch(
	ctx context.Context,
	db databases.Database,
) ([]string, error) {
	dir, err := iofs.DatabaseDir(f.root, db.Tag)
	if err != nil {
		return nil, err
	}

	if !f.cfg.Fetch.Force {
		files, err := f.sourceFiles(dir)
		if err != nil {
			return nil, err
		}
		fresh, err := isFresh(files, f.now())
		if err != nil {
			return nil, err
		}
		if fresh {
			slog.Info("Database is up to date", "database", db.Tag, "dir", dir)
			gn.Info("<em>%s</em> was already downloaded today", db.Tag)
			return files, nil
		}
	}

	archive := filepath.Join(config.CacheDir(f.cfg.HomeDir), db.Tag+".zip")
	size, err := f.download(ctx, db.URL, archive)
	if err != nil {
		return nil, err
	}
	slog.Info("Archive downloaded",
		"database", db.Tag,
		"url", db.URL,
		"bytes", size,
	)

	count, err := extract(archive, dir)
	if err != nil {
		return nil, err
	}
	gn.Info("Fetched <em>%s</em>: %s, %d files",
		db.Tag, humanize.Bytes(uint64(size)), count)

	return f.sourceFiles(dir)
}

// download saves the body of url into path. The file appears at path only
// after the whole body is received.
func (f *fetcher) download(
	ctx context.Context,
	url, path string,
) (int64, error) {
	timeout := time.Duration(f.cfg.Fetch.Timeout) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, DownloadError(url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, DownloadError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, DownloadError(url, &StatusError{Code: resp.StatusCode})
	}

	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, DownloadError(url, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return 0, DownloadError(url, err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, DownloadError(url, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, DownloadError(url, err)
	}
	return size, nil
}

// extract writes regular files of the archive into dir. Entries are
// flattened to their base names. Every file is written to a temporary
// name first and renamed when complete.
func extract(archive, dir string) (int, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return 0, ArchiveError(archive, err)
	}
	defer r.Close()

	var count int
	for _, zf := range r.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(filepath.FromSlash(zf.Name))
		if name == "." || name == ".." || strings.HasPrefix(name, ".") {
			continue
		}
		name = lowerCSVExt(name)
		if err = extractFile(zf, filepath.Join(dir, name)); err != nil {
			return count, ExtractError(dir, err)
		}
		count++
	}
	return count, nil
}

func extractFile(zf *zip.File, path string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".extract-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, rc)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// lowerCSVExt renames "x.CSV" to "x.csv". Catalog assembly only picks
// files with the lowercase extension.
func lowerCSVExt(name string) string {
	ext := filepath.Ext(name)
	if ext != ".csv" && strings.EqualFold(ext, ".csv") {
		return strings.TrimSuffix(name, ext) + ".csv"
	}
	return name
}

// isFresh reports whether there are files and all of them were modified
// on the calendar day of now.
func isFresh(files []string, now time.Time) (bool, error) {
	if len(files) == 0 {
		return false, nil
	}

	y, m, d := now.Date()
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return false, iofs.ReadFileError(path, err)
		}
		fy, fm, fd := info.ModTime().In(now.Location()).Date()
		if fy != y || fm != m || fd != d {
			return false, nil
		}
	}
	return true, nil
}

// sourceFiles returns the files of dir that catalog assembly will read.
// Catalogs written into dir by earlier runs are not included.
func (f *fetcher) sourceFiles(dir string) ([]string, error) {
	paths, err := ioassemble.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	res := paths[:0]
	for _, path := range paths {
		if iobuild.IsArtifact(filepath.Base(path), f.cfg.Catalog.Marker) {
			continue
		}
		res = append(res, path)
	}
	return res, nil
}
