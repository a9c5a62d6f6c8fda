// Package romtest fetches and drives the christopherpow/nes-test-roms
// corpus against this module's console, the way the teacher's tests
// package does for its own test suite. It exists so both the core's own
// _test.go files and any downstream tooling can share one cached ROM
// directory and one status-protocol runner instead of each reinventing
// them.
package romtest

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

const romsArchiveURL = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`

func decompress(zipFile, dest string) error {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		fname := strings.Replace(f.Name, "nes-test-roms-master", "nes-test-roms", 1)
		fpath := filepath.Join(dest, fname)
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("%s: illegal file path", fpath)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(fpath, os.ModePerm)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func downloadTestRoms(tb testing.TB, dest string) {
	resp, err := http.Get(romsArchiveURL)
	if err != nil {
		tb.Fatal(err)
	}
	defer resp.Body.Close()

	tmpf, err := os.CreateTemp("", "nes-test-roms-*.zip")
	if err != nil {
		tb.Fatal(err)
	}
	defer os.Remove(tmpf.Name())
	defer tmpf.Close()

	if _, err := io.Copy(tmpf, resp.Body); err != nil {
		tb.Fatal(err)
	}
	if err := decompress(tmpf.Name(), dest); err != nil {
		tb.Fatalf("failed to decompress test roms: %s", err)
	}
}

var romsPath = sync.OnceValues(func() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nestor", "nes-test-roms"), nil
})

// RomsPath returns the local directory holding the christopherpow
// nes-test-roms corpus, downloading and unpacking it into the user's
// cache directory on first use.
func RomsPath(tb testing.TB) string {
	dir, err := romsPath()
	if err != nil {
		tb.Fatal(err)
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		tb.Log("nes-test-roms not found, downloading into", dir)
		os.MkdirAll(filepath.Dir(dir), os.ModePerm)
		downloadTestRoms(tb, filepath.Dir(dir))
		tb.Log("test roms downloaded in", dir)
	}
	return dir
}

// Concurrency bounds how many ROMs RunCorpus executes at once, mirroring
// the teacher's errgroup.Group.SetLimit(runtime.NumCPU()) pattern rather
// than letting a whole corpus fan out unbounded.
func Concurrency() int { return runtime.NumCPU() }
