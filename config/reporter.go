package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"cellquest/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report at configured destination, falling back to a
// temporary file when destination is not writable.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, logs: make(map[string]string), data: make(map[string]blob)}, nil
}

// CheckOutcome tells how resolution of a single chapter image ended.
type CheckOutcome string

const (
	CheckOK      CheckOutcome = "ok"
	CheckMissing CheckOutcome = "missing"
	CheckFailed  CheckOutcome = "error"
)

// CheckEntry is one chapter line of image check summary.
type CheckEntry struct {
	Chapter string
	Outcome CheckOutcome
	// Paths holds resolved file for found images and every tried candidate
	// otherwise.
	Paths []string
	// Details are image format and size, or individual failures.
	Details []string
}

type blob struct {
	data  []byte
	stamp time.Time
}

// Report accumulates what is needed to troubleshoot a run: effective
// configuration, logs and image check results. Nil report ignores
// everything, so callers do not have to check whether --debug was given.
// Not safe for concurrent use, only command setup and teardown touch it.
type Report struct {
	file   *os.File
	logs   map[string]string // archive name -> log file
	data   map[string]blob
	checks []CheckEntry
}

// Close writes collected material into the archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()
	return r.write()
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// StoreLog remembers log file to be copied into archive on Close. Logs are
// read at the very end so they include teardown messages. Missing files are
// skipped.
func (r *Report) StoreLog(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	if old, ok := r.logs[name]; ok && old != path {
		panic(fmt.Sprintf("report log [%s] stored twice: %s, %s", name, old, path))
	}
	r.logs[name] = path
}

// StoreData puts data into archive under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, ok := r.data[name]; ok {
		panic(fmt.Sprintf("report data [%s] stored twice", name))
	}
	r.data[name] = blob{data: data, stamp: time.Now()}
}

// AddCheck appends chapter result to check summary, written as check.txt.
func (r *Report) AddCheck(e CheckEntry) {
	if r == nil {
		return
	}
	r.checks = append(r.checks, e)
}

func (r *Report) write() error {
	arc := zip.NewWriter(r.file)

	now := time.Now()
	manifest := new(bytes.Buffer)

	if len(r.checks) > 0 {
		r.data["check.txt"] = blob{data: renderChecks(r.checks), stamp: now}
	}
	for _, name := range slices.Sorted(maps.Keys(r.data)) {
		b := r.data[name]
		fmt.Fprintf(manifest, "data\t%s\t%s\t%d bytes\n", name, b.stamp.UTC().Format(time.RFC3339), len(b.data))
		if err := addEntry(arc, name, b.stamp, bytes.NewReader(b.data)); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(r.logs)) {
		src := r.logs[name]
		copied, err := addLog(arc, name, src)
		if err != nil {
			return err
		}
		state := "absent"
		if copied {
			state = "copied"
		}
		fmt.Fprintf(manifest, "log\t%s\t%s\t%s\n", name, src, state)
	}

	if err := addEntry(arc, "MANIFEST", now, manifest); err != nil {
		return err
	}
	return arc.Close()
}

// addLog copies regular file src into archive, reporting false when there
// is nothing to copy.
func addLog(arc *zip.Writer, name, src string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return false, nil
	}
	f, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return true, addEntry(arc, name, info.ModTime(), f)
}

func addEntry(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	return nil
}

func renderChecks(checks []CheckEntry) []byte {
	buf := new(bytes.Buffer)
	for _, c := range checks {
		fmt.Fprintf(buf, "%s\t%s\t%s\n", c.Outcome, c.Chapter, strings.Join(c.Paths, " "))
		for _, d := range c.Details {
			fmt.Fprintf(buf, "\t%s\n", d)
		}
	}
	return buf.Bytes()
}
