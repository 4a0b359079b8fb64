package archive

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func createZip(t *testing.T, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "images.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	return zipPath
}

func TestBundle(t *testing.T) {
	zipPath := createZip(t, map[string]string{
		"assets/images/01_membrane.png":    "membrane",
		"assets/images/06_tissues.svg":     "tissues",
		"assets/images/old/06_tissues.png": "old",
		"assets/readme.txt":                "readme",
		"assets/images/":                   "",
	})

	b, err := Open(zipPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	if b.Name() != zipPath {
		t.Errorf("Name() = %q, want %q", b.Name(), zipPath)
	}

	t.Run("open existing", func(t *testing.T) {
		for _, name := range []string{"assets/images/01_membrane.png", "/assets/images/01_membrane.png", "assets/./images/01_membrane.png"} {
			rc, err := b.Open(name)
			if err != nil {
				t.Fatalf("Open(%q) error = %v", name, err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil || string(data) != "membrane" {
				t.Fatalf("Open(%q) content = %q, %v", name, data, err)
			}
		}
	})

	t.Run("open missing", func(t *testing.T) {
		_, err := b.Open("assets/images/01_membrane.jpg")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected not exist error, got %v", err)
		}
	})

	t.Run("directory is not a file", func(t *testing.T) {
		if _, err := b.Open("assets/images"); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected not exist error, got %v", err)
		}
	})

	t.Run("walk directory", func(t *testing.T) {
		var visited []string
		err := b.Walk("assets/images", func(file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		want := []string{"assets/images/01_membrane.png", "assets/images/06_tissues.svg"}
		if !reflect.DeepEqual(visited, want) {
			t.Fatalf("visited = %v, want %v", visited, want)
		}
	})

	t.Run("walk stops on error", func(t *testing.T) {
		stop := errors.New("stop")
		count := 0
		err := b.Walk("assets/images/", func(*zip.File) error {
			count++
			return stop
		})
		if !errors.Is(err, stop) || count != 1 {
			t.Fatalf("Walk() = %v after %d calls", err, count)
		}
	})

	t.Run("walk missing directory", func(t *testing.T) {
		err := b.Walk("nothing", func(*zip.File) error {
			t.Fatal("nothing must be visited")
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
	})
}

func TestOpenErrors(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if _, err := Open(filepath.Join(t.TempDir(), "absent.zip")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "bad.zip")
		if err := os.WriteFile(name, []byte("not a zip"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(name); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		zipPath := createZip(t, map[string]string{
			"assets/images/01_membrane.png": "ok",
			"../../etc/passwd":              "evil",
		})
		if _, err := Open(zipPath); err == nil {
			t.Fatal("expected unsafe path error")
		}
	})
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"assets/images/a.png", true},
		{"a..b.png", true},
		{"../a.png", false},
		{"assets/../../a.png", false},
		{"/etc/passwd", false},
		{`\windows\system32`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
