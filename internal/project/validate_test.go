package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckProjectFileMissing(t *testing.T) {
	err := CheckProjectFile(filepath.Join(t.TempDir(), "nope.qgs"))

	var notFound *FileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *FileNotFoundError", err)
	}
}

func TestCheckProjectFileInvalidExtension(t *testing.T) {
	tests := []struct {
		name string
		file string
		ext  string
	}{
		{"Text file", "project.txt", ".txt"},
		{"Shapefile", "data.shp", ".shp"},
		{"No extension", "project", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, "irrelevant")

			err := CheckProjectFile(path)

			var badExt *InvalidExtensionError
			if !errors.As(err, &badExt) {
				t.Fatalf("error = %v, want *InvalidExtensionError", err)
			}
			if badExt.Extension != tt.ext {
				t.Errorf("Extension = %q, want %q", badExt.Extension, tt.ext)
			}
		})
	}
}

func TestCheckProjectFileMalformedXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.qgs")
	writeFile(t, path, "<qgis>\n<title>x</title>\n<mapcanvas\n</qgis>\n")

	err := CheckProjectFile(path)

	var badXML *InvalidXMLError
	if !errors.As(err, &badXML) {
		t.Fatalf("error = %v, want *InvalidXMLError", err)
	}
	if badXML.XMLError == "" {
		t.Error("XMLError message should not be empty")
	}
	// The parser reports a line for this failure, so the message must
	// include a marked excerpt of the surrounding content.
	if !strings.Contains(badXML.XMLError, "> ") {
		t.Errorf("XMLError should include a content excerpt, got:\n%s", badXML.XMLError)
	}
}

func TestCheckProjectFileUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	path := writeSampleProject(t, t.TempDir())
	if err := os.Chmod(path, 0000); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}

	err := CheckProjectFile(path)
	if err == nil {
		t.Fatal("CheckProjectFile() = nil, want an error for an unreadable file")
	}

	// The file exists, so an access failure must not be reported as a
	// missing file.
	var notFound *FileNotFoundError
	if errors.As(err, &notFound) {
		t.Errorf("error = %v, want an access error, not *FileNotFoundError", err)
	}
}

func TestCheckProjectFileValid(t *testing.T) {
	t.Run("Plain XML container", func(t *testing.T) {
		path := writeSampleProject(t, t.TempDir())
		if err := CheckProjectFile(path); err != nil {
			t.Errorf("CheckProjectFile() = %v, want nil", err)
		}
	})

	t.Run("Archive container is not inspected", func(t *testing.T) {
		// Validation accepts any .qgz; the archive's internal structure
		// is checked implicitly during extraction and rendering.
		path := filepath.Join(t.TempDir(), "anything.qgz")
		writeFile(t, path, "not actually a zip")
		if err := CheckProjectFile(path); err != nil {
			t.Errorf("CheckProjectFile() = %v, want nil", err)
		}
	})
}

func TestCheckProjectFileCaseInsensitiveExtension(t *testing.T) {
	path := writeSampleProject(t, t.TempDir())
	upper := filepath.Join(filepath.Dir(path), "PROJECT.QGS")
	writeFile(t, upper, sampleProject)

	if err := CheckProjectFile(upper); err != nil {
		t.Errorf("CheckProjectFile() = %v, want nil", err)
	}
}
