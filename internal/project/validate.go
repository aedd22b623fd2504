package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"project-preview/internal/dom"
	"project-preview/internal/logging"
	"project-preview/internal/metrics"
)

// CheckProjectFile verifies that the file at path is a structurally
// valid project document before any expensive processing runs.
//
// Plain XML containers (.qgs) get a streaming well-formedness check;
// archive containers (.qgz) are accepted as-is, their internal
// structure is validated implicitly during extraction and rendering.
// Datasources are never resolved here.
func CheckProjectFile(path string) error {
	logging.Info("Check project file validity…")

	if err := checkProjectFile(path); err != nil {
		metrics.ValidationsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.ValidationsTotal.WithLabelValues("success").Inc()
	logging.Info("Project file is valid!")
	return nil
}

func checkProjectFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &FileNotFoundError{Path: path}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".qgs":
		return checkWellFormed(path)
	case ".qgz":
		return nil
	default:
		return &InvalidExtensionError{Path: path, Extension: ext}
	}
}

func checkWellFormed(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		// The file exists (Stat passed); this is an access problem, not
		// a missing file.
		return fmt.Errorf("failed to open project file: %w", err)
	}
	defer fh.Close()

	err = dom.Scan(fh)
	if err == nil {
		return nil
	}

	xmlError := err.Error()
	if line, ok := dom.ErrorLine(err); ok {
		// Re-read the file for the surrounding content excerpt.
		if _, seekErr := fh.Seek(0, 0); seekErr == nil {
			if context := dom.ErrorContext(fh, line); context != "" {
				xmlError = xmlError + "\n" + context
			}
		}
	}

	return &InvalidXMLError{Path: path, XMLError: xmlError, Cause: err}
}
