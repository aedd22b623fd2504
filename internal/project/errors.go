package project

import "fmt"

// FileNotFoundError indicates the project file does not exist. This is
// a terminal upload/storage defect; retrying cannot help.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("project file not found: %s", e.Path)
}

// InvalidExtensionError indicates the project file has an extension
// that is not a recognized container format.
type InvalidExtensionError struct {
	Path      string
	Extension string
}

func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("invalid project file extension %q: %s", e.Extension, e.Path)
}

// InvalidXMLError indicates the plain XML container failed the
// well-formedness check. XMLError carries the parser's message and,
// when the parser reported a line, an excerpt of the surrounding
// content.
type InvalidXMLError struct {
	Path     string
	XMLError string
	Cause    error
}

func (e *InvalidXMLError) Error() string {
	return fmt.Sprintf("invalid XML in project file %s: %s", e.Path, e.XMLError)
}

func (e *InvalidXMLError) Unwrap() error {
	return e.Cause
}

// ExtractionError indicates a failure while reading document structure
// or the layer tree during metadata extraction. It is distinct from the
// validation errors above: it can only occur after validation passed.
type ExtractionError struct {
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract details from project %s: %v", e.Path, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ThumbnailError indicates the render job ran but its output could not
// be produced or saved.
type ThumbnailError struct {
	Reason string
	Cause  error
}

func (e *ThumbnailError) Error() string {
	return fmt.Sprintf("thumbnail generation failed: %s", e.Reason)
}

func (e *ThumbnailError) Unwrap() error {
	return e.Cause
}
