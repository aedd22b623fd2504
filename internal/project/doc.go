// Package project implements the processing core for geospatial project
// files: validation, document reading, layer inspection, and metadata
// extraction.
//
// Two container formats are recognized:
//   - .qgs: a plain XML project document
//   - .qgz: a zip archive whose first .qgs member is the project document
//
// A Document is owned exclusively by the pipeline stage that opened it
// and must be closed explicitly by that stage before it returns; the
// shared render engine context may be torn down by the host between
// stages, so document lifetime is never left to the garbage collector.
package project
