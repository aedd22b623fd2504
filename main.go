// Command project-preview validates a geospatial project file, extracts
// its summary metadata, and renders a small preview raster.
//
// Usage:
//
//	project-preview [flags] <project-file>
//
// The metadata record is written as JSON to stdout (or -metadata PATH);
// the thumbnail is written to -thumbnail PATH when one is given.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"project-preview/internal/logging"
	"project-preview/internal/memory"
	"project-preview/internal/metrics"
	"project-preview/internal/project"
	"project-preview/internal/startup"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exit codes reported to the orchestrating pipeline.
const (
	exitOK         = 0
	exitFailure    = 1
	exitBadInput   = 2
	exitExtraction = 3
	exitThumbnail  = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	startTime := time.Now()

	_ = godotenv.Load()

	thumbnailPath := flag.String("thumbnail", "", "write a preview raster to this path (format by extension)")
	metadataPath := flag.String("metadata", "", "write the metadata record to this path instead of stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <project-file>\n", os.Args[0])
		flag.PrintDefaults()
		return exitFailure
	}
	projectPath := flag.Arg(0)

	memory.ConfigureFromEnv()
	config := startup.LoadConfig()

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		go serveMetrics(config.MetricsPort)
	}

	// Stage 1: validation. Nothing expensive may run before this.
	if err := project.CheckProjectFile(projectPath); err != nil {
		logging.Error("Validation failed: %v", err)
		return exitCodeFor(err)
	}

	// Stage 2: metadata extraction against the target document.
	doc, err := project.Open(projectPath, 0)
	if err != nil {
		logging.Error("Failed to open project: %v", err)
		return exitExtraction
	}

	details, err := project.ExtractDetails(doc)
	doc.Close()
	if err != nil {
		logging.Error("Extraction failed: %v", err)
		return exitCodeFor(err)
	}

	if err := writeMetadata(details, *metadataPath); err != nil {
		logging.Error("Failed to write metadata: %v", err)
		return exitFailure
	}

	// Stage 3: thumbnail rendering, when an output path was requested.
	if *thumbnailPath != "" {
		if err := project.GenerateThumbnail(projectPath, *thumbnailPath); err != nil {
			logging.Error("Thumbnail generation failed: %v", err)
			return exitCodeFor(err)
		}
	}

	startup.LogPipelineComplete(time.Since(startTime))
	return exitOK
}

func writeMetadata(details *project.Details, path string) error {
	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func exitCodeFor(err error) int {
	var notFound *project.FileNotFoundError
	var badExt *project.InvalidExtensionError
	var badXML *project.InvalidXMLError
	var extraction *project.ExtractionError
	var thumbnail *project.ThumbnailError

	switch {
	case errors.As(err, &notFound), errors.As(err, &badExt), errors.As(err, &badXML):
		return exitBadInput
	case errors.As(err, &extraction):
		return exitExtraction
	case errors.As(err, &thumbnail):
		return exitThumbnail
	default:
		return exitFailure
	}
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logging.Info("Metrics listening on :%s/metrics", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logging.Warn("Metrics server stopped: %v", err)
	}
}
