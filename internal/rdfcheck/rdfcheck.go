// Package rdfcheck parses Turtle documents and reports basic statistics.
// The mapping and upload stages use it to confirm generated RDF is
// well-formed before it travels further down the pipeline.
package rdfcheck

import (
	"fmt"
	"io"
	"os"

	"github.com/knakk/rdf"
)

// Stats summarizes the contents of an RDF document.
type Stats struct {
	Triples  int
	Subjects int
}

// Inspect parses the Turtle file at path and returns its statistics.
func Inspect(path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open RDF file: %w", err)
	}
	defer f.Close()

	stats, err := InspectReader(f)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return stats, nil
}

// InspectReader parses Turtle from r and returns its statistics.
func InspectReader(r io.Reader) (Stats, error) {
	subjects := make(map[string]struct{})

	var stats Stats
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)
	for tr, err := dec.Decode(); err != io.EOF; tr, err = dec.Decode() {
		if err != nil {
			return Stats{}, fmt.Errorf("failed to decode triple: %w", err)
		}

		stats.Triples++
		subjects[tr.Subj.String()] = struct{}{}
	}

	stats.Subjects = len(subjects)

	return stats, nil
}
