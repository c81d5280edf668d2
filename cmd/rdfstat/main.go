// Package main provides the rdfstat command-line tool for inspecting
// generated RDF files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"rdfpipe/internal/rdfcheck"
	"rdfpipe/internal/report"
	"rdfpipe/pkg/fileset"
)

func main() {
	path := flag.String("path", "", "Turtle file, directory, or glob pattern to inspect")
	flag.Parse()

	if *path == "" {
		fmt.Println("Usage: rdfstat -path <file|dir|glob>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	paths, err := fileset.Resolve(*path)
	if err != nil {
		log.Fatalf("Error resolving path: %v\n", err)
	}

	paths = fileset.FilterExt(paths, ".ttl")
	if len(paths) == 0 {
		log.Fatalf("No Turtle files under %s\n", *path)
	}

	fmt.Printf("🔍 Inspecting %d Turtle files\n\n", len(paths))

	table := report.NewTable("FILE", "TRIPLES", "SUBJECTS")

	totalTriples := 0
	failures := 0

	for _, p := range paths {
		stats, err := rdfcheck.Inspect(p)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", p, err)
			failures++
			table.AddRow(p, "-", "-")
			continue
		}

		table.AddRow(p, strconv.Itoa(stats.Triples), strconv.Itoa(stats.Subjects))
		totalTriples += stats.Triples
	}

	fmt.Print(table.Render())
	fmt.Printf("\n📊 %d files, %d triples total\n", len(paths), totalTriples)

	if failures > 0 {
		fmt.Printf("⚠️  %d files failed to parse\n", failures)
		os.Exit(1)
	}
}
