/*
Package cabal analyzes pairwise similarity reports and tracks how groups
of mutually similar handins form and merge as the similarity threshold is
relaxed.

Cabal consumes a complete set of pairwise similarity scores, typically an
allpairs report produced by a plagiarism detector, and produces for each
threshold the connected groups ("cliques") that exist at that threshold,
annotated with how every group relates to the structure one threshold
earlier: brand new, grown from a single prior group, or fused out of
several.

# Overview

The pipeline has three stages:

 1. A PPMTableBuilder accumulates (name, name, score) triples and freezes
    them into an immutable PPMTable once the data forms a complete graph.
 2. EvolveCliques walks the table's edges in ascending score order,
    folding them into a CliqueSet and snapshotting the partition at every
    threshold boundary.
 3. Each boundary's CliqueSetExport diffs the partition against the
    previous boundary and renders into the report format.

# Quick Start

Parse a report and print the clique evolution up to 6% similarity:

	package main

	import (
	    "fmt"
	    "log"
	    "os"
	    "regexp"

	    "github.com/ADSteele916/cabal"
	)

	func main() {
	    f, err := os.Open("allpairs.txt")
	    if err != nil {
	        log.Fatal(err)
	    }
	    defer f.Close()

	    // Group by the submitter directory embedded in each path.
	    pattern := regexp.MustCompile(`^[^/]+/(.+)/handin.rkt`)
	    table, err := cabal.LoadAllpairs(f, cabal.WithIDPattern(pattern))
	    if err != nil {
	        log.Fatal(err)
	    }

	    limit := 6 * cabal.PPMPerPercent
	    exports, err := cabal.EvolveCliques(table, limit, cabal.PPMPerPercent)
	    if err != nil {
	        log.Fatal(err)
	    }

	    for _, threshold := range exports {
	        fmt.Printf("At %d%%\n", threshold.Boundary/cabal.PPMPerPercent)
	        fmt.Println(threshold.Cliques)
	    }
	}

# Similarity Scores

Scores are fixed-point values on a parts-per-million scale: 0 is no
similarity, 1000000 (MaxPPM) is identical content, and one percentage
point spans 10000 units (PPMPerPercent). Lower thresholds therefore mean
stricter similarity. The scale is carried as plain uint32 throughout and
is not range-checked on ingestion.

# The Similarity Table

PPMTable stores one score per unordered pair of names over a closed name
set, so it always represents a complete weighted graph. Names are
interned to dense indices in ascending order and only the upper triangle
of the score matrix is kept, halving memory against a full matrix.
Lookups are constant time, iteration order is deterministic, and
equality between tables is defined over their edge sets rather than
their internal layout. Tables round-trip through WriteTo and ReadFrom in
a little-endian binary format tagged with the TableMagic prefix.

# Clique Evolution

A CliqueSet partitions the names touched so far into disjoint connected
groups. Adding an edge creates a group, extends one, records redundant
connectivity, or fuses two groups, in which case the absorbed group's id
is retired forever. Each clique exposes a representative "core" member,
the member whose worst similarity to the rest of the group is best, with
lexicographic tie-breaking.

Exports diff one threshold's partition against the previous threshold's:
a clique is New when it shares no member with any prior clique, and Old
otherwise, listing the prior cliques it absorbed and the members newly
drawn in. Export ordering is fully deterministic.

# Command Line

The cabal binary under cmd/cabal wraps the pipeline: "cabal analyze"
renders the threshold sweep for a report or a previously saved table, and
"cabal convert" parses a report once and saves the binary table for
faster re-analysis. Configuration layers defaults, an optional YAML file,
CABAL_* environment variables and command-line flags.

# Concurrency

The whole pipeline is a single-threaded batch computation. A built
PPMTable is immutable and safe to share across goroutines; builders and
clique sets are single-owner and carry no synchronization.
*/
package cabal
