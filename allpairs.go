// Package cabal implements parsing of allpairs similarity reports.
//
// REPORT FORMAT:
// Each row of an allpairs report describes one compared pair of handin
// files: the similarity score in ppm, the edit distance, the lengths of
// both files, and the two file paths. Rows may be indented and columns
// are separated by runs of spaces:
//
//	  2191     23   5260   5236 a2-anonymous/001/a2.py a2-anonymous/002/a2.py
//
// Only the score and the two paths matter here; the middle columns are
// matched and discarded. Every line must parse. A malformed line aborts
// the load with an error rather than being skipped, because a silently
// dropped pair would later surface as a confusing incomplete-graph
// failure, or worse, not surface at all.
//
// ID EXTRACTION:
// Paths usually embed the identifier the analysis should group by, such
// as the submitter directory. An optional pattern extracts it: the
// pattern's first capture group applied to each path column becomes the
// name fed to the table. Without a pattern the raw paths are the names.
package cabal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidLine is returned when a report line does not match the
	// allpairs row format.
	ErrInvalidLine = errors.New("cabal: line is not a valid allpairs entry")

	// ErrInvalidPPM is returned when the score column cannot be parsed
	// as a 32-bit unsigned integer.
	ErrInvalidPPM = errors.New("cabal: ppm field is missing or invalid")

	// ErrIDPatternMismatch is returned when the id pattern fails to
	// match a path column.
	ErrIDPatternMismatch = errors.New("cabal: id pattern did not match a path")

	// ErrIDPatternNoGroup is returned when the id pattern matches but
	// its first capture group captures nothing.
	ErrIDPatternNoGroup = errors.New("cabal: id pattern did not capture an id")
)

// allpairsLine matches one report row: ppm, edit distance, left length,
// right length, then the two file paths.
var allpairsLine = regexp.MustCompile(`^ *(?P<ppm>\d+) +(?P<edit_distance>\d+) +(?P<l_len>\d+) +(?P<r_len>\d+) +(?P<l_path>.+) +(?P<r_path>.+)$`)

// LoadOption configures LoadAllpairs.
type LoadOption func(*loadOptions)

type loadOptions struct {
	idPattern *regexp.Regexp
	normalize bool
}

// WithIDPattern extracts names from the path columns: the pattern is
// applied to each path and its first capture group becomes the name.
// Without this option the raw path strings are the names.
func WithIDPattern(pattern *regexp.Regexp) LoadOption {
	return func(o *loadOptions) {
		o.idPattern = pattern
	}
}

// WithIDNormalization folds names to Unicode NFC before interning.
// Useful when reports were produced on filesystems that decompose
// accented characters, so the same submitter directory can otherwise
// appear under two byte-distinct spellings. Off by default: names are
// opaque and byte-exact unless asked otherwise.
func WithIDNormalization() LoadOption {
	return func(o *loadOptions) {
		o.normalize = true
	}
}

// LoadAllpairs parses an allpairs report into a complete similarity
// table.
//
// The whole report is read before anything is validated structurally:
// rows feed a PPMTableBuilder pair by pair, duplicates overwriting as
// usual, and the final Build enforces the complete-graph requirement.
// Errors from individual lines carry the line number and wrap one of the
// sentinel errors above, so callers can branch with errors.Is.
func LoadAllpairs(r io.Reader, opts ...LoadOption) (*PPMTable, error) {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}

	ppmIdx := allpairsLine.SubexpIndex("ppm")
	lPathIdx := allpairsLine.SubexpIndex("l_path")
	rPathIdx := allpairsLine.SubexpIndex("r_path")

	builder := NewPPMTableBuilder()

	scanner := bufio.NewScanner(r)
	// Rows with long paths can outgrow the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		captures := allpairsLine.FindStringSubmatch(line)
		if captures == nil {
			return nil, fmt.Errorf("line %d %q: %w", lineNo, line, ErrInvalidLine)
		}

		ppm, err := strconv.ParseUint(captures[ppmIdx], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", lineNo, captures[ppmIdx], ErrInvalidPPM)
		}

		left, err := extractID(captures[lPathIdx], &options)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		right, err := extractID(captures[rPathIdx], &options)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		builder.Add(left, right, uint32(ppm))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allpairs report: %w", err)
	}

	table, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("allpairs report: %w", err)
	}
	return table, nil
}

func extractID(path string, options *loadOptions) (string, error) {
	id := path
	if options.idPattern != nil {
		captures := options.idPattern.FindStringSubmatch(path)
		if captures == nil {
			return "", fmt.Errorf("path %q, pattern %q: %w", path, options.idPattern, ErrIDPatternMismatch)
		}
		if len(captures) < 2 || captures[1] == "" {
			return "", fmt.Errorf("path %q, pattern %q: %w", path, options.idPattern, ErrIDPatternNoGroup)
		}
		id = captures[1]
	}
	if options.normalize {
		id = norm.NFC.String(id)
	}
	return id, nil
}
