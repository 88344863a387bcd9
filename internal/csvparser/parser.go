// =============================================================================
// EDI Order Translator - Order File Parser
// =============================================================================
//
// This module reads partner order files. An order file is comma-separated
// text where:
//   - The first line is the header row. Its first field is the literal
//     classification code that identifies the trading partner.
//   - Every following non-empty line is one data row.
//
// FEATURES:
//   - Line splitting tolerant of CRLF terminators
//   - Empty lines are dropped, matching how partners pad their files
//   - CSV quoting rules for field splitting (quoted commas stay in a field)
//   - No trimming or normalization of field values
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/edi-order-translator/internal/types"
)

// maxLineBytes bounds a single line of an order file.
const maxLineBytes = 1 << 20

// =============================================================================
// ORDER FILE STRUCTURE
// =============================================================================

// OrderFile is the raw content of one intake file.
type OrderFile struct {
	// SourceFile is the name or path the lines were read from.
	SourceFile string

	// Lines holds every non-empty line without its terminator.
	// Lines[0] is the header row.
	Lines []string
}

// NewOrderFile wraps already read lines.
func NewOrderFile(source string, lines []string) *OrderFile {
	return &OrderFile{SourceFile: source, Lines: lines}
}

// Parse reads an order file from r.
//
// PARAMETERS:
//   - source: The file name, used in error messages.
//   - r:      The file content.
//
// RETURNS:
//   - The order file with its non-empty lines.
//   - An error if the content cannot be read.
func Parse(source string, r io.Reader) (*OrderFile, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return NewOrderFile(source, lines), nil
}

// HasData reports whether the file has at least one data row after the
// header row.
func (f *OrderFile) HasData() bool {
	return len(f.Lines) > 1
}

// HeaderCode returns the first field of the header row, exactly as written.
func (f *OrderFile) HeaderCode() string {
	if len(f.Lines) == 0 {
		return ""
	}

	fields, err := SplitFields(f.Lines[0])
	if err != nil || len(fields) == 0 {
		// Fall back to a plain split so a stray quote in a later header
		// field cannot hide the code.
		code, _, _ := strings.Cut(f.Lines[0], ",")
		return code
	}
	return fields[0]
}

// DataLines returns the lines after the header row.
func (f *OrderFile) DataLines() []string {
	if len(f.Lines) <= 1 {
		return nil
	}
	return f.Lines[1:]
}

// =============================================================================
// LINE AND FIELD SPLITTING
// =============================================================================

// ReadLines returns every non-empty line of r without line terminators.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// SplitFields splits one line on commas using CSV quoting rules.
//
// CONFIGURATION:
//   - FieldsPerRecord is disabled: partners send rows of varying length.
//   - LazyQuotes is on: stray quotes inside descriptions are common.
//   - Leading spaces are kept: field values are compared byte for byte.
func SplitFields(line string) (types.InputRecord, error) {
	if line == "" {
		return types.InputRecord{""}, nil
	}

	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = ','
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false

	fields, err := reader.Read()
	if err == io.EOF {
		return types.InputRecord{""}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to split line: %w", err)
	}

	return types.InputRecord(fields), nil
}
