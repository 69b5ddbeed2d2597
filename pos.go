package cminor

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const eof = -1

// FileID is a small identifier type for a source path. Nothing in the
// module assigns FileIDs yet: diagnostics carry their path as a string
// and type identities carry names.
type FileID int32

const unknownFileID FileID = -1

// Location is a single point within a file: a 1-based line and
// column alongside the raw byte cursor it was derived from.
type Location struct {
	Line   int32
	Column int32
	Cursor int
}

func NewLocation(line, column int32, cursor int) Location {
	return Location{Line: line, Column: column, Cursor: cursor}
}

// Span is a half-open [Start, End) region of a file expressed as two
// Locations. Every AST node and diagnostic is anchored to a Span.
type Span struct {
	Start Location
	End   Location
}

func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	startLine, startCol := int(s.Start.Line), int(s.Start.Column)
	endLine, endCol := int(s.End.Line), int(s.End.Column)
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%d:%d", startLine, startCol)
	}
	if startLine == endLine {
		return fmt.Sprintf("%d:%d..%d", startLine, startCol, endCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", startLine, startCol, endLine, endCol)
}

// Range is a pair of byte cursors into a single file's raw bytes; it
// is cheaper to carry around during lexing/preprocessing than a full
// Span and is converted to one lazily via a LineIndex.
type Range struct{ Start, End int }

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

func (r Range) Str(v []byte) string {
	return string(v[r.Start:r.End])
}

func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// SourceLocation anchors a Span to the file it came from, by FileID.
// AST nodes store a bare Span and diagnostics store a path and line;
// neither uses SourceLocation.
type SourceLocation struct {
	FileID FileID
	Span   Span
}

// LineIndex allows fast conversion from byte cursor offsets to
// line/column.
//
// It stores the start byte offset of each line (0-based). Given a
// cursor, it finds the line by binary searching line starts (O(log
// lines)) and computes the column as (runes since lineStart + 1).
//
// Construction is O(n) over the input and is intended to be cached
// per file.
type LineIndex struct {
	input     []byte
	lineStart []int
}

func NewLineIndex(input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, lineStart: lineStart}
}

func (li *LineIndex) Span(r Range) Span {
	return Span{
		Start: li.LocationAt(r.Start),
		End:   li.LocationAt(r.End),
	}
}

func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}

	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	col := int32(utf8.RuneCount(li.input[lineStart:cursor])) + 1

	return Location{
		Line:   int32(lineIdx + 1),
		Column: col,
		Cursor: cursor,
	}
}
