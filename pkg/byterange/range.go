// Package byterange parses single-range HTTP Range headers.
package byterange

import (
	"fmt"
	"strconv"
	"strings"
)

const unitPrefix = "bytes="

// Range is an inclusive byte interval with Start <= End < size.
type Range struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered.
func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a file of size bytes.
func (r Range) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Parse reads a "bytes=start-end" header for a file of the given size.
// A missing or unparsable end means "to the last byte". The second return value
// is false when the header is absent, malformed or out of bounds; callers then
// serve the whole file. Multi-range headers are not split: only the text up to
// the second '-' is considered.
func Parse(header string, size int64) (Range, bool) {
	if size <= 0 || !strings.HasPrefix(header, unitPrefix) {
		return Range{}, false
	}

	parts := strings.Split(header[len(unitPrefix):], "-")
	if len(parts) < 2 {
		return Range{}, false
	}

	start, err := parseBound(parts[0])
	if err != nil {
		return Range{}, false
	}

	end := uint64(size - 1)
	if v, err := parseBound(parts[1]); err == nil {
		end = v
	}

	if start > end || end >= uint64(size) {
		return Range{}, false
	}

	return Range{Start: int64(start), End: int64(end)}, true
}

// parseBound reads a decimal offset; one leading '+' is allowed.
func parseBound(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
}
