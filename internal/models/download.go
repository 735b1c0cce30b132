package models

import (
	"io"
	"time"

	"github.com/yourname/fileshare_lite/pkg/byterange"
)

// Download is an opened file ready to be streamed to a client.
// Body is positioned at the first byte to send and yields exactly Length() bytes.
type Download struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
	Range       *byterange.Range
	Body        io.ReadCloser
}

// Length returns the number of bytes Body will produce.
func (d *Download) Length() int64 {
	if d.Range != nil {
		return d.Range.Length()
	}
	return d.Size
}

// Partial reports whether a byte range is being served.
func (d *Download) Partial() bool {
	return d.Range != nil
}

// Entry is one row of a directory listing.
type Entry struct {
	Name    string
	RelPath string
	IsDir   bool
	Size    int64
	ModTime time.Time
}
