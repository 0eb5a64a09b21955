package compress

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Decompressor turns a possibly-compressed stream into a plain one.
type Decompressor interface {
	Decompress(r io.Reader) (io.ReadCloser, error)
}

// NoOpDecompressor is a Decompressor that does nothing.  Useful for plain files and tests.
type NoOpDecompressor struct{}

func (c *NoOpDecompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// GzipDecompressor decompresses gzip streams.
type GzipDecompressor struct{}

func (c *GzipDecompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	reader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return reader, nil
}

// AutoDecompressor sniffs the stream and only decompresses it if it starts with the gzip magic bytes.
type AutoDecompressor struct{}

func (c *AutoDecompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, errors.WithStack(err)
	}
	if bytes.Equal(head, gzipMagic) {
		return (&GzipDecompressor{}).Decompress(br)
	}
	return (&NoOpDecompressor{}).Decompress(br)
}

// ForPath picks a Decompressor for a file: ".gz" files are always treated as gzip, everything else is sniffed.
func ForPath(path string) Decompressor {
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		return &GzipDecompressor{}
	}
	return &AutoDecompressor{}
}

// OpenFile opens path and returns a reader over its decompressed contents. Closing it closes the file.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rc, err := ForPath(path).Decompress(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileReadCloser{ReadCloser: rc, file: f}, nil
}

type fileReadCloser struct {
	io.ReadCloser
	file *os.File
}

func (r *fileReadCloser) Close() error {
	err := r.ReadCloser.Close()
	if ferr := r.file.Close(); err == nil {
		err = ferr
	}
	return err
}
