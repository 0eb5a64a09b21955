package compress

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contents = "RID,gender,IPIP_A\n1,male,3.5\n"

func gzipped(t *testing.T, s string) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readAll(t *testing.T, d Decompressor, r io.Reader) string {
	rc, err := d.Decompress(r)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestDecompressors(t *testing.T) {
	assert.Equal(t, contents, readAll(t, &NoOpDecompressor{}, strings.NewReader(contents)))
	assert.Equal(t, contents, readAll(t, &GzipDecompressor{}, bytes.NewReader(gzipped(t, contents))))
	assert.Equal(t, contents, readAll(t, &AutoDecompressor{}, bytes.NewReader(gzipped(t, contents))))
	assert.Equal(t, contents, readAll(t, &AutoDecompressor{}, strings.NewReader(contents)))
	assert.Equal(t, "", readAll(t, &AutoDecompressor{}, strings.NewReader("")))
}

func TestGzipDecompressor_RejectsPlainText(t *testing.T) {
	_, err := (&GzipDecompressor{}).Decompress(strings.NewReader(contents))
	assert.Error(t, err)
}

func TestForPath(t *testing.T) {
	assert.IsType(t, &GzipDecompressor{}, ForPath("data.csv.gz"))
	assert.IsType(t, &GzipDecompressor{}, ForPath("DATA.CSV.GZ"))
	assert.IsType(t, &AutoDecompressor{}, ForPath("data.csv"))
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "data.csv")
	compressed := filepath.Join(dir, "data.csv.gz")
	require.NoError(t, os.WriteFile(plain, []byte(contents), 0o644))
	require.NoError(t, os.WriteFile(compressed, gzipped(t, contents), 0o644))

	for _, path := range []string{plain, compressed} {
		rc, err := OpenFile(path)
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, contents, string(b))
	}

	_, err := OpenFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
