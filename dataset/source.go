package dataset

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/inhies/go-bytesize"
	"github.com/klauspost/compress/zstd"
)

var ErrUnsupportedSource = errors.New("unsupported pgn source")

// Source is an open stream of PGN text, decompressed when needed.
type Source struct {
	io.Reader
	path    string
	counter *ByteCountingReader
	size    bytesize.ByteSize
	closers []closeFn
}

// Reader that keeps track on the bytes read. Wrapping the raw input lets
// progress be reported against the on-disk size of compressed files.
type ByteCountingReader struct {
	reader    io.Reader
	bytesRead bytesize.ByteSize
}

func (bcr *ByteCountingReader) Read(p []byte) (n int, err error) {
	c, err := bcr.reader.Read(p)
	bcr.bytesRead += bytesize.ByteSize(uint64(c))
	return c, err
}

type closeFn func() error

// OpenSource opens a local file or http(s) URL. The extension picks the
// codec: .pgn, .bz2 or .zst.
func OpenSource(p string) (*Source, error) {
	ext, err := sourceExt(p)
	if err != nil {
		return nil, err
	}

	raw, size, closeRaw, err := openRaw(p)
	if err != nil {
		return nil, err
	}

	s := &Source{
		path:    p,
		counter: &ByteCountingReader{reader: raw},
		size:    size,
		closers: []closeFn{closeRaw},
	}

	switch ext {
	case ".zst":
		dec, err := zstd.NewReader(s.counter)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open zst %s: %w", p, err)
		}
		s.Reader = dec
		s.closers = append(s.closers, func() error { dec.Close(); return nil })
	case ".bz2":
		dec, err := bzip2.NewReader(s.counter, nil)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open bzip2 %s: %w", p, err)
		}
		s.Reader = dec
		s.closers = append(s.closers, dec.Close)
	default:
		s.Reader = s.counter
	}

	return s, nil
}

func sourceExt(p string) (string, error) {
	name := p
	if isURL(p) {
		u, err := url.Parse(p)
		if err != nil {
			return "", err
		}
		name = u.Path
	}
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".pgn", ".bz2", ".zst":
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, p)
	}
}

func openRaw(p string) (io.Reader, bytesize.ByteSize, closeFn, error) {
	if isURL(p) {
		r, err := http.Get(p)
		if err != nil {
			return nil, 0, nil, err
		}
		if r.StatusCode != http.StatusOK {
			r.Body.Close()
			return nil, 0, nil, fmt.Errorf("fetch %s: %s", p, r.Status)
		}

		return r.Body, bytesize.ByteSize(max(r.ContentLength, 0)), r.Body.Close, nil
	}

	file, err := os.Open(p)
	if err != nil {
		return nil, 0, nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, nil, err
	}

	return file, bytesize.ByteSize(stat.Size()), file.Close, nil
}

func isURL(p string) bool {
	u, err := url.Parse(p)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Size is the size of the raw (possibly compressed) input, 0 when unknown.
func (s *Source) Size() bytesize.ByteSize {
	return s.size
}

// BytesRead is how much of the raw input has been consumed.
func (s *Source) BytesRead() bytesize.ByteSize {
	return s.counter.bytesRead
}

// Close releases the decoder and the underlying file or response body.
func (s *Source) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if cerr := s.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.closers = nil
	return err
}
