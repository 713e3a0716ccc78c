package lzjd

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mmapThreshold is the file size at or above which FileSource maps the file
// instead of reading it into an allocated buffer.
const mmapThreshold = 1 << 20

// BytesSource is an in-memory source.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) ID() string { return s.Name }

func (s BytesSource) Bytes() ([]byte, func() error, error) {
	return s.Data, func() error { return nil }, nil
}

// FileSource reads one file. Large files are memory-mapped read-only and
// unmapped by the release function; small files are read into memory.
// On Linux the kernel is hinted that the file will be read sequentially.
type FileSource string

func (s FileSource) ID() string { return string(s) }

func (s FileSource) Bytes() ([]byte, func() error, error) {
	f, err := os.Open(string(s))
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	size := info.Size()
	fadviseSequential(int(f.Fd()), 0, size)

	if size < mmapThreshold {
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, nil, err
		}
		return data, func() error { return nil }, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	// Per POSIX mmap(2), the mapping persists after the descriptor closes.
	closeErr := f.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", s, err)
	}
	if closeErr != nil {
		mm.Unmap()
		return nil, nil, closeErr
	}
	return mm, mm.Unmap, nil
}

// DigestFile digests one file, using the path as the source id.
func DigestFile(path string, opts ...Option) (Digest, error) {
	src := FileSource(path)
	data, release, err := src.Bytes()
	if err != nil {
		return Digest{}, err
	}
	d, err := DigestBytes(src.ID(), data, opts...)
	if relErr := release(); err == nil {
		err = relErr
	}
	if err != nil {
		return Digest{}, err
	}
	return d, nil
}
