package resolve

import (
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// FileService opens a candidate assembly by path and returns a positional
// reader plus its size, the §6 filesystem collaborator abstraction —
// callers may supply memory-mapped, byte-array, or embedded sources.
type FileService interface {
	Open(path string) (io.ReaderAt, int64, error)
}

// MmapFileService memory-maps every file it opens, the same way
// pe.New maps the PE file it's given via github.com/edsrzf/mmap-go, rather
// than reading the whole candidate into a buffer up front.
type MmapFileService struct{}

// NewMmapFileService returns a FileService backed by mmap.
func NewMmapFileService() *MmapFileService { return &MmapFileService{} }

// Open implements FileService.
func (MmapFileService) Open(path string) (io.ReaderAt, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if info.Size() == 0 {
		// mmap.Map rejects zero-length files; an empty candidate is not a
		// valid managed image regardless, so report it the same way a
		// genuinely unreadable file would be reported.
		f.Close()
		return nil, 0, os.ErrInvalid
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return &mmapReaderAt{data: data, f: f}, int64(len(data)), nil
}

type mmapReaderAt struct {
	data mmap.MMap
	f    *os.File
}

func (m *mmapReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ByteFileService serves fixed in-memory byte slices keyed by path,
// covering the bundle resolver's embedded entries and unit tests that
// should not touch the filesystem at all.
type ByteFileService struct {
	files map[string][]byte
}

// NewByteFileService wraps files (path -> content).
func NewByteFileService(files map[string][]byte) *ByteFileService {
	return &ByteFileService{files: files}
}

// Open implements FileService.
func (b *ByteFileService) Open(path string) (io.ReaderAt, int64, error) {
	data, ok := b.files[path]
	if !ok {
		return nil, 0, os.ErrNotExist
	}
	return byteReaderAt(data), int64(len(data)), nil
}

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
