package render

import (
	"bufio"
	"io"
)

// Backend is the protocol destination: a writable sink plus the
// version query used to pick optional protocol features, and the
// flush/close pair driving shutdown. Process invocation lives in
// impls.
type Backend interface {
	io.Writer

	Version() (string, error)
	Flush() error
	Close() error
}

// NewWriterBackend adapts a plain writer (dump file, stdout, test
// buffer) into a Backend with no version information.
func NewWriterBackend(w io.Writer) Backend {
	return &writerBackendImpl{
		w: bufio.NewWriter(w),
	}
}

type writerBackendImpl struct {
	w *bufio.Writer
}

func (impl *writerBackendImpl) Write(p []byte) (int, error) {
	return impl.w.Write(p)
}

func (impl *writerBackendImpl) Version() (string, error) {
	return "", nil
}

func (impl *writerBackendImpl) Flush() error {
	return impl.w.Flush()
}

func (impl *writerBackendImpl) Close() error {
	return impl.w.Flush()
}
