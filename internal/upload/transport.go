package upload

import (
	"context"
	"io"
	"path"

	"course-publisher/internal/providers/lms"
	"course-publisher/internal/providers/stream"
	"course-publisher/internal/sftpclient"
)

// Transport moves the raw bytes of one video to the streaming origin.
type Transport interface {
	Send(ctx context.Context, slot lms.Slot, src io.Reader, size int64, progress func(sent int64)) error
}

// HTTPTransport PUTs to the slot's upload URL; the default.
type HTTPTransport struct {
	Uploader *stream.Uploader
}

func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{Uploader: stream.NewUploader()}
}

func (t *HTTPTransport) Send(ctx context.Context, slot lms.Slot, src io.Reader, size int64, progress func(int64)) error {
	return t.Uploader.Send(ctx, slot.UploadURL, slot.AccessKey, src, size, progress)
}

// SFTPTransport ingests straight into the streaming origin's storage
// zone. Some deployments prefer it for very large files.
type SFTPTransport struct {
	Config sftpclient.Config
}

func (t *SFTPTransport) Send(ctx context.Context, slot lms.Slot, src io.Reader, size int64, progress func(int64)) error {
	body := src
	if progress != nil {
		body = &countingReader{r: src, report: progress}
	}
	name := slot.VideoID + path.Ext(remoteNameHint(src))
	if name == slot.VideoID {
		name = slot.VideoID + ".mp4"
	}
	return sftpclient.Send(ctx, t.Config, body, name)
}

// remoteNameHint recovers a filename when the reader is a named file.
func remoteNameHint(src io.Reader) string {
	type named interface{ Name() string }
	if n, ok := src.(named); ok {
		return n.Name()
	}
	return ""
}

type countingReader struct {
	r      io.Reader
	sent   int64
	report func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		c.report(c.sent)
	}
	return n, err
}
