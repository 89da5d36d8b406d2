package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Uploader moves raw video bytes to the upload target issued by the
// backend. One attempt per call: a failed or aborted transfer is
// terminal for that attempt and the pipeline decides what to tell the
// author.
type Uploader struct {
	HTTP *http.Client
}

func NewUploader() *Uploader {
	tr := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	// no client timeout: a 2 GiB transfer on a slow link is legitimate;
	// cancellation comes from ctx or a transport error
	return &Uploader{HTTP: &http.Client{Transport: tr}}
}

// Send PUTs size bytes from src to uploadURL, authorizing with the
// slot's access key. progress, when non-nil, is called with the
// cumulative byte count as the body is consumed.
func (u *Uploader) Send(ctx context.Context, uploadURL, accessKey string, src io.Reader, size int64, progress func(sent int64)) error {
	body := io.Reader(src)
	if progress != nil {
		body = &countingReader{r: src, report: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("stream: build upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("AccessKey", accessKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := u.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("stream: transfer failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("stream: transfer rejected: status=%d body=%s", resp.StatusCode, b)
	}
	// drain so the connection is reusable
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// EmbedURL builds the playable URL for an uploaded video from the
// fixed embed template plus library/video identifiers.
func EmbedURL(template, libraryID, videoID string) string {
	return fmt.Sprintf(template, libraryID, videoID)
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
