package dispatcher

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/valyala/fasthttp"
)

// FileFetcher downloads a URL into a file ready for upload.
type FileFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*discordgo.File, error)
}

type AttachmentFetcher struct {
	pool    *HTTPPool
	timeout time.Duration
}

func NewAttachmentFetcher(pool *HTTPPool, timeout time.Duration) *AttachmentFetcher {
	return &AttachmentFetcher{pool: pool, timeout: timeout}
}

func (af *AttachmentFetcher) Fetch(ctx context.Context, rawURL string) (*discordgo.File, error) {
	name, err := fileNameFromURL(rawURL)
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(af.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := af.pool.GetClient().DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", rawURL, status)
	}

	// resp is returned to the pool, so the body must be copied out.
	body := append([]byte(nil), resp.Body()...)

	return &discordgo.File{
		Name:        name,
		ContentType: string(resp.Header.ContentType()),
		Reader:      bytes.NewReader(body),
	}, nil
}

func fileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid attachment url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid attachment url %q: unsupported scheme", rawURL)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "attachment"
	}
	return name, nil
}
