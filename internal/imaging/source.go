package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docforge/internal/domain"
)

// Request identifies one piece of subject imagery. The same request key may
// be shared by many documents through the cache.
type Request struct {
	SubjectID string
	Kind      string
	Width     int
	Height    int
}

// Key returns the cache/coalescing key for the request.
func (r Request) Key() string {
	return fmt.Sprintf("%s/%s/%dx%d", r.SubjectID, r.Kind, r.Width, r.Height)
}

// Source is one strategy for obtaining subject imagery. Fetch either returns
// image bytes or an error the acquirer treats as SourceUnavailable.
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

const maxImageBytes = 8 << 20

// HTTPSource fetches imagery from a remote placeholder service.
type HTTPSource struct {
	name   string
	url    string
	client *http.Client
}

// NewHTTPSource builds a network source. A nil client falls back to a shared
// client without a built-in timeout; the acquirer bounds every call with a
// per-source deadline instead.
func NewHTTPSource(name, url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{name: name, url: strings.TrimSpace(url), client: client}
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if s.url == "" {
		return nil, fmt.Errorf("%s: no url configured: %w", s.name, domain.ErrSourceUnavailable)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", s.name, err)
	}
	httpReq.Header.Set("User-Agent", "docforge/1.0")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", s.name, err, domain.ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: http %d: %w", s.name, resp.StatusCode, domain.ErrSourceUnavailable)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", s.name, domain.ErrSourceUnavailable)
	}
	if len(data) > maxImageBytes {
		// A truncated image would pass the header check here and only fail
		// at full decode during rendering; fail the source instead so the
		// chain can advance.
		return nil, fmt.Errorf("%s: body exceeds %d bytes: %w", s.name, maxImageBytes, domain.ErrSourceUnavailable)
	}
	if err := validateImage(data); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", s.name, err, domain.ErrSourceUnavailable)
	}
	return data, nil
}

// LocalSource serves imagery from an on-disk asset library, keyed by subject
// id and kind: <dir>/<subject>_<kind>.(png|jpg).
type LocalSource struct {
	dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

func (s *LocalSource) Name() string { return "local" }

func (s *LocalSource) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.dir == "" {
		return nil, fmt.Errorf("local: no asset dir configured: %w", domain.ErrSourceUnavailable)
	}
	base := fmt.Sprintf("%s_%s", req.SubjectID, req.Kind)
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		data, err := os.ReadFile(filepath.Join(s.dir, base+ext))
		if err != nil {
			continue
		}
		if validateImage(data) == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("local: no asset for %s: %w", base, domain.ErrSourceUnavailable)
}

func validateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty body")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decode image: %v", err)
	}
	return nil
}

// sourceCall wraps one source attempt with a hard deadline so a hung source
// cannot stall the whole acquisition.
func sourceCall(ctx context.Context, src Source, req Request, timeout time.Duration) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return src.Fetch(callCtx, req)
}
