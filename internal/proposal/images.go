package proposal

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	maxImageEdge  = 1200
	maxImageBytes = 20 << 20
	jpegQuality   = 85
)

// ImageSource returns an image ready to embed as JPEG.
type ImageSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageFetcher downloads candidate images over HTTP and normalizes them to
// JPEG on a white background.
type ImageFetcher struct {
	httpClient *http.Client
	retries    int
	backoffs   []time.Duration
}

func NewImageFetcher(timeout time.Duration, retries int) *ImageFetcher {
	if retries < 1 {
		retries = 1
	}
	return &ImageFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries:  retries,
		backoffs: defaultBackoffs,
	}
}

// WithBackoffs replaces the wait schedule between attempts.
func (f *ImageFetcher) WithBackoffs(backoffs ...time.Duration) *ImageFetcher {
	f.backoffs = backoffs
	return f
}

func (f *ImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var raw []byte
	err := RetryWithBackoff(ctx, func() error {
		data, err := f.download(ctx, url)
		if err != nil {
			return err
		}
		raw = data
		return nil
	}, f.retries, f.backoffs)
	if err != nil {
		return nil, err
	}

	return normalize(raw)
}

func (f *ImageFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}

// normalize decodes any supported format, fits it within maxImageEdge and
// flattens transparency onto white before encoding as JPEG.
func normalize(raw []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	fitted := imaging.Fit(src, maxImageEdge, maxImageEdge, imaging.Lanczos)
	b := fitted.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	canvas = imaging.Overlay(canvas, fitted, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
