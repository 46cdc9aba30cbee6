package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nfnt/resize"
)

// ImageLoader загружает изображение по src и возвращает данные и тип для fpdf (jpg, png, gif).
type ImageLoader interface {
	LoadImage(ctx context.Context, src string) ([]byte, string, error)
}

// ImageLoaderFunc - адаптер функции к ImageLoader.
type ImageLoaderFunc func(ctx context.Context, src string) ([]byte, string, error)

func (f ImageLoaderFunc) LoadImage(ctx context.Context, src string) ([]byte, string, error) {
	return f(ctx, src)
}

const maxImageBytes = 20 << 20

// HTTPImageLoader загружает изображения по HTTP с повторами и уменьшает их
// до MaxSize точек по большей стороне.
type HTTPImageLoader struct {
	client  *retryablehttp.Client
	baseURL *url.URL

	MaxSize uint
}

// NewHTTPImageLoader создает загрузчик. Относительные адреса разрешаются относительно baseURL.
func NewHTTPImageLoader(baseURL *url.URL, timeout time.Duration) *HTTPImageLoader {
	cl := retryablehttp.NewClient()
	cl.RetryMax = 3
	cl.RetryWaitMin = time.Millisecond * 200
	cl.RetryWaitMax = time.Second * 2
	cl.HTTPClient.Timeout = timeout
	cl.Logger = slog.Default()

	return &HTTPImageLoader{
		client:  cl,
		baseURL: baseURL,
		MaxSize: 1024,
	}
}

func (l *HTTPImageLoader) LoadImage(ctx context.Context, src string) ([]byte, string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, "", fmt.Errorf("parse image url: %w", err)
	}
	if u.Host == "" && l.baseURL != nil {
		u = l.baseURL.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported image url scheme %q", u.Scheme)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("load image: unexpected status %d", resp.StatusCode)
	}

	return l.decode(io.LimitReader(resp.Body, maxImageBytes))
}

// decode уменьшает изображение и перекодирует его в JPEG.
func (l *HTTPImageLoader) decode(r io.Reader) ([]byte, string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if l.MaxSize > 0 {
		img = resize.Thumbnail(l.MaxSize, l.MaxSize, img, resize.Lanczos3)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "jpg", nil
}
