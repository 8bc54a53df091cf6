package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"

	lru "github.com/hashicorp/golang-lru"
	"github.com/vetcare/vetportal/config"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	thumbnailMaxPixels = 480
	photoMaxBytes      = 10 << 20
)

// Photo is a png encoded thumbnail
type Photo struct {
	Data   []byte
	Width  int
	Height int
}

// PhotoLoader loads the photo of a patient. Any failure results in no photo.
type PhotoLoader interface {
	Load(ctx context.Context, ref string) (*Photo, bool)
}

type PhotoFetcher struct {
	http    *http.Client
	resolve func(ref string) (string, error)
	cache   *lru.Cache
	logger  *zap.SugaredLogger
}

var _ PhotoLoader = &PhotoFetcher{}

func NewPhotoFetcher(cfg *config.Config, logger *zap.SugaredLogger) (*PhotoFetcher, error) {
	return NewPhotoFetcherWithClient(&http.Client{Timeout: cfg.RequestTimeout}, cfg.ResolveURL, cfg.PhotoCacheSize, logger)
}

func NewPhotoFetcherWithClient(httpClient *http.Client, resolve func(ref string) (string, error), cacheSize int, logger *zap.SugaredLogger) (*PhotoFetcher, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable to create photo cache: %w", err)
	}

	return &PhotoFetcher{
		http:    httpClient,
		resolve: resolve,
		cache:   cache,
		logger:  logger,
	}, nil
}

// Load fetches the photo at ref, which may be relative to the backend origin.
// Thumbnails are cached by their absolute url.
func (p *PhotoFetcher) Load(ctx context.Context, ref string) (*Photo, bool) {
	if ref == "" {
		return nil, false
	}

	u, err := p.resolve(ref)
	if err != nil {
		p.logger.Debugw("invalid photo url", "ref", ref, zap.Error(err))
		return nil, false
	}
	if cached, ok := p.cache.Get(u); ok {
		return cached.(*Photo), true
	}

	photo, err := p.fetch(ctx, u)
	if err != nil {
		p.logger.Debugw("unable to load photo", "url", u, zap.Error(err))
		return nil, false
	}

	p.cache.Add(u, photo)
	return photo, true
}

func (p *PhotoFetcher) fetch(ctx context.Context, u string) (*Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, photoMaxBytes))
	if err != nil {
		return nil, err
	}

	return EncodeThumbnail(data, thumbnailMaxPixels)
}

// EncodeThumbnail decodes a jpeg, png, gif or webp image and re-encodes it as png,
// scaled down so that it fits into a square of maxPixels
func EncodeThumbnail(data []byte, maxPixels int) (*Photo, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode photo: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("photo is empty")
	}

	scale := math.Min(1, float64(maxPixels)/float64(max(width, height)))
	width = max(1, int(math.Round(float64(width)*scale)))
	height = max(1, int(math.Round(float64(height)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, dst); err != nil {
		return nil, fmt.Errorf("unable to encode photo: %w", err)
	}

	return &Photo{
		Data:   buf.Bytes(),
		Width:  width,
		Height: height,
	}, nil
}
