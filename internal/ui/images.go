package ui

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"go.uber.org/zap"
)

const (
	cardImageWidth    = 240
	cardImageHeight   = 150
	detailImageWidth  = 480
	detailImageHeight = 300
)

// imageLoader fetches recipe pictures in the background and caches the
// decoded result by URL.
type imageLoader struct {
	client *http.Client
	log    *zap.Logger

	mu    sync.Mutex
	cache map[string]image.Image
}

func newImageLoader(client *http.Client, log *zap.Logger) *imageLoader {
	return &imageLoader{client: client, log: log, cache: map[string]image.Image{}}
}

// placeholder returns an empty canvas image sized for w x h and starts
// loading url into it.
func (l *imageLoader) placeholder(url string, w, h float32) *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(w, h))
	if url == "" {
		return img
	}
	if cached := l.cached(url); cached != nil {
		img.Image = cached
		return img
	}
	go l.load(img, url)
	return img
}

func (l *imageLoader) cached(url string) image.Image {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache[url]
}

func (l *imageLoader) load(dst *canvas.Image, url string) {
	decoded, err := l.fetch(url)
	if err != nil {
		l.log.Debug("image load failed", zap.String("url", url), zap.Error(err))
		return
	}
	l.mu.Lock()
	l.cache[url] = decoded
	l.mu.Unlock()

	fyne.Do(func() {
		dst.Image = decoded
		dst.Refresh()
	})
}

func (l *imageLoader) fetch(url string) (image.Image, error) {
	resp, err := l.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}
