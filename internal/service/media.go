package service

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"aqarat_backend/pkg/utils/image"
	"aqarat_backend/pkg/utils/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const videoFolder = "properties/videos"

// Media uploads request files to storage. Callers upload before opening a
// transaction and Discard the returned URLs if the transaction fails.
type Media struct {
	store storage.Storage
}

func NewMedia(store storage.Storage) *Media {
	return &Media{store: store}
}

func (m *Media) SaveImage(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	res, err := image.ProcessImage(file)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/_%s%s", folder, uuid.NewString(), res.Ext)
	url, err := m.store.Put(ctx, key, res.Body, res.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

// SaveImages uploads every file or none: on failure the files already
// uploaded are removed again.
func (m *Media) SaveImages(ctx context.Context, files []*multipart.FileHeader, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := m.SaveImage(ctx, f, folder)
		if err != nil {
			m.Discard(ctx, urls...)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (m *Media) SaveVideos(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := m.saveVideo(ctx, f)
		if err != nil {
			m.Discard(ctx, urls...)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (m *Media) saveVideo(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/video_%s%s", videoFolder, uuid.NewString(), ext)
	url, err := m.store.Put(ctx, key, src, contentType)
	if err != nil {
		return "", fmt.Errorf("upload video: %w", err)
	}
	return url, nil
}

// Discard deletes stored files. Failures are logged, never returned: the
// caller is already handling a more important error or has committed.
func (m *Media) Discard(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := m.store.Delete(ctx, u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("could not delete stored file")
		}
	}
}
