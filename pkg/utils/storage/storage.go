// Package storage stores uploaded media and hands back public URLs.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Storage is implemented by the local disk store and the R2 bucket store.
// Delete takes the URL returned by Put; deleting a missing object is not an
// error.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

var ErrForeignURL = errors.New("url is not served by this storage")

func keyFromURL(publicURL, url string) (string, error) {
	prefix := strings.TrimRight(publicURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}
