package domain

import (
	"context"
	"io"
)

// MediaUpload is a binary payload destined for the media host.
type MediaUpload struct {
	Filename string
	Folder   string
	Content  io.Reader
}

// MediaUploader stores binary media and returns a publicly resolvable URL.
type MediaUploader interface {
	Upload(ctx context.Context, upload *MediaUpload) (url string, err error)
	Delete(ctx context.Context, url string) error
}
