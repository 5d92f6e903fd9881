package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Bucket is a handle on one Storage bucket.
type Bucket struct {
	client *Client
	name   string
}

func (c *Client) Bucket(name string) *Bucket {
	return &Bucket{client: c, name: name}
}

func (b *Bucket) objectURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", b.client.baseURL, url.PathEscape(b.name), escapePath(objectPath))
}

// PublicURL is the address the object is served from in a public bucket.
func (b *Bucket) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", b.client.baseURL, url.PathEscape(b.name), escapePath(objectPath))
}

// Upload stores data at objectPath and returns its public URL.
func (b *Bucket) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := b.client.do(ctx, http.MethodPost, b.objectURL(objectPath), contentType, data); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", b.name, objectPath, err)
	}
	return b.PublicURL(objectPath), nil
}

// Remove deletes the object at objectPath.
func (b *Bucket) Remove(ctx context.Context, objectPath string) error {
	if _, err := b.client.do(ctx, http.MethodDelete, b.objectURL(objectPath), "", nil); err != nil {
		return fmt.Errorf("remove %s/%s: %w", b.name, objectPath, err)
	}
	return nil
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
