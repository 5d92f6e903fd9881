package submission

import (
	"context"

	"agentzone/internal/tool"
)

// Uploader stores images. Upload returns the public URL of the object.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, objectPath string) error
}

// Creator writes a tool row and returns its server-assigned id.
type Creator interface {
	Create(ctx context.Context, t *tool.Tool) (string, error)
}
