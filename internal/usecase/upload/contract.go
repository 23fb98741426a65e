package upload

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Uploader sends a file to the backend.
type Uploader interface {
	Upload(ctx context.Context, f *domain.File) (domain.UploadReceipt, error)
}
