package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// UploadFieldName is the multipart field the backend reads the file from.
const UploadFieldName = "file"

type uploadResponse struct {
	Message string `json:"message"`
}

// Upload streams f to the upload endpoint as multipart/form-data.
//
// A non-2xx status yields *domain.ServerError carrying the body's "detail"
// when present. A failed request, an unreadable body or a 2xx body that is
// not JSON yields *domain.TransportError.
func (c *Client) Upload(ctx context.Context, f *domain.File) (receipt domain.UploadReceipt, err error) {
	start := time.Now()
	var (
		requestID string
		status    int
	)
	defer func() { c.observe(ctx, endpointUpload, requestID, start, status, err) }()

	if f == nil {
		return domain.UploadReceipt{}, domain.ErrNoFileSelected
	}

	body, contentType := multipartBody(f)
	req, requestID, err := c.newRequest(ctx, http.MethodPost, c.uploadPath, body)
	if err != nil {
		_ = body.Close()
		return domain.UploadReceipt{}, domain.NewTransportError(endpointUpload, err)
	}
	req.Header.Set("Content-Type", contentType)

	status, raw, err := c.do(req)
	if err != nil {
		return domain.UploadReceipt{}, domain.NewTransportError(endpointUpload, err)
	}
	c.metrics.AddUploadedBytes(f.Size())

	if !isSuccess(status) {
		return domain.UploadReceipt{}, domain.NewServerError(status, extractDetail(raw))
	}

	var payload uploadResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.UploadReceipt{}, domain.NewTransportError(
			endpointUpload, fmt.Errorf("decode upload response: %w", err),
		)
	}
	return domain.UploadReceipt{Message: payload.Message}, nil
}

// multipartBody streams the file through a pipe so it is never buffered whole.
// The writer goroutine exits once the HTTP client closes the reader.
func multipartBody(f *domain.File) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, f))
	}()

	return pr, mw.FormDataContentType()
}

func writeMultipart(mw *multipart.Writer, f *domain.File) error {
	part, err := mw.CreateFormFile(UploadFieldName, f.Name())
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}
	return nil
}
