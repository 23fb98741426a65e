package domain

import "fmt"

// User-facing status messages shown by the upload and search widgets.
const (
	StatusNoFileSelected  = "No file selected."
	StatusSelectFileFirst = "Please select a file first!"
	StatusUploading       = "Uploading..."
	StatusUnknownError    = "Unknown error"

	SearchFailedMessage = "Failed to get search results. Please try again."
)

// SelectedStatus reports a freshly selected file.
func SelectedStatus(name string) string {
	return fmt.Sprintf("Selected: %s", name)
}

// UploadSucceededStatus incorporates the server message into the success text.
func UploadSucceededStatus(message string) string {
	return fmt.Sprintf("Upload successful! %s", message)
}

// UploadFailedStatus incorporates the server detail, falling back to a generic text.
func UploadFailedStatus(detail string) string {
	if detail == "" {
		detail = StatusUnknownError
	}
	return fmt.Sprintf("Upload failed: %s", detail)
}

// NetworkErrorStatus incorporates the transport error text.
func NetworkErrorStatus(err error) string {
	return fmt.Sprintf("Network error: %v", err)
}
