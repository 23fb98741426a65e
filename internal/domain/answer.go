package domain

// UploadReceipt is the backend acknowledgement of a stored document.
type UploadReceipt struct {
	Message string
}

// Answer is the first choice returned by the search endpoint.
type Answer struct {
	Content string
	// RetrievedDocs holds the context documents the backend used, if it sent any.
	RetrievedDocs []string
}
