package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

type searchRequest struct {
	Query string `json:"query"`
}

// searchResponse is the chat-completion shaped payload of the search endpoint.
// Message is a pointer so a missing message is distinguishable from empty content.
type searchResponse struct {
	ID            string         `json:"id,omitempty"`
	Model         string         `json:"model,omitempty"`
	Choices       []searchChoice `json:"choices"`
	Usage         openai.Usage   `json:"usage"`
	RetrievedDocs []string       `json:"retrieved_docs,omitempty"`
}

type searchChoice struct {
	Index        int                           `json:"index"`
	Message      *openai.ChatCompletionMessage `json:"message"`
	FinishReason openai.FinishReason           `json:"finish_reason,omitempty"`
}

// Search sends query to the search endpoint and returns the first choice.
//
// A non-2xx status yields *domain.ServerError. A 2xx body without
// choices[0].message yields *domain.ResponseShapeError. A failed request or a
// body that is not JSON yields *domain.TransportError.
func (c *Client) Search(ctx context.Context, query string) (answer domain.Answer, err error) {
	start := time.Now()
	var (
		requestID string
		status    int
	)
	defer func() { c.observe(ctx, endpointSearch, requestID, start, status, err) }()

	payload, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("marshal search request: %w", err)
	}

	req, requestID, err := c.newRequest(ctx, http.MethodPost, c.searchPath, bytes.NewReader(payload))
	if err != nil {
		return domain.Answer{}, domain.NewTransportError(endpointSearch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, raw, err := c.do(req)
	if err != nil {
		return domain.Answer{}, domain.NewTransportError(endpointSearch, err)
	}
	if !isSuccess(status) {
		return domain.Answer{}, domain.NewServerError(status, extractDetail(raw))
	}

	return c.decodeAnswer(raw)
}

func (c *Client) decodeAnswer(raw []byte) (domain.Answer, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.Answer{}, domain.NewResponseShapeError(
				c.searchPath, fmt.Sprintf("field %q has unexpected type %s", typeErr.Field, typeErr.Value),
			)
		}
		return domain.Answer{}, domain.NewTransportError(
			endpointSearch, fmt.Errorf("decode search response: %w", err),
		)
	}

	if len(resp.Choices) == 0 {
		return domain.Answer{}, domain.NewResponseShapeError(c.searchPath, "response has no choices")
	}
	msg := resp.Choices[0].Message
	if msg == nil {
		return domain.Answer{}, domain.NewResponseShapeError(c.searchPath, "first choice has no message")
	}

	return domain.Answer{
		Content:       messageText(msg),
		RetrievedDocs: resp.RetrievedDocs,
	}, nil
}

// messageText returns the plain content, joining text parts when the
// backend sent multi-part content instead of a string.
func messageText(msg *openai.ChatCompletionMessage) string {
	if msg.Content != "" || len(msg.MultiContent) == 0 {
		return msg.Content
	}
	var parts []string
	for _, p := range msg.MultiContent {
		if p.Type == openai.ChatMessagePartTypeText {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}
