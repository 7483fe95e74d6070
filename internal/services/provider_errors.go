package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"google.golang.org/genai"

	"alfredoptarigan/resume-scorer/internal/resilience"
)

// providerError attaches the HTTP status of a failed provider call so the
// retry policy can tell quota and server errors from bad requests.
type providerError struct {
	provider string
	code     int
	err      error
}

func (e *providerError) Error() string {
	return fmt.Sprintf("%s returned status %d: %v", e.provider, e.code, e.err)
}

func (e *providerError) Unwrap() error   { return e.err }
func (e *providerError) StatusCode() int { return e.code }

var _ resilience.StatusCoder = (*providerError)(nil)

// wrapGeminiError exposes the status code of a genai.APIError.
func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &providerError{provider: "gemini", code: apiErr.Code, err: err}
	}
	return err
}

var statusCodePattern = regexp.MustCompile(`status code:? (\d{3})`)

// wrapOpenAIError recovers the status code from the langchaingo client's
// error text, which carries no typed status.
func wrapOpenAIError(err error) error {
	m := statusCodePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	code, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return err
	}
	return &providerError{provider: "openai", code: code, err: err}
}
