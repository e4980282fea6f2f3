package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxMessageSize = 64 * 1024

// replayable consumes and closes the request body, returning a source of
// fresh copies. The caller's request is left untouched.
func replayable(r *http.Request) (func() (io.ReadCloser, error), error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	if r.GetBody != nil {
		closeBody(r)
		return r.GetBody, nil
	}
	buf, err := io.ReadAll(r.Body)
	closeBody(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}, nil
}

// clone copies r with a body taken from getBody.
func clone(r *http.Request, getBody func() (io.ReadCloser, error)) (*http.Request, error) {
	cloned := r.Clone(r.Context())
	if getBody == nil {
		return cloned, nil
	}
	body, err := getBody()
	if err != nil {
		return nil, fmt.Errorf("failed to replay request body: %w", err)
	}
	cloned.Body = body
	cloned.GetBody = getBody
	return cloned, nil
}

func closeBody(r *http.Request) {
	if r.Body != nil {
		_ = r.Body.Close()
	}
}

// JoinURL prefixes path with the backend base URL.
func JoinURL(baseURL, path string) string {
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// IsSuccess reports a 2xx status.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// ReadMessage extracts an error message from a response body,
// preferring JSON "message", "msg" or "error" fields over raw text.
func ReadMessage(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxMessageSize))
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, key := range []string{"message", "msg", "error"} {
			if text, ok := payload[key].(string); ok && text != "" {
				return text
			}
		}
	}
	return string(data)
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxMessageSize))
	_ = resp.Body.Close()
}
