package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// apiErrorBody is the wire shape of a Last.fm error response.
type apiErrorBody struct {
	Code    *int   `json:"error"`
	Message string `json:"message"`
}

// call makes a signed POST request to the Last.fm API.
//
// It handles:
// - Request construction (method, api_key, format, api_sig parameters)
// - Signature calculation
// - Classifying the response into success, *APIError or *TransportError
// - Context cancellation
//
// The service may report an API error either with an HTTP status >= 400 or
// inside a 200 response body (notably code 14 while an auth token awaits
// approval), so both paths are checked.
func (c *Client) call(ctx context.Context, method string, params map[string]string) ([]byte, error) {
	reqParams := make(map[string]string, len(params)+3)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["method"] = method
	reqParams["api_key"] = c.apiKey
	reqParams["format"] = "json"

	signature := calculateSignature(reqParams, c.apiSecret)

	formData := url.Values{}
	for k, v := range reqParams {
		formData.Add(k, v)
	}
	formData.Add("api_sig", signature)

	c.logDebugf("lastfm: calling %s", method)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode >= 400 {
		if apiErr := decodeAPIError(body); apiErr != nil {
			return nil, apiErr
		}
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: body}
	}

	if apiErr := decodeAPIError(body); apiErr != nil {
		return nil, apiErr
	}

	c.logDebugf("lastfm: %s succeeded", method)
	return body, nil
}

// decodeAPIError returns a typed API error if body carries one, nil otherwise.
func decodeAPIError(body []byte) *APIError {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	if parsed.Code == nil {
		return nil
	}
	return &APIError{Code: *parsed.Code, Message: parsed.Message}
}

// decodeResponse unmarshals a success body into v, wrapping decode failures
// in a MalformedResponseError so callers can distinguish protocol mismatches
// from API-level rejections.
func decodeResponse(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &MalformedResponseError{Err: err}
	}
	return nil
}
