package client

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"

	internalhttp "github.com/dynamics-go/dataverse/internal/http"
	"github.com/dynamics-go/dataverse/pkg/dataverse"
)

// processGetResponse interprets a GET response body. A single-row lookup
// is returned as a list of one row, so callers handle both shapes the same
// way.
func (c *Client) processGetResponse(
	resp *internalhttp.Response,
	query string,
	notFoundOK bool,
) (*dataverse.GetResponse, error) {
	c.requestCounter.Add(1)

	var data map[string]any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		message := fmt.Sprintf("%s. Response: %s", err, resp.Body)

		return nil, c.handledError(resp.StatusCode, message, "invalid_json", nethttp.MethodGet, query)
	}

	if message, code, ok := errorEnvelope(data); ok {
		return nil, c.handledError(resp.StatusCode, message, code, nethttp.MethodGet, query)
	}

	entities := []dataverse.Row{data}
	if value, ok := data["value"]; ok {
		entities = toRows(value)
	}

	if len(entities) == 0 {
		if notFoundOK {
			count := 0

			return &dataverse.GetResponse{Data: []dataverse.Row{}, Count: &count}, nil
		}

		return nil, c.handledError(
			nethttp.StatusNotFound,
			"No records matching the given criteria.",
			"not_found",
			nethttp.MethodGet,
			query,
		)
	}

	response := &dataverse.GetResponse{Data: entities}

	if nextLink, ok := data["@odata.nextLink"].(string); ok {
		response.NextLink = &nextLink
	}

	if rawCount, ok := data["@odata.count"].(float64); ok {
		count := int(rawCount)
		response.Count = &count
	}

	return response, nil
}

// processPostResponse interprets a POST response body. 204 No Content
// yields an empty row.
func (c *Client) processPostResponse(resp *internalhttp.Response, query string) (*dataverse.PostResponse, error) {
	c.requestCounter.Add(1)

	if resp.StatusCode == nethttp.StatusNoContent {
		return &dataverse.PostResponse{Data: dataverse.Row{}}, nil
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		message := fmt.Sprintf("%s. Response: %s", err, resp.Body)

		return nil, c.handledError(resp.StatusCode, message, "invalid_json", nethttp.MethodPost, query)
	}

	if message, code, ok := errorEnvelope(data); ok {
		return nil, c.handledError(resp.StatusCode, message, code, nethttp.MethodPost, query)
	}

	return &dataverse.PostResponse{Data: data}, nil
}

// processPatchResponse interprets a PATCH response body. 204 No Content
// yields an empty row.
func (c *Client) processPatchResponse(resp *internalhttp.Response, query string) (*dataverse.PatchResponse, error) {
	c.requestCounter.Add(1)

	if resp.StatusCode == nethttp.StatusNoContent {
		return &dataverse.PatchResponse{Data: dataverse.Row{}}, nil
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		message := fmt.Sprintf("%s. Response: %s", err, resp.Body)

		return nil, c.handledError(resp.StatusCode, message, "invalid_json", nethttp.MethodPatch, query)
	}

	if message, code, ok := errorEnvelope(data); ok {
		return nil, c.handledError(resp.StatusCode, message, code, nethttp.MethodPatch, query)
	}

	return &dataverse.PatchResponse{Data: data}, nil
}

// processDeleteResponse interprets a DELETE response. Bodies that are not
// JSON are treated as success, the service regularly responds to deletes
// with an empty body and a 200.
func (c *Client) processDeleteResponse(resp *internalhttp.Response, query string) error {
	c.requestCounter.Add(1)

	if resp.StatusCode == nethttp.StatusNoContent {
		return nil
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil
	}

	if message, code, ok := errorEnvelope(data); ok {
		return c.handledError(resp.StatusCode, message, code, nethttp.MethodDelete, query)
	}

	return nil
}

// errorEnvelope extracts the message and code from a Web API error
// response body, `{"error": {"code": ..., "message": ...}}`.
func errorEnvelope(data map[string]any) (message, code string, ok bool) {
	rawError, ok := data["error"]
	if !ok {
		return "", "", false
	}

	if envelope, isMap := rawError.(map[string]any); isMap {
		message, _ = envelope["message"].(string)
		code, _ = envelope["code"].(string)
	}

	return message, code, true
}

// handledError logs the failure and maps it onto the error taxonomy:
// https://docs.microsoft.com/en-us/powerapps/developer/data-platform/webapi/compose-http-requests-handle-errors#identify-status-codes
func (c *Client) handledError(statusCode int, message, code, method, query string) error {
	c.warn("dataverse request failed", map[string]interface{}{
		"method":  method,
		"query":   query,
		"status":  statusCode,
		"message": message,
		"code":    code,
	})

	return dataverse.NewAPIError(statusCode, message, code)
}

// toRows converts a decoded "value" array into rows. Non-object members
// are dropped.
func toRows(value any) []dataverse.Row {
	items, ok := value.([]any)
	if !ok {
		return []dataverse.Row{}
	}

	rows := make([]dataverse.Row, 0, len(items))

	for _, item := range items {
		if row, isRow := item.(map[string]any); isRow {
			rows = append(rows, row)
		}
	}

	return rows
}
