package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"admin/internal/configuration"
)

// collectionWrappers are the object keys a backend list may be nested under, besides its own name.
var collectionWrappers = []string{"data", "items", "results"}

// DecodeCollection accepts a bare JSON array or an object wrapping one.
// Anything else is an empty collection.
func DecodeCollection(body []byte, name string) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err == nil {
		return items
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil
	}

	for _, key := range append([]string{name}, collectionWrappers...) {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			return items
		}
		// {"data": {"users": [...]}}
		if key == "data" {
			if nested := DecodeCollection(raw, name); nested != nil {
				return nested
			}
		}
	}
	return nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]json.RawMessage, error) {
	return c.list(ctx, token, configuration.BackendUsersPath, "users")
}

func (c *Client) ListCourses(ctx context.Context, token string) ([]json.RawMessage, error) {
	return c.list(ctx, token, configuration.BackendCoursesPath, "courses")
}

func (c *Client) ListCarnets(ctx context.Context, token string) ([]json.RawMessage, error) {
	return c.list(ctx, token, configuration.BackendCarnetsPath, "carnets")
}

func (c *Client) list(ctx context.Context, token, path, name string) ([]json.RawMessage, error) {
	resp, err := c.Send(c.R(ctx, token), http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Path: path, Status: resp.StatusCode()}
	}
	return DecodeCollection(resp.Body(), name), nil
}
