package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON document from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// idRequest is the body of the collection-level DELETE endpoints.
type idRequest struct {
	ID string `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}
