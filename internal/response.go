package internal

import (
	"encoding/json"
	"net/http"
)

// DefaultOutputContentType is used when neither the route nor the config sets one.
const DefaultOutputContentType = "application/json; charset=utf-8"

// SendResponse writes the status code, content type and JSON body of a response.
// It is the only place where pipeline responses are written.
func SendResponse(w http.ResponseWriter, status int, contentType string, payload any) error {
	if !bodyAllowed(status) {
		w.WriteHeader(status)
		return nil
	}
	if contentType == "" {
		contentType = DefaultOutputContentType
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// bodyAllowed reports whether status permits a response body.
func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
