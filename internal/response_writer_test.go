package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_WriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)

	if rw.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want %d", rw.Status(), http.StatusNotFound)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("underlying status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if !rw.Written() {
		t.Error("Written() = false, want true")
	}
}

func TestResponseWriter_Write(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	if rw.Written() {
		t.Fatal("Written() = true before any write")
	}

	n, err := rw.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 5 || rw.Size() != 5 {
		t.Errorf("Write() n = %d, Size() = %d, want 5", n, rw.Size())
	}
	if w.Code != http.StatusOK {
		t.Errorf("implicit status = %d, want 200", w.Code)
	}
	if rw.Unwrap() != w {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}

func TestSendResponse(t *testing.T) {
	w := httptest.NewRecorder()

	if err := SendResponse(w, http.StatusCreated, "", map[string]int{"id": 5}); err != nil {
		t.Fatalf("SendResponse() error = %v", err)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != DefaultOutputContentType {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Body.String(); got != `{"id":5}` {
		t.Errorf("body = %q", got)
	}
}

func TestSendResponse_MarshalError(t *testing.T) {
	w := httptest.NewRecorder()

	if err := SendResponse(w, http.StatusOK, "application/json", make(chan int)); err == nil {
		t.Fatal("SendResponse() error = nil, want marshal error")
	}
	if w.Header().Get("Content-Type") != "" {
		t.Error("headers were written for an unencodable payload")
	}
}

func TestSendResponse_NoContent(t *testing.T) {
	w := httptest.NewRecorder()

	if err := SendResponse(w, http.StatusNoContent, "", map[string]int{"id": 5}); err != nil {
		t.Fatalf("SendResponse() error = %v", err)
	}
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
}
