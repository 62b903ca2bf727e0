package platform

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	var updates [][2]int64
	pw := &ProgressWriter{
		Writer: &buf,
		Total:  10,
		OnUpdate: func(written, total int64) {
			updates = append(updates, [2]int64{written, total})
		},
	}

	if _, err := pw.Write([]byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := pw.Write([]byte("world")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.String() != "helloworld" {
		t.Errorf("expected data to pass through, got %q", buf.String())
	}
	if len(updates) != 2 || updates[0] != [2]int64{5, 10} || updates[1] != [2]int64{10, 10} {
		t.Errorf("unexpected updates: %v", updates)
	}
}

func TestContextReader_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := contextReader{ctx: ctx, r: strings.NewReader("data")}

	buf := make([]byte, 2)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancel()
	if _, err := io.ReadAll(r); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHTTPClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("expected user agent %q, got %q", DefaultUserAgent, r.Header.Get("User-Agent"))
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("thumbnail"))
	}))
	defer srv.Close()

	client := NewHTTPClient()
	body, err := client.Get(context.Background(), srv.URL+"/thumb.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "thumbnail" {
		t.Errorf("expected body %q, got %q", "thumbnail", body)
	}

	if _, err := client.Get(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404")
	}
}
