package huffapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/encode":
			body, _ := io.ReadAll(r.Body)
			if r.Header.Get("X-File-Name") != "a.txt" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("X-Run-ID", "run-1")
			w.Write(append([]byte("enc:"), body...))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/decode":
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":"huffman: invalid format: bad header"}`))
		case r.URL.Path == "/api/v1/runs/run-1":
			w.Write([]byte(`{"id":"run-1","mode":"encode","bytes_in":3,"bytes_out":20}`))
		case r.URL.Path == "/api/v1/runs":
			if r.URL.Query().Get("limit") != "1" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(`[{"id":"run-1"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"run not found"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL + "/")

	out, id, err := c.Encode(ctx, "a.txt", []byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, []byte("enc:abc")) || id != "run-1" {
		t.Errorf("Encode = %q, %q", out, id)
	}

	_, _, err = c.Decode(ctx, "", []byte("junk"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("Decode err = %v", err)
	}
	if apiErr.Message != "huffman: invalid format: bad header" {
		t.Errorf("message = %q", apiErr.Message)
	}

	run, err := c.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if run.Mode != "encode" || run.BytesOut != 20 {
		t.Errorf("run = %+v", run)
	}

	runs, err := c.ListRuns(ctx, 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns = %v, %v", runs, err)
	}

	if _, err := c.GetRun(ctx, "nope"); !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("missing run err = %v", err)
	}
}
