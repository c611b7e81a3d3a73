package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDocStore_PreviewPath(t *testing.T) {
	store, err := NewDocStore(t.TempDir(), func() string { return "" })
	if err != nil {
		t.Fatalf("new doc store: %v", err)
	}

	path := store.PreviewPath("kyc-1", "PAN_Card")
	if filepath.Base(path) != "kyc-1_pan_card.png" {
		t.Errorf("preview file = %s, want kyc-1_pan_card.png", filepath.Base(path))
	}

	// Backend-supplied identifiers cannot escape the cache directory.
	hostile := store.PreviewPath("../../etc", "passwd")
	if strings.Contains(hostile, "..") {
		t.Errorf("path traversal survived sanitization: %s", hostile)
	}
}

func TestDocStore_CacheHitSkipsDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("cached preview must not be re-downloaded")
	}))
	defer server.Close()

	store, err := NewDocStore(t.TempDir(), func() string { return "" })
	if err != nil {
		t.Fatalf("new doc store: %v", err)
	}

	cached := store.PreviewPath("kyc-7", "aadhaar_front")
	if err := os.WriteFile(cached, []byte("png bytes"), 0644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	got, err := store.FetchPreview(context.Background(), "kyc-7", "aadhaar_front", server.URL+"/doc")
	if err != nil {
		t.Fatalf("fetch preview: %v", err)
	}
	if got != cached {
		t.Errorf("fetch returned %s, want the cached path %s", got, cached)
	}
}
