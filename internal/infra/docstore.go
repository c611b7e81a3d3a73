package infra

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// thumbnailWidth keeps document previews small enough for the review list
// while leaving text legible.
const thumbnailWidth = 320

// DocStore downloads KYC document images from the backend's document URLs
// and caches resized previews on disk for the review view.
type DocStore struct {
	basePath string
	client   *http.Client
	token    func() string
}

// NewDocStore creates a DocStore rooted at dataDir (OS config dir when
// empty). token supplies the current bearer token; document URLs are
// behind the same session as the rest of the admin API.
func NewDocStore(dataDir string, token func() string) (*DocStore, error) {
	path, err := getDocsPath(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve docs path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create docs directory: %w", err)
	}

	// Optimize HTTP Transport to prevent connection leaks
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &DocStore{
		basePath: path,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		token: token,
	}, nil
}

// FetchPreview downloads the document image for a KYC record if not cached
// and returns the local preview path. Previews are width-limited with the
// aspect ratio preserved.
func (d *DocStore) FetchPreview(ctx context.Context, kycID, label, url string) (string, error) {
	if sanitizeName(kycID) == "" || sanitizeName(label) == "" {
		return "", fmt.Errorf("invalid document identity: %s/%s", kycID, label)
	}
	filePath := d.PreviewPath(kycID, label)

	// Cache hit
	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if t := d.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	srcImg, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode document image: %w", err)
	}

	// Height 0 preserves aspect ratio
	preview := imaging.Resize(srcImg, thumbnailWidth, 0, imaging.Lanczos)

	if err := imaging.Save(preview, filePath); err != nil {
		return "", fmt.Errorf("failed to save preview: %w", err)
	}

	return filePath, nil
}

// PreviewPath returns the local path a preview would be cached at.
func (d *DocStore) PreviewPath(kycID, label string) string {
	return filepath.Join(d.basePath, sanitizeName(kycID)+"_"+strings.ToLower(sanitizeName(label))+".png")
}

func getDocsPath(dataDir string) (string, error) {
	if dataDir != "" {
		return filepath.Join(dataDir, "kyc_previews"), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "AdminConsole", "kyc_previews"), nil
}

// sanitizeName strips everything but alphanumerics, dash and underscore to
// prevent path traversal through backend-supplied identifiers.
func sanitizeName(name string) string {
	res := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			res = append(res, r)
		}
	}
	return string(res)
}
