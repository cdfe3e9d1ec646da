package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// ExportService downloads the backend's binary exports and saves them
// locally, tagged with the current date.
type ExportService struct {
	client *httpx.Client
	dir    string
	now    func() time.Time
}

// NewExportService builds an ExportService writing into dir.
func NewExportService(client *httpx.Client, dir string) *ExportService {
	return &ExportService{client: client, dir: dir, now: time.Now}
}

// DownloadProducts saves the product spreadsheet export and returns the
// written path.
func (s *ExportService) DownloadProducts(ctx context.Context) (string, error) {
	name := fmt.Sprintf("inventory_products_%s.xlsx", s.now().Format("2006-01-02"))
	return s.download(ctx, "/admin/export/products", name)
}

// DownloadActivityLogs saves the activity log document export and returns
// the written path.
func (s *ExportService) DownloadActivityLogs(ctx context.Context) (string, error) {
	name := fmt.Sprintf("activity_logs_%s.pdf", s.now().Format("2006-01-02"))
	return s.download(ctx, "/admin/export/logs", name)
}

func (s *ExportService) download(ctx context.Context, path, name string) (string, error) {
	data, err := s.client.Download(ctx, path)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("api: save export: %w", err)
	}
	return target, nil
}
