package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
}

func TestDownloadProductsSavesDateStampedSpreadsheet(t *testing.T) {
	payload := []byte("PK\x03\x04fake-xlsx")
	r := chi.NewRouter()
	r.Get("/admin/export/products", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write(payload)
	})
	dir := t.TempDir()
	s := NewExportService(newTestClient(t, r), dir)
	s.now = fixedClock

	path, err := s.DownloadProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inventory_products_2026-08-31.xlsx"), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, saved)
}

func TestDownloadActivityLogsSavesDateStampedDocument(t *testing.T) {
	payload := []byte("%PDF-1.7 fake")
	r := chi.NewRouter()
	r.Get("/admin/export/logs", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	})
	dir := t.TempDir()
	s := NewExportService(newTestClient(t, r), dir)
	s.now = fixedClock

	path, err := s.DownloadActivityLogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "activity_logs_2026-08-31.pdf"), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, saved)
}

func TestExportFailureWritesNothing(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/admin/export/products", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "Admin access required"})
	})
	dir := t.TempDir()
	s := NewExportService(newTestClient(t, r), dir)
	s.now = fixedClock

	_, err := s.DownloadProducts(context.Background())
	var reqErr *httpx.RequestError
	require.ErrorAs(t, err, &reqErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed export must not leave a partial file")
}
