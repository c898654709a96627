// Package testutil holds fixtures shared by package tests: zip builders,
// file trees and HTTP servers.
package testutil

import (
	"archive/zip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteZip creates a zip archive at path holding files (slash-separated names
// mapped to contents). A name ending in "/" creates an empty directory entry.
func WriteZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if name[len(name)-1] == '/' {
			header.SetMode(os.ModeDir | 0o755)
		} else {
			header.SetMode(0o644)
		}
		w, err := zw.CreateHeader(header)
		require.NoError(t, err)
		if files[name] != "" {
			_, err = w.Write([]byte(files[name]))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return path
}

// ZipBytes returns the bytes of a zip archive holding files.
func ZipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	path := WriteZip(t, filepath.Join(t.TempDir(), "fixture.zip"), files)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// WriteTree writes files (slash-separated names mapped to contents) below root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// NewFileServer serves the files below dir until the test ends.
func NewFileServer(t *testing.T, dir string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(srv.Close)
	return srv
}

// NewRoutes serves fixed bodies per request path; unknown paths get 404.
func NewRoutes(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
