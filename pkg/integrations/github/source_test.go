package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/harvest"
)

type contentItem struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Encoding string `json:"encoding,omitempty"`
	Content  string `json:"content,omitempty"`
}

func newTestSource(t *testing.T, token string, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	src, err := NewSource(context.Background(),
		RepoRef{Owner: "owner", Repo: "repo", Branch: "dev"},
		token,
		WithBaseURL(srv.URL),
		WithRetry(3, time.Millisecond),
	)
	require.NoError(t, err)
	return src
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSource_ListDirectory(t *testing.T) {
	var gotRef, gotPath string
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		gotPath = r.URL.Path
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Limit", "5000")
		writeJSON(t, w, []contentItem{
			{Type: "dir", Name: "app", Path: "src/app", SHA: "d1"},
			{Type: "file", Name: "main.tsx", Path: "src/main.tsx", SHA: "f1"},
		})
	})

	entries, err := src.List(context.Background(), "src")
	require.NoError(t, err)

	assert.Equal(t, "dev", gotRef)
	assert.Equal(t, "/repos/owner/repo/contents/src", gotPath)
	assert.Equal(t, []harvest.Entry{
		{Path: "src/app", Type: harvest.TypeDir, SHA: "d1"},
		{Path: "src/main.tsx", Type: harvest.TypeFile, SHA: "f1"},
	}, entries)
	assert.Equal(t, 4999, src.RateLimiter().Remaining())
	assert.Equal(t, 5000, src.RateLimiter().Limit())
}

func TestSource_ListFile(t *testing.T) {
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, contentItem{Type: "file", Name: "a.ts", Path: "a.ts", SHA: "s", Encoding: "base64"})
	})

	entries, err := src.List(context.Background(), "a.ts")
	require.NoError(t, err)
	assert.Equal(t, []harvest.Entry{{Path: "a.ts", Type: harvest.TypeFile, SHA: "s"}}, entries)
}

func TestSource_Fetch(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("export const x = 1\n"))
	var auth string
	src := newTestSource(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(t, w, contentItem{
			Type: "file", Name: "x.ts", Path: "x.ts", SHA: "s",
			Encoding: "base64", Content: encoded[:8] + "\n" + encoded[8:],
		})
	})

	blob, err := src.Fetch(context.Background(), "x.ts")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "base64", blob.Encoding)

	text, err := harvest.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, "export const x = 1\n", text)
}

func TestSource_FetchDirectory(t *testing.T) {
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []contentItem{})
	})

	_, err := src.Fetch(context.Background(), "src")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork))
}

func TestSource_NoAuthorizationWithoutToken(t *testing.T) {
	var auth string
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(t, w, []contentItem{})
	})

	_, err := src.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, []contentItem{{Type: "file", Path: "a.ts", SHA: "s"}})
	})

	entries, err := src.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSource_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]string{"message": "Not Found"})
	})

	_, err := src.List(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork))
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSource_Cancelled(t *testing.T) {
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []contentItem{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.List(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_WithCrawler(t *testing.T) {
	files := map[string]string{
		"src/page.tsx":        "import { motion } from 'framer-motion'\n",
		"src/lib/utils.ts":    "export const cn = () => ''\n",
		"src/ui/button.tsx":   "button",
		"src/assets/logo.png": "png",
	}
	listings := map[string][]contentItem{
		"src": {
			{Type: "file", Path: "src/page.tsx", SHA: "1"},
			{Type: "dir", Path: "src/lib"},
			{Type: "dir", Path: "src/ui"},
			{Type: "dir", Path: "src/assets"},
		},
		"src/lib":    {{Type: "file", Path: "src/lib/utils.ts", SHA: "2"}},
		"src/assets": {{Type: "file", Path: "src/assets/logo.png", SHA: "3"}},
	}

	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path[len("/repos/owner/repo/contents/"):]
		if items, ok := listings[path]; ok {
			writeJSON(t, w, items)
			return
		}
		if content, ok := files[path]; ok {
			writeJSON(t, w, contentItem{
				Type: "file", Path: path, Encoding: "base64",
				Content: base64.StdEncoding.EncodeToString([]byte(content)),
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	c, err := harvest.NewCrawler(src, harvest.Options{Skip: []string{"src/ui*"}})
	require.NoError(t, err)

	got, err := c.Crawl(context.Background(), "src")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "src/page.tsx", got[0].Path)
	assert.Equal(t, files["src/page.tsx"], got[0].Content)
	assert.Equal(t, "src/lib/utils.ts", got[1].Path)
}
