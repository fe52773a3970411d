package resolve

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

type fakeDownloader struct {
	calls   atomic.Int64
	release chan struct{}
	data    []byte
	err     error
}

func (f *fakeDownloader) DownloadFile(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.data, f.err
}

func jarWithModsToml(t *testing.T, version string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("META-INF/mods.toml")
	if err != nil {
		t.Fatalf("Failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("[[mods]]\nversion=\"" + version + "\"\n")); err != nil {
		t.Fatalf("Failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

func TestResolveFromJar(t *testing.T) {
	dl := &fakeDownloader{data: jarWithModsToml(t, "5.1.0")}
	cache := NewCache(dl, zap.NewNop().Sugar())

	v, found, err := cache.Resolve(context.Background(), "https://edge.example.com/a.jar")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if !found || v != "5.1.0" {
		t.Errorf("Resolve() = (%q, %v), want (5.1.0, true)", v, found)
	}
}

func TestResolveConcurrentCallersShareOneDownload(t *testing.T) {
	dl := &fakeDownloader{
		release: make(chan struct{}),
		data:    jarWithModsToml(t, "1.2.3"),
	}
	cache := NewCache(dl, zap.NewNop().Sugar())

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := cache.Resolve(context.Background(), "https://edge.example.com/shared.jar")
			if err != nil {
				t.Errorf("Resolve() unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}

	close(dl.release)
	wg.Wait()

	if got := dl.calls.Load(); got != 1 {
		t.Fatalf("Expected exactly 1 download, got %d", got)
	}
	for i, v := range results {
		if v != "1.2.3" {
			t.Errorf("caller %d got %q, want 1.2.3", i, v)
		}
	}

	// later callers are served from the stored outcome
	if _, _, err := cache.Resolve(context.Background(), "https://edge.example.com/shared.jar"); err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if got := dl.calls.Load(); got != 1 {
		t.Errorf("Expected no further download, got %d calls", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestResolveMemoizesFailures(t *testing.T) {
	wantErr := errors.New("cdn unavailable")
	dl := &fakeDownloader{err: wantErr}
	cache := NewCache(dl, zap.NewNop().Sugar())

	for i := 0; i < 3; i++ {
		_, _, err := cache.Resolve(context.Background(), "https://edge.example.com/broken.jar")
		if !errors.Is(err, wantErr) {
			t.Fatalf("Resolve() error = %v, want %v", err, wantErr)
		}
	}
	if got := dl.calls.Load(); got != 1 {
		t.Errorf("Expected the failure to be replayed without retrying, got %d downloads", got)
	}
}

func TestResolveMemoizesAbsent(t *testing.T) {
	dl := &fakeDownloader{data: []byte("ignored")}
	cache := NewCache(dl, zap.NewNop().Sugar())
	cache.inspect = func([]byte) (string, bool, error) { return "", false, nil }

	for i := 0; i < 2; i++ {
		_, found, err := cache.Resolve(context.Background(), "https://edge.example.com/empty.jar")
		if err != nil || found {
			t.Fatalf("Resolve() = (found=%v, err=%v), want absent", found, err)
		}
	}
	if got := dl.calls.Load(); got != 1 {
		t.Errorf("Expected 1 download, got %d", got)
	}
}

func TestResolveDistinctURLs(t *testing.T) {
	dl := &fakeDownloader{data: jarWithModsToml(t, "0.1")}
	cache := NewCache(dl, zap.NewNop().Sugar())

	for _, url := range []string{"https://a/1.jar", "https://a/2.jar", "https://a/1.jar"} {
		if _, _, err := cache.Resolve(context.Background(), url); err != nil {
			t.Fatalf("Resolve(%s) unexpected error: %v", url, err)
		}
	}
	if got := dl.calls.Load(); got != 2 {
		t.Errorf("Expected 2 downloads, got %d", got)
	}
}

func TestResolveSurvivesCancelledCaller(t *testing.T) {
	dl := &fakeDownloader{data: jarWithModsToml(t, "2.0")}
	cache := NewCache(dl, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, found, err := cache.Resolve(ctx, "https://a/cancelled.jar")
	if err != nil || !found || v != "2.0" {
		t.Errorf("Resolve() = (%q, %v, %v), want (2.0, true, nil)", v, found, err)
	}
}
