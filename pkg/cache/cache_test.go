package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	j1, err := HashJSON(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	j2, _ := HashJSON(map[string]int{"b": 2, "a": 1})
	if j1 != j2 {
		t.Error("HashJSON should not depend on map order")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON should fail on unencodable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	art := k.ArtworkKey("https://example.com/a.jpg")
	if !strings.HasPrefix(art, "artwork:") || len(art) != len("artwork:")+64 {
		t.Errorf("ArtworkKey unexpected: %s", art)
	}
	if art == k.ArtworkKey("https://example.com/b.jpg") {
		t.Error("Different URLs should produce different keys")
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{MaxWidth: 1440, MaxResolution: 4096})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{MaxWidth: 720, MaxResolution: 4096})
	if lk1 == lk2 || !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey unexpected: %s, %s", lk1, lk2)
	}

	pk1 := k.PosterKey("hash123", PosterKeyOpts{MaxWidth: 1440, MaxResolution: 4096, Format: "jpeg", Quality: 100})
	pk2 := k.PosterKey("hash123", PosterKeyOpts{MaxWidth: 1440, MaxResolution: 4096, Format: "png", Quality: 100})
	if pk1 == pk2 || !strings.HasPrefix(pk1, "poster:") {
		t.Errorf("PosterKey unexpected: %s, %s", pk1, pk2)
	}
	if pk1 != k.PosterKey("hash123", PosterKeyOpts{MaxWidth: 1440, MaxResolution: 4096, Format: "jpeg", Quality: 100}) {
		t.Error("PosterKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	if got, want := scoped.ArtworkKey("u"), "staging:"+inner.ArtworkKey("u"); got != want {
		t.Errorf("ArtworkKey = %s, want %s", got, want)
	}
	opts := LayoutKeyOpts{MaxWidth: 1, MaxResolution: 2}
	if got, want := scoped.LayoutKey("h", opts), "staging:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	popts := PosterKeyOpts{Format: "png"}
	if got := scoped.PosterKey("h", popts); !strings.HasPrefix(got, "staging:poster:") {
		t.Errorf("PosterKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got, want := scoped.ArtworkKey("x"), "prefix:"+NewDefaultKeyer().ArtworkKey("x"); got != want {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("poster bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || !bytes.Equal(data, []byte("poster bytes")) {
		t.Errorf("Get(key) = %q, %v, %v", data, hit, err)
	}

	// Overwrite keeps only the newest value
	if err := c.Set(ctx, "key", []byte("v2"), 0); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := c.Get(ctx, "key"); string(data) != "v2" {
		t.Errorf("after overwrite got %q", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("short")); !errors.Is(err, os.ErrNotExist) {
		t.Error("expired entry file not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry = %v, %v; want a miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	keep := filepath.Join(dir, "not-ours")
	if err := os.Mkdir(keep, 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("Clear removed a foreign directory")
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s", c.Dir())
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
		check   func(Cache) bool
	}{
		{"default is file", Options{Dir: t.TempDir()}, false, func(c Cache) bool { _, ok := c.(*FileCache); return ok }},
		{"file", Options{Backend: BackendFile, Dir: t.TempDir()}, false, func(c Cache) bool { _, ok := c.(*FileCache); return ok }},
		{"none", Options{Backend: BackendNone}, false, func(c Cache) bool { _, ok := c.(*NullCache); return ok }},
		{"redis without url", Options{Backend: BackendRedis}, true, nil},
		{"mongo without uri", Options{Backend: BackendMongo}, true, nil},
		{"bad redis url", Options{Backend: BackendRedis, RedisURL: "http://nope"}, true, nil},
		{"unknown", Options{Backend: "memcached"}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("Open() = %T", c)
			}
		})
	}

	_, err := Open(ctx, Options{Backend: "memcached"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend error = %v", err)
	}
}

// exerciseCache runs the shared contract against a live backend.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + Hash([]byte(t.Name()+time.Now().String()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("fresh key = %v, %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry survived Delete")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("ALBUMPOSTER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ALBUMPOSTER_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("ALBUMPOSTER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ALBUMPOSTER_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "albumposter_test", "")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseCache(t, c)
}
