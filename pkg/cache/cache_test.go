package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "a", []byte("alpha"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "alpha" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of a missing key: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v; want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("entry survived Clear")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache: %v", err)
	}
	defer c.Close()

	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)
	c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3"), 0)

	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("least recently used entry should be evicted")
	}
	if data, hit, _ := c.Get(ctx, "a"); !hit || string(data) != "1" {
		t.Errorf("Get(a) = %q, %v", data, hit)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, _ := NewMemoryCache(0)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Error("expired entry should be removed on read")
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	ctx := context.Background()
	c, _ := NewMemoryCache(4)
	buf := []byte("abc")
	c.Set(ctx, "k", buf, 0)
	buf[0] = 'z'
	data, _, _ := c.Get(ctx, "k")
	if string(data) != "abc" {
		t.Errorf("stored entry aliased caller memory: %q", data)
	}
}

func TestRedisCacheKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	if got := newRedisCache(client, "").key("layout:x"); got != "geco:layout:x" {
		t.Errorf("default prefix key = %q", got)
	}
	if got := newRedisCache(client, "t:").key("k"); got != "t:k" {
		t.Errorf("custom prefix key = %q", got)
	}
	if _, err := NewRedisCache(context.Background(), RedisOptions{}); err == nil {
		t.Error("missing address should fail")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		cfg     Config
		want    string
		wantErr bool
	}{
		{Config{Backend: BackendNone}, "cache.NullCache", false},
		{Config{Dir: t.TempDir()}, "*cache.FileCache", false},
		{Config{Backend: BackendFile}, "", true},
		{Config{Backend: BackendMemory, Size: 8}, "*cache.MemoryCache", false},
		{Config{Backend: "memcached"}, "", true},
	}
	for _, tt := range tests {
		c, err := Open(ctx, tt.cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("Open(%+v) err = %v", tt.cfg, err)
			continue
		}
		if err != nil {
			continue
		}
		if got := typeName(c); got != tt.want {
			t.Errorf("Open(%+v) = %s, want %s", tt.cfg, got, tt.want)
		}
		c.Close()
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case NullCache:
		return "cache.NullCache"
	case *FileCache:
		return "*cache.FileCache"
	case *MemoryCache:
		return "*cache.MemoryCache"
	case *RedisCache:
		return "*cache.RedisCache"
	}
	return "unknown"
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("tree", "COG0001"); got != "http:tree:COG0001" {
		t.Errorf("HTTPKey = %s", got)
	}
	if k.DatasetKey("remote", "q", DatasetKeyOpts{Cutoff: 10}) == k.DatasetKey("remote", "q", DatasetKeyOpts{Cutoff: 20}) {
		t.Error("different cutoffs should produce different keys")
	}
	type params struct{ Notation string }
	l1 := k.LayoutKey("h", LayoutKeyOpts{Params: params{"KEGG"}})
	l2 := k.LayoutKey("h", LayoutKeyOpts{Params: params{"eggNOG"}})
	if l1 == l2 || !strings.HasPrefix(l1, "layout:") {
		t.Errorf("LayoutKey = %s / %s", l1, l2)
	}
	if k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}) == k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"}) {
		t.Error("different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "mongo:")
	if got := scoped.HTTPKey("tree", "q"); got != "mongo:http:tree:q" {
		t.Errorf("HTTPKey = %s", got)
	}
	if got := scoped.DatasetKey("mongo", "q", DatasetKeyOpts{}); !strings.HasPrefix(got, "mongo:dataset:") {
		t.Errorf("DatasetKey = %s", got)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	base := errors.New("boom")
	err := Retryable(base)
	if !IsRetryable(err) || !errors.Is(err, base) || err.Error() != "boom" {
		t.Errorf("Retryable(%v) = %v", base, err)
	}
	if IsRetryable(base) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("permanent")

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Retryable(permanent)
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Retry(ctx, 2, time.Millisecond, func() error {
		calls++
		return Retryable(permanent)
	})
	if !IsRetryable(err) || calls != 2 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("x")) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
