package driver

import (
	"errors"
	"testing"

	"keel/internal/source"
)

func TestShapeCacheRoundTrip(t *testing.T) {
	cache, err := NewShapeCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewShapeCache: %v", err)
	}

	res, err := CheckTree(source.NewFileSet(), "greeter.kl.json", []byte(greeterTree), CheckOptions{})
	if err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	shape := BuildShape(res.Ctx)

	key := cache.Key([]byte(greeterTree))
	if err := cache.Store(key, &ShapePayload{Path: "greeter.kl.json", Shape: shape}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	payload, err := cache.Load(key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if payload.Schema != shapeCacheSchemaVersion {
		t.Fatalf("schema = %d", payload.Schema)
	}
	if len(payload.Shape.Types) != 1 || payload.Shape.Types[0].Name != "Greeter" {
		t.Fatalf("shape round trip lost data: %+v", payload.Shape)
	}
}

func TestShapeCacheMiss(t *testing.T) {
	cache, err := NewShapeCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewShapeCache: %v", err)
	}
	if _, err := cache.Load(cache.Key([]byte("nothing"))); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestBuildShapeDeterministic(t *testing.T) {
	build := func() *ShapeExport {
		res, err := CheckTree(source.NewFileSet(), "greeter.kl.json", []byte(greeterTree), CheckOptions{})
		if err != nil {
			t.Fatalf("CheckTree: %v", err)
		}
		return BuildShape(res.Ctx)
	}
	a, b := build(), build()
	if len(a.Types) != len(b.Types) {
		t.Fatal("shape export differs between identical runs")
	}
	for i := range a.Types {
		if a.Types[i].Name != b.Types[i].Name || len(a.Types[i].Methods) != len(b.Types[i].Methods) {
			t.Fatalf("type %d differs between runs", i)
		}
	}
}
