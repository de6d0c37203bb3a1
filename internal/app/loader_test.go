package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"review_analytics/internal/app"
	"review_analytics/internal/domain"
	"review_analytics/internal/storage/csvsource"
)

// ---- fakes ----

type fakeReader struct {
	files map[string][]byte
	reads int
}

func (f *fakeReader) Read(ctx context.Context, location string) ([]byte, error) {
	f.reads++
	b, ok := f.files[location]
	if !ok {
		return nil, fmt.Errorf("no such source %s", location)
	}
	return b, nil
}

type fakeCache struct {
	store map[string][]domain.Review
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok := dst.(*[]domain.Review); ok {
		*d = append([]domain.Review(nil), v...)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]domain.Review{}
	}
	if rows, ok := v.([]domain.Review); ok {
		c.store[key] = append([]domain.Review(nil), rows...)
	}
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- helpers ----

func testSource(t *testing.T, brand, schema, loc string) csvsource.Source {
	t.Helper()
	sc, err := csvsource.SchemaByName(schema)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return csvsource.Source{Brand: brand, Schema: sc, Location: loc}
}

const wanderdollCSV = "customer name,review_text,rating_clean,date of experience\n" +
	"Ana,lovely,5,2024-01-10\n" +
	"Ben,too small,2,2024-01-11\n"

const oddMuseCSV = "customer name,review,rating,date\n" +
	"Cleo,refund please,1,2024-01-12\n"

// ---- tests ----

func TestLoad_Idempotent(t *testing.T) {
	reader := &fakeReader{files: map[string][]byte{
		"w.csv": []byte(wanderdollCSV),
		"o.csv": []byte(oddMuseCSV),
	}}
	loader := app.NewLoadService(reader, &fakeCache{}, 10*time.Minute, []csvsource.Source{
		testSource(t, "Wanderdoll", "trustpilot", "w.csv"),
		testSource(t, "Odd Muse", "legacy", "o.csv"),
	})

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(first) != 3 || len(second) != len(first) {
		t.Fatalf("lens: %d %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d differs between loads", i)
		}
	}
}

func TestLoadSource_ServedFromCacheByFingerprint(t *testing.T) {
	data := []byte(wanderdollCSV)
	reader := &fakeReader{files: map[string][]byte{"w.csv": data}}
	cache := &fakeCache{}
	src := testSource(t, "Wanderdoll", "trustpilot", "w.csv")

	// pre-seed the cache under the content-addressed key with a marker row
	key := fmt.Sprintf("dataset:%s:%s", "Wanderdoll", csvsource.Fingerprint(data))
	marker := []domain.Review{{Brand: "Wanderdoll", CustomerName: "FROM CACHE", Rating: 3, Date: day("2024-01-01")}}
	_ = cache.Set(context.Background(), key, marker, 600)

	loader := app.NewLoadService(reader, cache, 10*time.Minute, []csvsource.Source{src})
	rows, err := loader.LoadSource(context.Background(), src)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rows) != 1 || rows[0].CustomerName != "FROM CACHE" {
		t.Fatalf("expected cached batch, got %+v", rows)
	}
}

func TestLoadSource_ChangedContentMissesCache(t *testing.T) {
	reader := &fakeReader{files: map[string][]byte{"w.csv": []byte(wanderdollCSV)}}
	cache := &fakeCache{}
	src := testSource(t, "Wanderdoll", "trustpilot", "w.csv")
	loader := app.NewLoadService(reader, cache, 10*time.Minute, []csvsource.Source{src})

	if _, err := loader.LoadSource(context.Background(), src); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(cache.store) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(cache.store))
	}

	// new content fingerprints to a new key; old entry is simply unused
	reader.files["w.csv"] = []byte(wanderdollCSV + "Eve,great,5,2024-01-13\n")
	rows, err := loader.LoadSource(context.Background(), src)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected reparse of changed content, got %d rows", len(rows))
	}
	if len(cache.store) != 2 {
		t.Fatalf("expected second cache entry, got %d", len(cache.store))
	}
}

func TestLoad_DeduplicatesAcrossSources(t *testing.T) {
	// same brand configured twice with identical content
	reader := &fakeReader{files: map[string][]byte{"w.csv": []byte(wanderdollCSV)}}
	loader := app.NewLoadService(reader, &fakeCache{}, 10*time.Minute, []csvsource.Source{
		testSource(t, "Wanderdoll", "trustpilot", "w.csv"),
		testSource(t, "Wanderdoll", "trustpilot", "w.csv"),
	})
	ds, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("duplicates must collapse, got %d rows", len(ds))
	}
}

func TestLoad_SourceFailureIsFatal(t *testing.T) {
	reader := &fakeReader{files: map[string][]byte{}}
	loader := app.NewLoadService(reader, &fakeCache{}, 10*time.Minute, []csvsource.Source{
		testSource(t, "Wanderdoll", "trustpilot", "missing.csv"),
	})
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("missing source must fail the whole load")
	}
}

func TestLoad_WorksWithoutCache(t *testing.T) {
	reader := &fakeReader{files: map[string][]byte{"o.csv": []byte(oddMuseCSV)}}
	loader := app.NewLoadService(reader, nil, 0, []csvsource.Source{
		testSource(t, "Odd Muse", "legacy", "o.csv"),
	})
	ds, err := loader.Load(context.Background())
	if err != nil || len(ds) != 1 {
		t.Fatalf("nil cache load: %v %d", err, len(ds))
	}
}
