// Package storagetest holds a behavioural test suite shared by every
// [storage.Backend] implementation.
package storagetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/MrWong99/dikte/internal/storage"
)

// Run exercises b. The backend must be empty when passed in.
func Run(t *testing.T, b storage.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := b.Load(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Load(missing) err = %v, want ErrNotFound", err)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		in := []byte(`{"corrections":[{"wrong":"guzel","right":"güzel"}],"version":2}`)
		if err := b.Save(ctx, storage.DocCorrections, in); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := b.Load(ctx, storage.DocCorrections)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		assertJSONEqual(t, got, in)
	})

	t.Run("save replaces", func(t *testing.T) {
		if err := b.Save(ctx, storage.DocProfile, []byte(`{"total_transcriptions":1}`)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := b.Save(ctx, storage.DocProfile, []byte(`{"total_transcriptions":2}`)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := b.Load(ctx, storage.DocProfile)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		assertJSONEqual(t, got, []byte(`{"total_transcriptions":2}`))
	})

	t.Run("documents are independent", func(t *testing.T) {
		if err := b.Save(ctx, storage.DocHistory, []byte(`[]`)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := b.Load(ctx, storage.DocCorrections)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(got) == "[]" {
			t.Error("saving history overwrote corrections")
		}
	})

	t.Run("concurrent saves", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				doc := fmt.Appendf(nil, `{"n":%d}`, i)
				if err := b.Save(ctx, "concurrent", doc); err != nil {
					t.Errorf("Save: %v", err)
				}
			}()
		}
		wg.Wait()

		got, err := b.Load(ctx, "concurrent")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		var v struct{ N *int }
		if err := json.Unmarshal(got, &v); err != nil || v.N == nil {
			t.Errorf("Load after concurrent saves = %q, want one complete document", got)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := b.Ping(ctx); err != nil {
			t.Errorf("Ping: %v", err)
		}
	})
}

func assertJSONEqual(t *testing.T, got, want []byte) {
	t.Helper()
	var g, w any
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("stored document is not JSON: %v (%q)", err, got)
	}
	if err := json.Unmarshal(want, &w); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	if !reflect.DeepEqual(g, w) {
		t.Errorf("document = %s, want %s", got, want)
	}
}
