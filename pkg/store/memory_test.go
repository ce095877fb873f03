package store

import (
	"context"
	"testing"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := Key{OwnerID: "owner-1", SlotID: "banner/300x600"}

	got, err := s.Get(ctx, key)
	if err != nil || got != nil {
		t.Fatalf("empty store Get = (%v, %v), want (nil, nil)", got, err)
	}

	p := &design.Payload{Status: design.StatusSuccess, GenerationID: 3}
	if err := s.Set(ctx, key, p); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err = s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.GenerationID != 3 {
		t.Errorf("got %+v", got)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, key); got != nil {
		t.Error("deleted slot should be absent")
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := Key{OwnerID: "o", SlotID: "s"}

	p := &design.Payload{GenerationID: 1}
	if err := s.Set(ctx, key, p); err != nil {
		t.Fatal(err)
	}
	p.GenerationID = 99 // caller mutation after Set

	got, _ := s.Get(ctx, key)
	if got.GenerationID != 1 {
		t.Error("stored payload aliased the caller's value")
	}

	got.GenerationID = 50 // reader mutation
	again, _ := s.Get(ctx, key)
	if again.GenerationID != 1 {
		t.Error("reader mutation leaked into the store")
	}
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := Key{OwnerID: "o", SlotID: "a"}
	b := Key{OwnerID: "o", SlotID: "b"}
	if err := s.Set(ctx, a, &design.Payload{GenerationID: 1}); err != nil {
		t.Fatal(err)
	}

	if got, _ := s.Get(ctx, b); got != nil {
		t.Error("slots must not share state")
	}
}

func TestKeyValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		wantErr bool
	}{
		{name: "valid", key: Key{OwnerID: "o", SlotID: "slot-1"}},
		{name: "missing owner", key: Key{SlotID: "s"}, wantErr: true},
		{name: "missing slot", key: Key{OwnerID: "o"}, wantErr: true},
		{name: "slot with whitespace", key: Key{OwnerID: "o", SlotID: "a b"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}
