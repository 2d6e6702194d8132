package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/advgen/internal/adapters/sqlite"
	"github.com/example/advgen/internal/ports/secondary"
)

func TestDictionaryRepository_ReplaceAndLoad(t *testing.T) {
	repo := sqlite.NewDictionaryRepository(setupTestDB(t))
	ctx := context.Background()

	tokens := []string{"STACK A B", "PICKUP A", "PUTDOWN A"}
	if err := repo.Replace(ctx, "blocksworld", secondary.DictionaryActions, tokens); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	mapping, err := repo.Load(ctx, "blocksworld", secondary.DictionaryActions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(mapping) != 3 {
		t.Fatalf("got %d entries, want 3", len(mapping))
	}
	// Ids follow sorted token order.
	if mapping["PICKUP A"] != 0 || mapping["PUTDOWN A"] != 1 || mapping["STACK A B"] != 2 {
		t.Errorf("unexpected id assignment: %v", mapping)
	}
}

func TestDictionaryRepository_ReplaceIsAtomicSwap(t *testing.T) {
	repo := sqlite.NewDictionaryRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Replace(ctx, "logistics", secondary.DictionaryGoals, []string{"AT P1 L1", "AT P2 L2"}); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}
	if err := repo.Replace(ctx, "logistics", secondary.DictionaryGoals, []string{"IN P1 T1"}); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}

	mapping, err := repo.Load(ctx, "logistics", secondary.DictionaryGoals)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(mapping) != 1 {
		t.Fatalf("got %d entries after replace, want 1", len(mapping))
	}
	if mapping["IN P1 T1"] != 0 {
		t.Errorf("unexpected mapping: %v", mapping)
	}
}

func TestDictionaryRepository_KindsAndDomainsAreIsolated(t *testing.T) {
	repo := sqlite.NewDictionaryRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Replace(ctx, "blocksworld", secondary.DictionaryActions, []string{"PICKUP A"}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := repo.Replace(ctx, "blocksworld", secondary.DictionaryGoals, []string{"ON A B"}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	goals, err := repo.Load(ctx, "blocksworld", secondary.DictionaryGoals)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := goals["PICKUP A"]; ok {
		t.Error("action token leaked into goal dictionary")
	}

	other, err := repo.Load(ctx, "logistics", secondary.DictionaryActions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unbuilt domain returned %d entries, want 0", len(other))
	}
}
