package store

import (
	"context"
	"testing"

	"github.com/avashist/upkeep/internal/db"
	"github.com/avashist/upkeep/internal/model"
)

func TestCreateAndGetItemByItemID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, "ITM-001", "electronics", "projector", "Block A")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Condition != model.ConditionWorking {
		t.Errorf("expected condition 'working', got %q", item.Condition)
	}

	got, err := GetItemByItemID(ctx, database, "ITM-001")
	if err != nil {
		t.Fatalf("GetItemByItemID: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Category != "electronics" || got.Type != "projector" {
		t.Errorf("unexpected item summary: %q/%q", got.Category, got.Type)
	}
}

func TestSetItemPlacement(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, "ITM-010", "furniture", "chair", "Block A")

	err := SetItemPlacement(ctx, database, "ITM-010", "Block B", model.ConditionDamaged)
	if err != nil {
		t.Fatalf("SetItemPlacement: %v", err)
	}

	item, _ := GetItemByItemID(ctx, database, "ITM-010")
	if item.Location != "Block B" {
		t.Errorf("expected location 'Block B', got %q", item.Location)
	}
	if item.Condition != model.ConditionDamaged {
		t.Errorf("expected condition 'damaged', got %q", item.Condition)
	}
	if item.TemporaryLocation != "" {
		t.Errorf("expected empty temporary location, got %q", item.TemporaryLocation)
	}
}

func TestSetItemTemporaryLocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, "ITM-020", "electronics", "laptop", "Block A")

	err := SetItemTemporaryLocation(ctx, database, "ITM-020", "Lab 3")
	if err != nil {
		t.Fatalf("SetItemTemporaryLocation: %v", err)
	}

	item, _ := GetItemByItemID(ctx, database, "ITM-020")
	if item.TemporaryLocation != "Lab 3" {
		t.Errorf("expected temporary location 'Lab 3', got %q", item.TemporaryLocation)
	}
	// Home location and condition must be untouched.
	if item.Location != "Block A" {
		t.Errorf("expected home location 'Block A', got %q", item.Location)
	}
	if item.Condition != model.ConditionWorking {
		t.Errorf("expected condition 'working', got %q", item.Condition)
	}
}

func TestListItemsByCondition(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, "ITM-030", "electronics", "monitor", "Block A")
	CreateItem(ctx, database, "ITM-031", "electronics", "monitor", "Block A")
	SetItemPlacement(ctx, database, "ITM-031", "Block A", model.ConditionDamaged)

	all, _ := ListItems(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}

	damaged, _ := ListItems(ctx, database, model.ConditionDamaged)
	if len(damaged) != 1 {
		t.Errorf("expected 1 damaged item, got %d", len(damaged))
	}
}

func TestSoftDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, "ITM-040", "furniture", "desk", "Block A")
	DeleteItem(ctx, database, "ITM-040")

	item, _ := GetItemByItemID(ctx, database, "ITM-040")
	if item != nil {
		t.Error("expected soft-deleted item to be invisible by item id")
	}
}

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, "ITM-050", "electronics", "camera", "Block A")
	photoData := []byte("fake photo data")
	SetItemPhoto(ctx, database, "ITM-050", photoData, "image/jpeg")

	data, mime, err := GetItemPhoto(ctx, database, "ITM-050")
	if err != nil {
		t.Fatalf("GetItemPhoto: %v", err)
	}
	if string(data) != "fake photo data" {
		t.Errorf("expected photo data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}
