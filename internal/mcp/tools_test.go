package mcp

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"kindred/internal/gedcom"
	"kindred/internal/snapshot"
	"kindred/internal/store"
)

func seededStore() *store.Store {
	return store.FromData(&gedcom.Data{
		Individuals: []gedcom.Individual{
			{ID: "I1", Name: "John /Doe/"},
			{ID: "I2", Name: "Jane /Doe/"},
		},
		Families: []gedcom.Family{
			{ID: "F1", HusbandID: "I1", WifeID: "I2", Children: []string{}},
		},
	})
}

func TestGetIndividual(t *testing.T) {
	server := NewServer(seededStore(), nil, "test")

	t.Run("found", func(t *testing.T) {
		_, output, err := server.handleGetIndividual(context.Background(), nil, GetIndividualInput{ID: "I1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Name != "John /Doe/" {
			t.Fatalf("unexpected output: %+v", output)
		}
		if !reflect.DeepEqual(output.SpouseIn, []string{"F1"}) {
			t.Fatalf("unexpected spouse_in: %#v", output.SpouseIn)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, _, err := server.handleGetIndividual(context.Background(), nil, GetIndividualInput{}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, _, err := server.handleGetIndividual(context.Background(), nil, GetIndividualInput{ID: "I404"}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestGetFamily(t *testing.T) {
	server := NewServer(seededStore(), nil, "test")

	_, output, err := server.handleGetFamily(context.Background(), nil, GetFamilyInput{ID: "F1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.HusbandID != "I1" || output.WifeID != "I2" {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestListTools(t *testing.T) {
	server := NewServer(seededStore(), nil, "test")

	_, individuals, err := server.handleListIndividuals(context.Background(), nil, ListIndividualsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(individuals.Individuals) != 2 || individuals.Individuals[0].ID != "I1" {
		t.Fatalf("unexpected output: %+v", individuals)
	}

	_, families, err := server.handleListFamilies(context.Background(), nil, ListFamiliesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(families.Families) != 1 {
		t.Fatalf("unexpected output: %+v", families)
	}
}

func TestCreateIndividual(t *testing.T) {
	t.Run("persists on success", func(t *testing.T) {
		manager := snapshot.NewManager(filepath.Join(t.TempDir(), "state.json"))
		server := NewServer(store.New(), manager, "test")

		_, output, err := server.handleCreateIndividual(context.Background(), nil, CreateIndividualInput{
			ID:    "I9",
			Name:  "Created /Person/",
			Birth: &EventInput{Date: "1 JAN 1990"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.ID != "I9" || output.Birth == nil || output.Birth.Date != "1 JAN 1990" {
			t.Fatalf("unexpected output: %+v", output)
		}

		data, err := manager.Load()
		if err != nil {
			t.Fatalf("loading snapshot: %v", err)
		}
		if len(data.Individuals) != 1 {
			t.Fatalf("unexpected snapshot: %#v", data)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		server := NewServer(seededStore(), nil, "test")
		if _, _, err := server.handleCreateIndividual(context.Background(), nil, CreateIndividualInput{ID: "I1", Name: "Dup"}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestCreateFamily(t *testing.T) {
	server := NewServer(seededStore(), nil, "test")

	_, output, err := server.handleCreateFamily(context.Background(), nil, CreateFamilyInput{
		ID:       "F2",
		WifeID:   "I2",
		Children: []string{"I1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.ID != "F2" || !reflect.DeepEqual(output.Children, []string{"I1"}) {
		t.Fatalf("unexpected output: %+v", output)
	}

	if _, _, err := server.handleCreateFamily(context.Background(), nil, CreateFamilyInput{ID: "F3", HusbandID: "I404"}); err == nil {
		t.Fatalf("expected error for unknown reference")
	}
}
