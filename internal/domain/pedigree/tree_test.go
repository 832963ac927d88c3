package pedigree

import (
	"errors"
	"strings"
	"testing"
)

func TestSerializeTree_RoundTripIsStable(t *testing.T) {
	tree := &TreeNode{
		Cat: TreeCat{ID: "root", Name: "Luna", Gender: "female"},
		Mother: &TreeNode{
			Cat: TreeCat{ID: "mom", Name: "Mahsa", Gender: "female"},
			Father: &TreeNode{
				Cat: TreeCat{ID: "grandpa", Name: "Boris", Gender: "male"},
			},
		},
		Father: &TreeNode{
			Cat: TreeCat{ID: "dad", Name: "Simon", Gender: "male"},
		},
	}

	data1, err := SerializeTree(tree)
	if err != nil {
		t.Fatalf("SerializeTree error: %v", err)
	}
	data2, err := SerializeTree(tree)
	if err != nil {
		t.Fatalf("SerializeTree #2 error: %v", err)
	}
	if data1 != data2 {
		t.Fatalf("expected stable serialization, got %q vs %q", data1, data2)
	}

	back, err := DeserializeTree(data1)
	if err != nil {
		t.Fatalf("DeserializeTree error: %v", err)
	}
	if back.Cat.ID != "root" {
		t.Fatalf("expected root id preserved, got %s", back.Cat.ID)
	}
	if back.Mother == nil || back.Mother.Father == nil || back.Mother.Father.Cat.ID != "grandpa" {
		t.Fatalf("expected nested branch preserved, got %+v", back.Mother)
	}

	// serializar lo deserializado devuelve el mismo string
	data3, err := SerializeTree(back)
	if err != nil {
		t.Fatalf("SerializeTree #3 error: %v", err)
	}
	if data3 != data1 {
		t.Fatalf("expected reserialization to match, got %q vs %q", data3, data1)
	}
}

func TestSerializeTree_UsesSnakeCaseKeys(t *testing.T) {
	data, err := SerializeTree(&TreeNode{
		Cat: TreeCat{ID: "c1", Name: "Luna", Gender: "female", BirthDate: "2024-03-01"},
	})
	if err != nil {
		t.Fatalf("SerializeTree error: %v", err)
	}

	// mismos nombres de campo que el resto de la API
	for _, key := range []string{`"id"`, `"name"`, `"gender"`, `"birth_date"`} {
		if !strings.Contains(data, key) {
			t.Fatalf("expected key %s in %s", key, data)
		}
	}
	for _, key := range []string{`"ID"`, `"BirthDate"`} {
		if strings.Contains(data, key) {
			t.Fatalf("unexpected PascalCase key %s in %s", key, data)
		}
	}
}

func TestSerializeTree_NilAndEmpty(t *testing.T) {
	if _, err := SerializeTree(nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil tree, got %v", err)
	}
	if _, err := DeserializeTree("  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank data, got %v", err)
	}
}

func TestSerializeTree_OmitsMissingBranches(t *testing.T) {
	data, err := SerializeTree(&TreeNode{Cat: TreeCat{ID: "solo", Name: "Solo"}})
	if err != nil {
		t.Fatalf("SerializeTree error: %v", err)
	}

	back, err := DeserializeTree(data)
	if err != nil {
		t.Fatalf("DeserializeTree error: %v", err)
	}
	if back.Mother != nil || back.Father != nil {
		t.Fatalf("expected empty branches to stay nil, got %+v", back)
	}
}
