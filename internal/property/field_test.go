package property

import (
	"encoding/json"
	"testing"
)

func TestFieldDistinguishesAbsentNullValue(t *testing.T) {
	var p struct {
		A Field[string] `json:"a"`
		B Field[string] `json:"b"`
		C Field[string] `json:"c"`
		Z Field[string] `json:"zip"`
		N Field[int]    `json:"n"`
	}
	if err := json.Unmarshal([]byte(`{"b":null,"c":"x","zip":32801,"n":4}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.A.Set || p.A.Valid {
		t.Fatalf("a=%+v want absent", p.A)
	}
	if !p.B.Set || p.B.Valid {
		t.Fatalf("b=%+v want null", p.B)
	}
	if !p.C.Valid || p.C.Value != "x" {
		t.Fatalf("c=%+v want x", p.C)
	}
	if p.Z.Value != "32801" {
		t.Fatalf("zip=%q want 32801", p.Z.Value)
	}
	if p.N.Value != 4 {
		t.Fatalf("n=%d want 4", p.N.Value)
	}
	if p.A.Ptr() != nil || p.B.Ptr() != nil || *p.C.Ptr() != "x" {
		t.Fatalf("unexpected Ptr results")
	}
}

func TestFieldRejectsObjectForString(t *testing.T) {
	var f Field[string]
	if err := json.Unmarshal([]byte(`{"x":1}`), &f); err == nil {
		t.Fatalf("expected error")
	}
}
