package ast

import (
	"condexpr/pkg/token"
	"encoding/json"
	"reflect"
	"testing"
)

func ident(name string, pos int) *Identifier {
	return &Identifier{Token: token.Token{Type: token.IDENT, Literal: name, Pos: pos}, Value: name}
}

// if x then (y) else z end if
func sampleTree() *Conditional {
	return &Conditional{
		Token:     token.Token{Type: token.IF, Literal: "if", Pos: 0},
		Condition: ident("x", 3),
		Consequence: &Grouped{
			Token: token.Token{Type: token.LPAREN, Literal: "(", Pos: 10},
			Inner: ident("y", 11),
		},
		Alternative: ident("z", 19),
	}
}

func TestString(t *testing.T) {
	tree := sampleTree()
	if tree.String() != "if x then (y) else z end if" {
		t.Errorf("tree.String() wrong. got=%q", tree.String())
	}
}

func TestDump(t *testing.T) {
	want := `Conditional{condition=Identifier("x"), then=Grouped(Identifier("y")), else=Identifier("z")}`
	if got := Dump(sampleTree()); got != want {
		t.Errorf("Dump wrong.\nexpected=%s\ngot=     %s", want, got)
	}
}

func TestIdentifiersInSourceOrder(t *testing.T) {
	got := Identifiers(sampleTree())
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Identifiers wrong. expected=%v, got=%v", want, got)
	}
}

func TestCollect(t *testing.T) {
	nested := &Conditional{
		Token:       token.Token{Type: token.IF, Literal: "if"},
		Condition:   &Grouped{Inner: sampleTree()},
		Consequence: ident("d", 0),
		Alternative: ident("e", 0),
	}
	s := Collect(nested)
	want := Stats{Identifiers: 5, Conditionals: 2, Groups: 2, Depth: 5}
	if s != want {
		t.Errorf("Collect wrong. expected=%+v, got=%+v", want, s)
	}
}

func TestWalkCanPrune(t *testing.T) {
	var seen int
	Walk(sampleTree(), func(n Node) bool {
		seen++
		_, isGroup := n.(*Grouped)
		return !isGroup
	})
	// conditional, x, group, z; y is pruned
	if seen != 4 {
		t.Errorf("expected 4 visits, got %d", seen)
	}
}

func TestEqualIgnoresPositions(t *testing.T) {
	a := sampleTree()
	b := sampleTree()
	b.Condition = ident("x", 42)
	if !Equal(a, b) {
		t.Error("trees differing only in positions should be equal")
	}
	b.Alternative = &Grouped{Inner: ident("z", 19)}
	if Equal(a, b) {
		t.Error("grouped and bare identifier must not compare equal")
	}
}

func TestEncodeJSON(t *testing.T) {
	data, err := json.Marshal(Encode(&Grouped{Token: token.Token{Pos: 0}, Inner: ident("a", 1)}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"inner":{"name":"a","pos":1,"type":"identifier"},"pos":0,"type":"grouped"}`
	if string(data) != want {
		t.Errorf("json wrong.\nexpected=%s\ngot=     %s", want, data)
	}
}
