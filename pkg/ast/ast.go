package ast

import (
	"bytes"
	"condexpr/pkg/token"
	"fmt"
)

type Node interface {
	TokenLiteral() string
	String() string
	Pos() int
}

type Expression interface {
	Node
	expressionNode()
}

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() int             { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// Conditional is `if <Condition> then <Consequence> else <Alternative> end if`.
type Conditional struct {
	Token       token.Token // the leading 'if' token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (c *Conditional) expressionNode()      {}
func (c *Conditional) TokenLiteral() string { return c.Token.Literal }
func (c *Conditional) Pos() int             { return c.Token.Pos }
func (c *Conditional) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(c.Condition.String())
	out.WriteString(" then ")
	out.WriteString(c.Consequence.String())
	out.WriteString(" else ")
	out.WriteString(c.Alternative.String())
	out.WriteString(" end if")
	return out.String()
}

// Grouped keeps the parentheses of the source visible in the tree.
type Grouped struct {
	Token token.Token // the '(' token
	Inner Expression
}

func (g *Grouped) expressionNode()      {}
func (g *Grouped) TokenLiteral() string { return g.Token.Literal }
func (g *Grouped) Pos() int             { return g.Token.Pos }
func (g *Grouped) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(g.Inner.String())
	out.WriteString(")")
	return out.String()
}

// Dump renders the structural form of a tree, e.g.
// Conditional{condition=Identifier("x"), then=Grouped(Identifier("y")), else=Identifier("z")}.
func Dump(node Node) string {
	var out bytes.Buffer
	dump(&out, node)
	return out.String()
}

func dump(out *bytes.Buffer, node Node) {
	switch n := node.(type) {
	case *Identifier:
		fmt.Fprintf(out, "Identifier(%q)", n.Value)
	case *Grouped:
		out.WriteString("Grouped(")
		dump(out, n.Inner)
		out.WriteString(")")
	case *Conditional:
		out.WriteString("Conditional{condition=")
		dump(out, n.Condition)
		out.WriteString(", then=")
		dump(out, n.Consequence)
		out.WriteString(", else=")
		dump(out, n.Alternative)
		out.WriteString("}")
	case nil:
		out.WriteString("<nil>")
	default:
		fmt.Fprintf(out, "%T", node)
	}
}
