package ast

// Encode converts a tree into plain maps so it can be handed to any
// encoder (encoding/json, yaml.v3) without custom marshalers.
func Encode(node Node) map[string]any {
	switch n := node.(type) {
	case *Identifier:
		return map[string]any{
			"type": "identifier",
			"pos":  n.Pos(),
			"name": n.Value,
		}
	case *Grouped:
		return map[string]any{
			"type":  "grouped",
			"pos":   n.Pos(),
			"inner": Encode(n.Inner),
		}
	case *Conditional:
		return map[string]any{
			"type":      "conditional",
			"pos":       n.Pos(),
			"condition": Encode(n.Condition),
			"then":      Encode(n.Consequence),
			"else":      Encode(n.Alternative),
		}
	}
	return nil
}
