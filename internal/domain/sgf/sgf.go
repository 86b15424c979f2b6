package sgf

// GameTree is one SGF tree: the main line plus variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node holds the properties of one SGF node, e.g. B[pd] or C[...].
// A property may carry several values (AB[aa][bb]).
type Node struct {
	Properties map[string][]string
}

func NewNode(key string, values ...string) Node {
	return Node{Properties: map[string][]string{key: values}}
}

// Set replaces the values of key.
func (n *Node) Set(key string, values ...string) {
	if n.Properties == nil {
		n.Properties = make(map[string][]string)
	}
	n.Properties[key] = values
}

type SGF struct {
	Root *GameTree
}
