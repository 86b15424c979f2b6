package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"goban/internal/domain/board"
	"goban/internal/domain/sgf"
	"goban/internal/engine"
	gobanErrors "goban/internal/errors"
)

var orderedKeys = []string{"FF", "GM", "SZ", "PB", "PW", "DT", "RE", "RU", "C", "B", "W"}

// ExportSGF renders a live or archived game as SGF.
func (g *GameUseCase) ExportSGF(ctx context.Context, id string) (string, error) {
	s, err := g.session(ctx, id)
	if err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return SerializeSGF(g.sgfOf(s)), nil
	}
	if !errors.Is(err, gobanErrors.ErrGameNotFound) {
		return "", err
	}

	archived, err := g.store.GetArchivedGame(ctx, id)
	if err != nil {
		return "", err
	}
	return archived.SGF, nil
}

// sgfOf builds the record of a session. Must hold s.mu.
func (g *GameUseCase) sgfOf(s *session) *sgf.SGF {
	root := sgf.Node{
		Properties: map[string][]string{
			"FF": {"4"},
			"GM": {"1"},
			"SZ": {strconv.Itoa(board.Size)},
			"PB": {playerName(s.aiColor, board.Black)},
			"PW": {playerName(s.aiColor, board.White)},
			"DT": {s.createdAt.Format("2006-01-02")},
			"RE": {resultOf(s.game)},
			"C":  {fmt.Sprintf("goban %s, rank %s", s.id, s.rank)},
		},
	}
	tree := &sgf.GameTree{Nodes: []sgf.Node{root}}
	AddMovesToSgf(tree, s.game.History())
	return &sgf.SGF{Root: tree}
}

func playerName(aiColor, color board.Color) string {
	if aiColor == color {
		return "AI"
	}
	return "Human"
}

func resultOf(g *engine.Game) string {
	if winner, ok := g.Winner(); ok {
		return winner.Letter() + "+R"
	}
	if g.Over() {
		return "?"
	}
	return ""
}

// AddMovesToSgf appends one node per record; a pass is an empty value.
func AddMovesToSgf(tree *sgf.GameTree, records []engine.MoveRecord) {
	for _, r := range records {
		value := ""
		if !r.Pass {
			value = r.Point.SGF()
		}
		tree.Nodes = append(tree.Nodes, sgf.NewNode(r.Color.Letter(), value))
	}
}

func SerializeSGF(s *sgf.SGF) string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

func serializeGameTree(builder *strings.Builder, tree *sgf.GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		used := make(map[string]bool, len(node.Properties))
		for _, key := range orderedKeys {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				writeProperty(builder, key, values)
			}
		}

		rest := make([]string, 0, len(node.Properties))
		for key := range node.Properties {
			if !used[key] {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		for _, key := range rest {
			writeProperty(builder, key, node.Properties[key])
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

func writeProperty(builder *strings.Builder, key string, values []string) {
	builder.WriteString(key)
	for _, v := range values {
		builder.WriteString("[")
		builder.WriteString(escapeValue(v))
		builder.WriteString("]")
	}
}

func escapeValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, "]", `\]`)
}
