package engine

import "goban/internal/domain/board"

// Group is a maximal set of same-colored stones connected orthogonally,
// in discovery order starting from the seed.
type Group []board.Point

func index(p board.Point) int {
	return p.Y*board.Size + p.X
}

// FindGroup collects the group containing p with an iterative traversal
// sharing one visited set. It returns nil for an empty or off-board point.
func FindGroup(b *board.Board, p board.Point) Group {
	if !board.InBounds(p) {
		return nil
	}
	stone := b.Get(p)
	if stone == board.Empty {
		return nil
	}

	var visited [board.Size * board.Size]bool
	visited[index(p)] = true
	group := Group{p}
	stack := []board.Point{p}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range cur.Adjacent() {
			if !board.InBounds(n) || visited[index(n)] || b.Get(n) != stone {
				continue
			}
			visited[index(n)] = true
			group = append(group, n)
			stack = append(stack, n)
		}
	}
	return group
}

// Liberties returns the distinct empty points adjacent to the group.
func Liberties(b *board.Board, g Group) []board.Point {
	var seen [board.Size * board.Size]bool
	var libs []board.Point
	for _, stone := range g {
		for _, n := range stone.Adjacent() {
			if !board.InBounds(n) || seen[index(n)] || b.Get(n) != board.Empty {
				continue
			}
			seen[index(n)] = true
			libs = append(libs, n)
		}
	}
	return libs
}

func CountLiberties(b *board.Board, g Group) int {
	return len(Liberties(b, g))
}

// HasLiberty stops at the first empty neighbour it finds.
func HasLiberty(b *board.Board, g Group) bool {
	for _, stone := range g {
		for _, n := range stone.Adjacent() {
			if board.InBounds(n) && b.Get(n) == board.Empty {
				return true
			}
		}
	}
	return false
}
