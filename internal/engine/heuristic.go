package engine

import "goban/internal/domain/board"

// Heuristic weights.
const (
	starPointBonus      = 10
	tengenBonus         = 15
	threeThreePenalty   = 5
	captureBonus        = 30
	connectBonus        = 15
	contactBonus        = 10
	connectContactBonus = 20
	eyeShapeBonus       = 25
	cutBonus            = 20
	protectBonus        = 15

	eyeShapeNeighbours = 3
	cutNeighbours      = 2
	weakLiberties      = 2
)

// SelectMove scores every playable point for color in row-major order and
// returns the highest; ties go to the earliest point. It looks one
// placement ahead and no further.
func SelectMove(g *Game, color board.Color) (board.Point, bool) {
	var (
		best      board.Point
		bestScore int
		found     bool
	)
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			p := board.Point{X: x, Y: y}
			if g.board.Get(p) != board.Empty {
				continue
			}
			captured, legality := g.simulate(p, color)
			if legality != Ok {
				continue
			}
			score := scoreCandidate(&g.board, p, color, len(captured) > 0)
			if !found || score > bestScore {
				best, bestScore, found = p, score, true
			}
		}
	}
	return best, found
}

// ScoreMove returns the heuristic value of color playing p, and false if
// the move is not legal.
func ScoreMove(g *Game, p board.Point, color board.Color) (int, bool) {
	captured, legality := g.simulate(p, color)
	if legality != Ok {
		return 0, false
	}
	return scoreCandidate(&g.board, p, color, len(captured) > 0), true
}

func scoreCandidate(b *board.Board, p board.Point, color board.Color, captures bool) int {
	n := countNeighbours(b, p, color)
	return positionalScore(p) + tacticalScore(n, captures) + strategicScore(b, p, color, n)
}

type neighbours struct {
	own, opponent, empty int
}

func countNeighbours(b *board.Board, p board.Point, color board.Color) neighbours {
	var n neighbours
	own, opp := color.Stone(), color.Opposite().Stone()
	for _, adj := range p.Adjacent() {
		if !board.InBounds(adj) {
			continue
		}
		switch b.Get(adj) {
		case own:
			n.own++
		case opp:
			n.opponent++
		default:
			n.empty++
		}
	}
	return n
}

func positionalScore(p board.Point) int {
	score := 0
	if isLine(p.X, 3) && isLine(p.Y, 3) {
		score += starPointBonus
	}
	if p.X == board.Size/2 && p.Y == board.Size/2 {
		score += tengenBonus
	}
	if isLine(p.X, 2) && isLine(p.Y, 2) {
		score -= threeThreePenalty
	}
	return score
}

// isLine reports whether v is the given distance from either edge.
func isLine(v, fromEdge int) bool {
	return v == fromEdge || v == board.Size-1-fromEdge
}

func tacticalScore(n neighbours, captures bool) int {
	score := n.own*connectBonus + n.opponent*contactBonus
	if captures {
		score += captureBonus
	}
	if n.own > 0 && n.opponent > 0 {
		score += connectContactBonus
	}
	return score
}

func strategicScore(b *board.Board, p board.Point, color board.Color, n neighbours) int {
	score := 0
	if n.own >= eyeShapeNeighbours {
		score += eyeShapeBonus
	}
	if n.opponent >= cutNeighbours && n.empty > 0 {
		score += cutBonus
	}
	if protectsWeakGroup(b, p, color) {
		score += protectBonus
	}
	return score
}

func protectsWeakGroup(b *board.Board, p board.Point, color board.Color) bool {
	own := color.Stone()
	for _, adj := range p.Adjacent() {
		if !board.InBounds(adj) || b.Get(adj) != own {
			continue
		}
		if CountLiberties(b, FindGroup(b, adj)) <= weakLiberties {
			return true
		}
	}
	return false
}
