package domain

import (
	"fmt"

	"goban/internal/domain/board"
)

// DefaultRank is used when a request carries no or an unknown rank tag.
const DefaultRank = "1k"

// RankPlayouts maps the strength tag to the engine's playout budget.
var RankPlayouts = map[string]int{
	"10k": 100,
	"9k":  200,
	"8k":  300,
	"7k":  400,
	"6k":  500,
	"5k":  700,
	"4k":  900,
	"3k":  1200,
	"2k":  1500,
	"1k":  2000,
	"1d":  3000,
	"2d":  4000,
	"3d":  5000,
	"4d":  6000,
	"5d":  8000,
	"6d":  10000,
	"7d":  12000,
	"8d":  15000,
	"9d":  20000,
}

// NormalizeRank returns rank if it is known and DefaultRank otherwise.
func NormalizeRank(rank string) string {
	if _, ok := RankPlayouts[rank]; ok {
		return rank
	}
	return DefaultRank
}

// MoveRequest asks the external engine for a move in the given position.
type MoveRequest struct {
	Board    [][]string  `json:"board"`
	Rank     string      `json:"rank"`
	Color    board.Color `json:"color"`
	Playouts int         `json:"playouts,omitempty"`
}

// SuggestedMove is a coordinate proposed by the external engine.
type SuggestedMove struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (m SuggestedMove) Point() board.Point {
	return board.Point{X: m.X, Y: m.Y}
}

// MoveResponse: a missing move or Success=false both mean pass.
type MoveResponse struct {
	Success bool           `json:"success"`
	Move    *SuggestedMove `json:"move,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Passes reports whether the response should be played as a pass.
func (r MoveResponse) Passes() bool {
	return !r.Success || r.Move == nil
}

type AnalysisRequest struct {
	Board [][]string `json:"board"`
}

// Analysis is the engine's estimate from black's point of view. Territory
// values are in [-1,1]; positive means black owns the point.
type Analysis struct {
	WinRate   float64     `json:"win_rate" bson:"win_rate"`
	ScoreLead float64     `json:"score_lead" bson:"score_lead"`
	Territory [][]float64 `json:"territory" bson:"territory"`
}

type AnalysisResponse struct {
	Success  bool      `json:"success"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Validate checks the shape and range of the territory matrix.
func (a Analysis) Validate() error {
	if len(a.Territory) != board.Size {
		return fmt.Errorf("territory has %d rows, want %d", len(a.Territory), board.Size)
	}
	for y, row := range a.Territory {
		if len(row) != board.Size {
			return fmt.Errorf("territory row %d has %d cells, want %d", y, len(row), board.Size)
		}
		for x, v := range row {
			if v < -1 || v > 1 {
				return fmt.Errorf("territory (%d,%d) = %v is outside [-1,1]", x, y, v)
			}
		}
	}
	return nil
}

// TerritorySummary counts points whose ownership passes the threshold.
type TerritorySummary struct {
	Black     int     `json:"black"`
	White     int     `json:"white"`
	Dame      int     `json:"dame"`
	Threshold float64 `json:"threshold"`
}

// DefaultTerritoryThreshold is the confidence needed to count a point.
const DefaultTerritoryThreshold = 0.3

// SummarizeTerritory classifies every point of an ownership matrix.
func SummarizeTerritory(territory [][]float64, threshold float64) TerritorySummary {
	if threshold <= 0 {
		threshold = DefaultTerritoryThreshold
	}
	summary := TerritorySummary{Threshold: threshold}
	for _, row := range territory {
		for _, v := range row {
			switch {
			case v > threshold:
				summary.Black++
			case v < -threshold:
				summary.White++
			default:
				summary.Dame++
			}
		}
	}
	return summary
}
