package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"goban/internal/domain/board"
	"goban/internal/engine"
	gobanErrors "goban/internal/errors"
)

const (
	recordMargin   = 20.0
	recordCell     = 8.5
	recordStone    = 3.8
	movesPerLine   = 6
	recordFontSize = 10
)

// gameRecord is what the printable record needs from a live or archived game.
type gameRecord struct {
	id        string
	rank      string
	createdAt time.Time
	result    string
	rows      []string
	moves     []engine.MoveRecord
	captures  engine.Tally
}

// ExportRecord writes a PDF with the final diagram and the move list.
func (g *GameUseCase) ExportRecord(ctx context.Context, id string, w io.Writer) error {
	rec, err := g.recordOf(ctx, id)
	if err != nil {
		return err
	}
	if err = writeRecordPDF(rec, w); err != nil {
		return fmt.Errorf("%w: render record %s: %v", gobanErrors.ErrInternal, id, err)
	}
	return nil
}

func (g *GameUseCase) recordOf(ctx context.Context, id string) (gameRecord, error) {
	s, err := g.session(ctx, id)
	if err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return gameRecord{
			id:        s.id,
			rank:      s.rank,
			createdAt: s.createdAt,
			result:    resultOf(s.game),
			rows:      s.game.Board().Rows(),
			moves:     s.game.History(),
			captures:  s.game.Captures(),
		}, nil
	}
	if !errors.Is(err, gobanErrors.ErrGameNotFound) {
		return gameRecord{}, err
	}

	archived, err := g.store.GetArchivedGame(ctx, id)
	if err != nil {
		return gameRecord{}, err
	}
	result := "?"
	if archived.Winner != "" {
		result = strings.ToUpper(archived.Winner[:1]) + "+R"
	}
	return gameRecord{
		id:        archived.ID,
		rank:      archived.Rank,
		createdAt: archived.CreatedAt,
		result:    result,
		rows:      archived.FinalBoard,
		moves:     archived.Moves,
		captures:  archived.Captures,
	}, nil
}

func writeRecordPDF(rec gameRecord, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Game "+rec.id, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Game "+rec.id)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", recordFontSize)
	result := rec.result
	if result == "" {
		result = "in progress"
	}
	pdf.Cell(0, 6, fmt.Sprintf("%s  rank %s  result %s  captures B %d / W %d",
		rec.createdAt.Format("2006-01-02"), rec.rank, result, rec.captures.Black, rec.captures.White))
	pdf.Ln(10)

	drawDiagram(pdf, rec.rows, pdf.GetY())

	pdf.AddPage()
	pdf.SetFont("Courier", "", recordFontSize)
	for _, line := range moveLines(rec.moves) {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}

	return pdf.Output(w)
}

func drawDiagram(pdf *gofpdf.Fpdf, rows []string, top float64) {
	left := recordMargin + recordCell
	top += recordCell / 2
	last := float64(board.Size-1) * recordCell

	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)
	for i := 0; i < board.Size; i++ {
		offset := float64(i) * recordCell
		pdf.Line(left, top+offset, left+last, top+offset)
		pdf.Line(left+offset, top, left+offset, top+last)
	}

	pdf.SetFont("Helvetica", "", 7)
	for i := 0; i < board.Size; i++ {
		offset := float64(i) * recordCell
		vertex := board.Point{X: i, Y: i}.Vertex()
		pdf.Text(left+offset-1, top-3, vertex[:1])
		pdf.Text(left-recordCell, top+offset+1, vertex[1:])
	}

	for y, row := range rows {
		for x, r := range row {
			if x >= board.Size || y >= board.Size {
				continue
			}
			switch r {
			case 'B':
				pdf.SetFillColor(0, 0, 0)
			case 'W':
				pdf.SetFillColor(255, 255, 255)
			default:
				continue
			}
			pdf.Circle(left+float64(x)*recordCell, top+float64(y)*recordCell, recordStone, "FD")
		}
	}
}

// moveLines renders the move list as numbered GTP vertices.
func moveLines(moves []engine.MoveRecord) []string {
	var lines []string
	var line strings.Builder
	for i, m := range moves {
		vertex := board.PassVertex
		if !m.Pass {
			vertex = m.Point.Vertex()
		}
		fmt.Fprintf(&line, "%3d.%s %-5s", i+1, m.Color.Letter(), vertex)
		if (i+1)%movesPerLine == 0 {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 {
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return lines
}
