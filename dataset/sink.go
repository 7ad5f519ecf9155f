package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jacokyle01/rating-features/models"
)

// Columns of a dataset row, in file order.
var Columns = []string{
	"white_rating",
	"black_rating",
	"result",
	"opening",
	"time_control",
	"moves",
	"moves_san",
	"num_moves",
}

// FeatureColumns are appended to Columns by the enricher.
var FeatureColumns = []string{
	"time_class",
	"white_score",
	"black_score",
	"white_best_moves",
	"black_best_moves",
	"white_blunders",
	"black_blunders",
	"unscored_moves",
	"white_acpl",
	"black_acpl",
}

// Sink writes rows as CSV under a fixed header.
type Sink struct {
	w      *csv.Writer
	closer io.Closer
	rows   int
}

// NewSink writes header to w and returns a sink for the rows.
func NewSink(w io.Writer, header []string) (*Sink, error) {
	s := &Sink{w: csv.NewWriter(w)}
	if err := s.w.Write(header); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSink truncates or creates the file at path.
func CreateSink(path string, header []string) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s, err := NewSink(file, header)
	if err != nil {
		file.Close()
		return nil, err
	}
	s.closer = file
	return s, nil
}

func (s *Sink) Write(record []string) error {
	if err := s.w.Write(record); err != nil {
		return err
	}
	s.rows++
	return nil
}

// Rows is the number of rows written, not counting the header.
func (s *Sink) Rows() int {
	return s.rows
}

// Close flushes buffered rows and closes the file, if the sink owns one.
func (s *Sink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// GameRecord renders g in Columns order.
func GameRecord(g models.Game) []string {
	return []string{
		optInt(g.WhiteRating),
		optInt(g.BlackRating),
		g.Result,
		g.Opening,
		g.TimeControl,
		g.Moves,
		g.MovesSAN,
		strconv.Itoa(g.NumMoves),
	}
}

// FeatureRecord renders f in FeatureColumns order; missing features are
// empty cells.
func FeatureRecord(f models.Features) []string {
	rec := make([]string, len(FeatureColumns))
	rec[0] = f.TimeClass
	rec[1] = optFloat(f.WhiteScore)
	rec[2] = optFloat(f.BlackScore)
	if q := f.MoveQuality; q != nil {
		rec[3] = strconv.Itoa(q.WhiteBestMoves)
		rec[4] = strconv.Itoa(q.BlackBestMoves)
		rec[5] = strconv.Itoa(q.WhiteBlunders)
		rec[6] = strconv.Itoa(q.BlackBlunders)
		rec[7] = strconv.Itoa(q.Skipped)
	}
	if a := f.ACPL; a != nil {
		rec[8] = strconv.FormatFloat(a.White, 'f', -1, 64)
		rec[9] = strconv.FormatFloat(a.Black, 'f', -1, 64)
	}
	return rec
}

// ReadGames reads a dataset written with Columns. Columns are matched by
// header name, so extra columns are ignored and missing ones stay empty.
func ReadGames(r io.Reader) ([]models.Game, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var games []models.Game
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return games, nil
		}
		if err != nil {
			return games, err
		}
		field := func(name string) string {
			if i, ok := index[name]; ok && i < len(rec) {
				return rec[i]
			}
			return ""
		}

		g := models.Game{
			WhiteRating: rating(field("white_rating")),
			BlackRating: rating(field("black_rating")),
			Result:      field("result"),
			Opening:     field("opening"),
			TimeControl: field("time_control"),
			Moves:       field("moves"),
			MovesSAN:    field("moves_san"),
		}
		g.NumMoves = models.CountMoves(g.Moves)
		if n := field("num_moves"); n != "" {
			if v, err := strconv.Atoi(n); err != nil || v != g.NumMoves {
				return games, fmt.Errorf("line %d: num_moves %q does not match moves", line, n)
			}
		}
		games = append(games, g)
	}
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
