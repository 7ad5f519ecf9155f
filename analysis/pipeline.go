package analysis

import (
	"github.com/jacokyle01/rating-features/engine"
	"github.com/jacokyle01/rating-features/models"
)

// Pipeline computes every feature of a game. Nil analyzers are skipped.
type Pipeline struct {
	MoveQuality *MoveQualityAnalyzer
	Evaluator   engine.Evaluator // shared with MoveQuality, owned by the caller
	ACPL        *AcplAnalyzer
}

// Compute never fails as a whole; per-feature errors are collected in
// Features.Errors and the affected fields are left empty.
func (p Pipeline) Compute(id string, g models.Game) models.Features {
	f := models.Features{ID: id}

	if g.TimeControl != "" {
		class, err := ClassifyTimeControl(g.TimeControl)
		if err != nil {
			f.Errors = append(f.Errors, err.Error())
		} else {
			f.TimeClass = string(class)
		}
	}

	if white, black, ok := EncodeResult(g.Result); ok {
		f.WhiteScore, f.BlackScore = &white, &black
	}

	if p.MoveQuality != nil && p.Evaluator != nil {
		q := p.MoveQuality.Analyze(g.Moves, p.Evaluator)
		f.MoveQuality = &q
	}

	if p.ACPL != nil {
		san := g.MovesSAN
		if san == "" && g.Moves != "" {
			var err error
			if san, err = UCIToSAN(g.Moves); err != nil {
				f.Errors = append(f.Errors, err.Error())
				return f
			}
		}
		acpl, err := p.ACPL.Analyze(san)
		if err != nil {
			f.Errors = append(f.Errors, err.Error())
		} else {
			f.ACPL = &acpl
		}
	}

	return f
}
