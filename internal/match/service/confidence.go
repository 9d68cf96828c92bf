package service

import (
	"pricematch-service/internal/match/model"
)

// fuzzyCeiling держит pass-2 уверенность строго ниже базы точного хита:
// структурное совпадение ключа — более сильное свидетельство, чем текст.
const fuzzyCeiling = 0.95

// Scorer — confidence + flags. Все правила чисто вычислительные,
// без I/O; вызов стоит доли миллисекунды.
type Scorer struct {
	cfg model.Config
}

func NewScorer(cfg model.Config) *Scorer { return &Scorer{cfg: cfg} }

// ScoreExact — pass-1 хит по каноническому ключу: фиксированная база.
func (s *Scorer) ScoreExact(item model.Item) (float64, []model.Flag) {
	flags := s.commonFlags(item, s.cfg.ExactConfidence)
	return s.cfg.ExactConfidence, flags
}

// ScoreFuzzy — pass-2: монотонно от similarity, с штрафом за каждое
// расходящееся извлечённое поле (похожий текст, другой предмет).
func (s *Scorer) ScoreFuzzy(item model.Item, itemAttrs model.AttributeSet, cand model.Candidate, candAttrs model.AttributeSet) (float64, []model.Flag) {
	conf := cand.Score * fuzzyCeiling
	conflicts := AttrConflicts(itemAttrs, candAttrs)
	for i := 0; i < conflicts; i++ {
		conf *= s.cfg.AttrPenalty
	}

	flags := s.commonFlags(item, conf)
	if conflicts > 0 {
		flags = append(flags, model.FlagAttributeMismatch)
	}
	return conf, flags
}

func (s *Scorer) commonFlags(item model.Item, conf float64) []model.Flag {
	flags := make([]model.Flag, 0, 2)
	if conf < s.cfg.LowThreshold {
		flags = append(flags, model.FlagLowConfidence)
	}
	if item.ClassCode == "" {
		flags = append(flags, model.FlagNoClassification)
	}
	return flags
}
