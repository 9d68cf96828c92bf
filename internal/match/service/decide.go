package service

import (
	"pricematch-service/internal/match/model"
)

// Decide — терминальное состояние попытки. Повторный прогон item'а —
// новая попытка, существующий MatchResult не мутируется.
//
// Порядок правил:
//  1. любой блокирующий флаг → pending-review, независимо от confidence
//     (текст может быть похож на 0.95, но attribute-mismatch важнее);
//  2. confidence ниже low → pending-review;
//  3. неблокирующие флаги → advisory, даже при высоком confidence;
//  4. confidence ≥ high → auto-approved, иначе advisory.
//
// Рост confidence при фиксированных флагах никогда не понижает состояние.
func Decide(confidence float64, flags []model.Flag, cfg model.Config) model.Decision {
	for _, f := range flags {
		if cfg.IsBlocking(f) {
			return model.DecisionPendingReview
		}
	}
	if confidence < cfg.LowThreshold {
		return model.DecisionPendingReview
	}
	if len(flags) > 0 {
		return model.DecisionAdvisory
	}
	if confidence >= cfg.HighThreshold {
		return model.DecisionAutoApproved
	}
	return model.DecisionAdvisory
}
