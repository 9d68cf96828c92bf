package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"pricematch-service/internal/mapping"
	"pricematch-service/internal/match/model"
)

// Engine — двухпроходный матчер: точный хит по каноническому ключу,
// на промахе — блокировка по классификации + fuzzy-ранжирование.
// Stateless по item'ам, безопасен для параллельных вызовов; единственное
// разделяемое состояние — словарь маппингов за интерфейсом Store.
type Engine struct {
	cfg       model.Config
	extractor *Extractor
	scorer    *Scorer
	index     *Index
	mappings  mapping.Store
	log       zerolog.Logger
}

// NewEngine строит движок над готовым каталогом. Нормализация и
// извлечение атрибутов позиций каталога выполняются здесь один раз.
func NewEngine(cfg model.Config, prices []model.PriceItem, store mapping.Store, log zerolog.Logger) *Engine {
	ex := NewExtractor(cfg)
	for i := range prices {
		prices[i].DescNorm = normalize(prices[i].Description)
		prices[i].Attrs = ex.Extract(prices[i].DescNorm)
	}
	return &Engine{
		cfg:       cfg,
		extractor: ex,
		scorer:    NewScorer(cfg),
		index:     BuildIndex(prices),
		mappings:  store,
		log:       log,
	}
}

// Canonicalize — normalize + extract + build key, без обращения к стораджу.
func (e *Engine) Canonicalize(text string) (string, model.AttributeSet) {
	norm := normalize(text)
	attrs := e.extractor.Extract(norm)
	return BuildKey(attrs), attrs
}

// MatchItem — одна попытка матчинга. Ошибка возвращается только при
// недоступности словаря; "не нашли" — это всегда валидный MatchResult.
func (e *Engine) MatchItem(ctx context.Context, item model.Item) (model.MatchResult, error) {
	item.TextNorm = normalize(item.Text)
	attrs := e.extractor.Extract(item.TextNorm)
	key := BuildKey(attrs)

	// pass 1: точный хит по ключу
	rec, err := e.mappings.Lookup(ctx, key)
	switch {
	case err == nil:
		if p, ok := e.index.ByID(rec.PriceItemID); ok {
			return e.exactResult(item, key, p), nil
		}
		// маппинг указывает на позицию, выпавшую из каталога — идём во второй проход
		e.log.Warn().Str("key", key).Str("priceItemId", rec.PriceItemID).
			Msg("mapping points to unknown price item")
	case errors.Is(err, mapping.ErrNotFound):
		// обычный промах
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return model.MatchResult{}, err
	default:
		return model.MatchResult{}, fmt.Errorf("mapping lookup: %w", err)
	}

	// pass 2: блокировка + ранжирование
	return e.fuzzyPass(ctx, item, attrs, key)
}

func (e *Engine) exactResult(item model.Item, key string, p model.PriceItem) model.MatchResult {
	conf, flags := e.scorer.ScoreExact(item)
	return model.MatchResult{
		ItemID:       item.ID,
		PriceItemID:  p.ID,
		UnitPrice:    p.UnitPrice,
		Total:        p.UnitPrice.Mul(item.Qty),
		Confidence:   conf,
		Flags:        flags,
		Decision:     Decide(conf, flags, e.cfg),
		Method:       model.MethodExact,
		CanonicalKey: key,
	}
}

func (e *Engine) fuzzyPass(ctx context.Context, item model.Item, attrs model.AttributeSet, key string) (model.MatchResult, error) {
	classCode := item.ClassCode
	if !e.cfg.BlockingEnabled {
		classCode = ""
	}
	blocked, degraded := e.index.Block(classCode)
	if degraded && e.cfg.BlockingEnabled {
		// сигнал качества данных, не ошибка
		e.log.Info().Str("item", item.ID).Int("pool", len(blocked)).
			Msg("no classification code, blocking degraded to full catalog")
	}

	candidates := Rank(item.TextNorm, attrs, blocked, e.cfg.MaxCandidates)
	if len(candidates) == 0 || candidates[0].Score < e.cfg.MinScore {
		return e.unmatched(item, key, candidates), nil
	}

	top := candidates[0]
	p, _ := e.index.ByID(top.PriceItemID)
	conf, flags := e.scorer.ScoreFuzzy(item, attrs, top, p.Attrs)
	decision := Decide(conf, flags, e.cfg)

	res := model.MatchResult{
		ItemID:       item.ID,
		PriceItemID:  p.ID,
		UnitPrice:    p.UnitPrice,
		Total:        p.UnitPrice.Mul(item.Qty),
		Confidence:   conf,
		Flags:        flags,
		Decision:     decision,
		Method:       model.MethodFuzzy,
		CanonicalKey: key,
		Candidates:   candidates,
	}

	// writeback: подтверждённый pass-2 матч укрепляет pass-1 на будущее.
	// Вырожденный ключ (одни unit-дефолты) не пишем — он склеил бы все
	// нераспознанные строки в один маппинг.
	if decision == model.DecisionAutoApproved && keyIsSpecific(attrs) {
		if _, err := e.mappings.Put(ctx, key, p.ID, "auto", conf); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return model.MatchResult{}, err
			}
			// конфликт или недоступность не отменяют сам матч
			e.log.Warn().Err(err).Str("key", key).Msg("mapping writeback failed")
		}
	}

	return res, nil
}

func (e *Engine) unmatched(item model.Item, key string, candidates []model.Candidate) model.MatchResult {
	flags := make([]model.Flag, 0, 1)
	if item.ClassCode == "" {
		flags = append(flags, model.FlagNoClassification)
	}
	return model.MatchResult{
		ItemID:       item.ID,
		UnitPrice:    decimal.Zero,
		Total:        decimal.Zero,
		Confidence:   0,
		Flags:        flags,
		Decision:     model.DecisionUnmatched,
		Method:       model.MethodNone,
		CanonicalKey: key,
		Candidates:   candidates,
	}
}

// keyIsSpecific — у ключа есть хотя бы одно структурное поле,
// а не только дефолтная единица измерения.
func keyIsSpecific(attrs model.AttributeSet) bool {
	return attrs.WidthMM != nil || attrs.HeightMM != nil ||
		attrs.AngleDeg != nil || attrs.Material != ""
}

// MatchBatch — параллельный прогон набора item'ов. Каждый item независим;
// пул ограничен cfg.Workers. Отмена контекста обрывает батч между
// item'ами, частичных записей в словаре не остаётся (каждый Put атомарен).
func (e *Engine) MatchBatch(ctx context.Context, items []model.Item) ([]model.MatchResult, error) {
	runID := uuid.NewString()
	e.log.Info().Str("run", runID).Int("items", len(items)).
		Int("catalog", e.index.Size()).Int("classes", e.index.Classes()).
		Msg("batch started")

	results := make([]model.MatchResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.MatchItem(ctx, items[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", runID, err)
	}

	e.log.Info().Str("run", runID).Msg("batch finished")
	return results, nil
}
