package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pricematch-service/internal/config"
	"pricematch-service/internal/fileio"
	"pricematch-service/internal/mapping"
	"pricematch-service/internal/match/model"
	matchSvc "pricematch-service/internal/match/service"
)

type matchResponse struct {
	Results []model.MatchResult `json:"results"`
	Summary summary             `json:"summary"`
}

type summary struct {
	Items         int   `json:"items"`
	Catalog       int   `json:"catalog"`
	AutoApproved  int   `json:"autoApproved"`
	Advisory      int   `json:"advisory"`
	PendingReview int   `json:"pendingReview"`
	Unmatched     int   `json:"unmatched"`
	ElapsedMs     int64 `json:"elapsedMs"`
}

// Match — основной эндпоинт: multipart со спецификацией и прайс-листом,
// ответ — JSON с MatchResult по каждой строке.
func Match(cfg config.Config, engineCfg model.Config, store mapping.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log := logger
		if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
			log = logger.With().Str("req_id", reqID).Logger()
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		schedFile, schedHeader, err := r.FormFile("schedule")
		if err != nil {
			http.Error(w, "missing schedule: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer schedFile.Close()

		priceFile, priceHeader, err := r.FormFile("prices")
		if err != nil {
			http.Error(w, "missing prices: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer priceFile.Close()

		schedRows, err := fileio.ReadTable(schedFile, schedHeader.Filename, atoi(r.FormValue("schedule_header_row"), 1))
		if err != nil {
			http.Error(w, "failed to read schedule: "+err.Error(), http.StatusBadRequest)
			return
		}
		priceRows, err := fileio.ReadTable(priceFile, priceHeader.Filename, atoi(r.FormValue("price_header_row"), 1))
		if err != nil {
			http.Error(w, "failed to read prices: "+err.Error(), http.StatusBadRequest)
			return
		}

		schedMap := model.Mapping{
			NameKey:   formDefault(r, "schedule_name", "description|family|type|name"),
			ClassKey:  formDefault(r, "schedule_class", "class|classification|code"),
			QtyKey:    formDefault(r, "schedule_qty", "qty|quantity|count"),
			UnitKey:   formDefault(r, "schedule_unit", "unit|uom"),
			IDKey:     formDefault(r, "schedule_id", "id|item|ref"),
			HeaderRow: atoi(r.FormValue("schedule_header_row"), 1),
		}
		priceMap := model.Mapping{
			NameKey:   formDefault(r, "price_name", "description|name"),
			ClassKey:  formDefault(r, "price_class", "class|classification|code"),
			QtyKey:    formDefault(r, "price_value", "rate|price|unit price"),
			UnitKey:   formDefault(r, "price_unit", "unit|uom"),
			IDKey:     formDefault(r, "price_id", "id|ref|sku"),
			HeaderRow: atoi(r.FormValue("price_header_row"), 1),
		}

		// overrides на один запрос; конфиг движка не мутируем
		ecfg := engineCfg
		ecfg.HighThreshold = toFloat(r.FormValue("high_threshold"), ecfg.HighThreshold)
		ecfg.LowThreshold = toFloat(r.FormValue("low_threshold"), ecfg.LowThreshold)
		ecfg.MaxCandidates = atoi(r.FormValue("max_candidates"), ecfg.MaxCandidates)
		ecfg.BlockingEnabled = toBool(r.FormValue("blocking"), ecfg.BlockingEnabled)

		items := toItems(schedRows, schedMap)
		prices := toPriceItems(priceRows, priceMap)
		if len(prices) == 0 {
			http.Error(w, "price catalog is empty", http.StatusBadRequest)
			return
		}

		engine := matchSvc.NewEngine(ecfg, prices, store, log)
		results, err := engine.MatchBatch(r.Context(), items)
		if err != nil {
			if errors.Is(err, mapping.ErrUnavailable) {
				http.Error(w, "mapping store unavailable, retry later", http.StatusServiceUnavailable)
				return
			}
			log.Error().Err(err).Msg("batch failed")
			http.Error(w, "match failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		resp := matchResponse{Results: results, Summary: summarize(results, len(prices), time.Since(start))}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("items", len(items)).
			Int("catalog", len(prices)).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}

func summarize(results []model.MatchResult, catalog int, elapsed time.Duration) summary {
	s := summary{Items: len(results), Catalog: catalog, ElapsedMs: elapsed.Milliseconds()}
	for _, r := range results {
		switch r.Decision {
		case model.DecisionAutoApproved:
			s.AutoApproved++
		case model.DecisionAdvisory:
			s.Advisory++
		case model.DecisionPendingReview:
			s.PendingReview++
		case model.DecisionUnmatched:
			s.Unmatched++
		}
	}
	return s
}

// MappingLookup — текущая запись словаря по каноническому ключу.
func MappingLookup(store mapping.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		rec, err := store.Lookup(r.Context(), key)
		switch {
		case errors.Is(err, mapping.ErrNotFound):
			http.Error(w, "no current mapping for key", http.StatusNotFound)
			return
		case err != nil:
			logger.Error().Err(err).Str("key", key).Msg("mapping lookup")
			http.Error(w, "mapping store unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, rec)
	}
}

// MappingHistory — все SCD2-версии ключа, от старых к новым.
func MappingHistory(store mapping.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		recs, err := store.History(r.Context(), key)
		if err != nil {
			logger.Error().Err(err).Str("key", key).Msg("mapping history")
			http.Error(w, "mapping store unavailable", http.StatusServiceUnavailable)
			return
		}
		if recs == nil {
			recs = []mapping.Record{}
		}
		writeJSON(w, recs)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func formDefault(r *http.Request, field, def string) string {
	if v := r.FormValue(field); v != "" {
		return v
	}
	return def
}
