package model

import (
	"github.com/shopspring/decimal"
)

// Item — одна строка спецификации (BIM schedule line), нужна цена.
type Item struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`      // family/type free text
	ClassCode string          `json:"classCode"` // classification code, may be empty
	Qty       decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit"`
	TextNorm  string          `json:"-"` // normalized text, computed by the engine
}

// PriceItem — позиция прайс-листа.
type PriceItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	ClassCode   string          `json:"classCode"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Unit        string          `json:"unit"`
	LabourHours float64         `json:"labourHours,omitempty"`
	LabourCode  string          `json:"labourCode,omitempty"`
	DescNorm    string          `json:"-"`
	Attrs       AttributeSet    `json:"-"`
}

// AttributeSet — structured fields pulled out of normalized text.
// Absent fields are nil/empty, never an error.
type AttributeSet struct {
	WidthMM  *int   `json:"widthMM,omitempty"`
	HeightMM *int   `json:"heightMM,omitempty"`
	AngleDeg *int   `json:"angleDeg,omitempty"`
	Material string `json:"material,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Norm     string `json:"norm,omitempty"` // normalized source text
}

// Candidate — (item, price item, score) triple, transient within one ranking pass.
type Candidate struct {
	PriceItemID string  `json:"priceItemId"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	AttrOverlap int     `json:"attrOverlap"` // attribute fields agreeing with the item
}

// Flag — rule-derived advisory/risk marker on a match.
type Flag string

const (
	FlagLowConfidence     Flag = "low-confidence"
	FlagAttributeMismatch Flag = "attribute-mismatch"
	FlagNoClassification  Flag = "no-classification-signal"
)

// Decision — terminal state of one matching attempt.
type Decision string

const (
	DecisionAutoApproved  Decision = "auto-approved"
	DecisionAdvisory      Decision = "advisory"
	DecisionPendingReview Decision = "pending-review"
	DecisionUnmatched     Decision = "unmatched"
)

// Method — how the match was found.
type Method string

const (
	MethodExact Method = "exact" // pass 1, canonical key hit
	MethodFuzzy Method = "fuzzy" // pass 2, blocked + ranked
	MethodNone  Method = "none"
)

// MatchResult — self-contained outcome for one item, immutable once decided.
type MatchResult struct {
	ItemID       string          `json:"itemId"`
	PriceItemID  string          `json:"priceItemId,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Total        decimal.Decimal `json:"total"` // qty * unit price, zero when unmatched
	Confidence   float64         `json:"confidence"`
	Flags        []Flag          `json:"flags"`
	Decision     Decision        `json:"decision"`
	Method       Method          `json:"method"`
	CanonicalKey string          `json:"canonicalKey"`
	Candidates   []Candidate     `json:"candidates,omitempty"`
}

// HasFlag reports whether f is present on the result.
func (r MatchResult) HasFlag(f Flag) bool {
	for _, x := range r.Flags {
		if x == f {
			return true
		}
	}
	return false
}

// Mapping — column names binding a spreadsheet to Item/PriceItem fields.
type Mapping struct {
	NameKey   string // наименование
	ClassKey  string // classification code (опционально)
	QtyKey    string // количество / unit price for the price book
	UnitKey   string // единица измерения
	IDKey     string // идентификатор строки (опционально)
	HeaderRow int    // строка заголовков (1-based)
}

// MaterialRule — one synonym-table entry; scanned in slice order, first
// substring hit wins.
type MaterialRule struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Synonyms  []string `yaml:"synonyms" json:"synonyms"`
}

// Config — engine configuration, built once at construction and not
// mutated during a run.
type Config struct {
	Materials       []MaterialRule `yaml:"materials"`
	GalvFallback    bool           `yaml:"galv_fallback"`    // "galv" substring default when no synonym hits
	HighThreshold   float64        `yaml:"high_threshold"`   // auto-approve at or above
	LowThreshold    float64        `yaml:"low_threshold"`    // advisory at or above
	MinScore        float64        `yaml:"min_score"`        // ranking floor, below → unmatched
	ExactConfidence float64        `yaml:"exact_confidence"` // pass-1 baseline
	AttrPenalty     float64        `yaml:"attr_penalty"`     // multiplier per disagreeing attribute
	MaxCandidates   int            `yaml:"max_candidates"`
	BlockingEnabled bool           `yaml:"blocking_enabled"`
	BlockingFlags   []Flag         `yaml:"blocking_flags"` // flags that force pending-review
	Workers         int            `yaml:"workers"`        // batch parallelism
}

// Default returns the engine configuration used when no file is supplied.
func Default() Config {
	return Config{
		Materials: []MaterialRule{
			{Canonical: "galv", Synonyms: []string{"galvanised", "galvanized", "galv"}},
			{Canonical: "ss", Synonyms: []string{"stainless steel", "stainless", "s/s"}},
			{Canonical: "alu", Synonyms: []string{"aluminium", "aluminum", "alu"}},
			{Canonical: "pvc", Synonyms: []string{"pvc-u", "upvc", "pvc"}},
		},
		GalvFallback:    true,
		HighThreshold:   0.90,
		LowThreshold:    0.70,
		MinScore:        0.40,
		ExactConfidence: 0.98,
		AttrPenalty:     0.85,
		MaxCandidates:   50,
		BlockingEnabled: true,
		BlockingFlags:   []Flag{FlagAttributeMismatch},
		Workers:         8,
	}
}

// IsBlocking reports whether f is configured to force review.
func (c Config) IsBlocking(f Flag) bool {
	for _, b := range c.BlockingFlags {
		if b == f {
			return true
		}
	}
	return false
}
