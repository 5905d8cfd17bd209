package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/llm"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

// AcceptThreshold is the minimum confidence at which a term is bound to a
// column. Below it the mapping item carries a score but no column.
const AcceptThreshold = 0.4

var timeTerms = []string{"date", "day", "week", "month", "quarter", "year", "time"}

// Chatter is the slice of the LLM client the mapper needs for re-ranking.
type Chatter interface {
	Configured() bool
	Chat(ctx context.Context, messages []llm.Message, jsonMode bool) (string, error)
}

// Mapper resolves spec terms to catalog columns by fuzzy scoring, with an
// optional best-effort model re-rank of close candidates.
type Mapper struct {
	chat   Chatter
	logger logger.Logger
}

// NewMapper builds a mapper. chat may be nil to disable re-ranking.
func NewMapper(chat Chatter, log logger.Logger) *Mapper {
	return &Mapper{chat: chat, logger: log}
}

type scoredColumn struct {
	column models.ColumnMetadata
	score  float64
}

// MapTerms returns one MappingItem per metric then per dimension, in spec
// order.
func (m *Mapper) MapTerms(ctx context.Context, spec models.IntentSpec, columns []models.ColumnMetadata) []models.MappingItem {
	items := make([]models.MappingItem, 0, len(spec.Metrics)+len(spec.Dimensions))
	for _, term := range spec.Metrics {
		items = append(items, m.mapSingle(ctx, term, models.RoleMetric, columns))
	}
	for _, term := range spec.Dimensions {
		items = append(items, m.mapSingle(ctx, term, models.RoleDimension, columns))
	}
	return items
}

func (m *Mapper) mapSingle(ctx context.Context, term string, role models.Role, columns []models.ColumnMetadata) models.MappingItem {
	normalized := normalize(term)
	pool := candidatePool(role, normalized, columns)

	scored := make([]scoredColumn, 0, len(pool))
	for _, col := range pool {
		scored = append(scored, scoredColumn{column: col, score: scoreColumn(normalized, col)})
	}
	// Stable sort keeps catalog order as the tie-break.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if len(scored) == 0 {
		return models.MappingItem{Term: term, Role: role, Reason: "No confident match found"}
	}

	top := scored[0]
	if m.chat != nil && m.chat.Configured() && len(scored) > 1 {
		if reranked, ok := m.rerank(ctx, term, scored); ok {
			top = reranked
		}
	}

	confidence := round2(top.score)
	if confidence < AcceptThreshold {
		return models.MappingItem{
			Term:       term,
			Role:       role,
			Confidence: confidence,
			Reason:     "No confident match found",
		}
	}

	reason := fmt.Sprintf("Matched column name '%s'", top.column.Column)
	if role == models.RoleMetric && !top.column.IsNumeric {
		reason = fmt.Sprintf("Best available non-numeric column '%s'", top.column.Column)
	}
	return models.MappingItem{
		Term:       term,
		Role:       role,
		Column:     top.column.QualifiedName(),
		Confidence: confidence,
		Reason:     reason,
	}
}

// candidatePool narrows the catalog by role: numeric columns for metrics,
// date-like columns for time-flavored dimensions, non-numeric columns for
// the rest. An empty pool falls back to the full catalog.
func candidatePool(role models.Role, normalizedTerm string, columns []models.ColumnMetadata) []models.ColumnMetadata {
	if role == models.RoleMetric {
		var numeric []models.ColumnMetadata
		for _, col := range columns {
			if col.IsNumeric {
				numeric = append(numeric, col)
			}
		}
		if len(numeric) > 0 {
			return numeric
		}
		return columns
	}

	for _, token := range timeTerms {
		if strings.Contains(normalizedTerm, token) {
			var dateLike []models.ColumnMetadata
			for _, col := range columns {
				if col.IsDateLike {
					dateLike = append(dateLike, col)
				}
			}
			if len(dateLike) > 0 {
				return dateLike
			}
			return columns
		}
	}

	var categorical []models.ColumnMetadata
	for _, col := range columns {
		if !col.IsNumeric {
			categorical = append(categorical, col)
		}
	}
	if len(categorical) > 0 {
		return categorical
	}
	return columns
}

// scoreColumn scores a candidate against both its qualified name and a
// space-joined "schema table column" label, keeping the better of the two.
func scoreColumn(normalizedTerm string, col models.ColumnMetadata) float64 {
	qualified := normalize(col.QualifiedName())
	flat := normalize(fmt.Sprintf("%s %s %s", col.Schema, col.Table, col.Column))
	return math.Max(tokenSetScore(normalizedTerm, qualified), tokenSetScore(normalizedTerm, flat))
}

// rerank asks the model to pick among the top three candidates. Any error
// keeps the fuzzy winner; this path never fails a request.
func (m *Mapper) rerank(ctx context.Context, term string, scored []scoredColumn) (scoredColumn, bool) {
	limit := 3
	if len(scored) < limit {
		limit = len(scored)
	}
	candidates := scored[:limit]

	type option struct {
		Index int     `json:"index"`
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}
	options := make([]option, 0, len(candidates))
	for i, cand := range candidates {
		options = append(options, option{Index: i, Name: cand.column.DottedName(), Score: round2(cand.score)})
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return scoredColumn{}, false
	}

	userPrompt := fmt.Sprintf("Term: %s\nCandidates:\n%s\nReturn JSON like {\"index\":0}.", term, optionsJSON)
	content, err := m.chat.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Pick the best matching column index. Respond with minified JSON only."},
		{Role: "user", Content: userPrompt},
	}, true)
	if err != nil {
		m.logger.Debug("rerank unavailable, keeping fuzzy winner", logger.Error(err))
		return scoredColumn{}, false
	}

	var pick struct {
		Index *int `json:"index"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(content)), &pick); err != nil {
		return scoredColumn{}, false
	}
	if pick.Index == nil || *pick.Index < 0 || *pick.Index >= len(candidates) {
		return scoredColumn{}, false
	}
	return candidates[*pick.Index], true
}

// ComputeInsights summarizes term coverage over the catalog. Unmatched
// terms carry up to three positive-scoring suggestions, best first.
func ComputeInsights(spec models.IntentSpec, mappings []models.MappingItem, columns []models.ColumnMetadata) models.SchemaInsights {
	totalTerms := len(spec.Metrics) + len(spec.Dimensions)

	matched := make([]string, 0, len(mappings))
	missing := make([]models.MissingFieldSuggestion, 0)
	for _, item := range mappings {
		if item.Column != "" {
			matched = append(matched, item.Term)
			continue
		}
		missing = append(missing, models.MissingFieldSuggestion{
			Name:        item.Term,
			Suggestions: topSuggestions(item.Term, columns, 3),
		})
	}

	coverage := 0
	if totalTerms > 0 {
		coverage = int(math.Round(100 * float64(len(matched)) / float64(totalTerms)))
	}
	return models.SchemaInsights{
		CoveragePercent: coverage,
		MatchedFields:   matched,
		MissingFields:   missing,
	}
}

func topSuggestions(term string, columns []models.ColumnMetadata, limit int) []string {
	normalized := normalize(term)
	scored := make([]scoredColumn, 0, len(columns))
	for _, col := range columns {
		scored = append(scored, scoredColumn{column: col, score: scoreColumn(normalized, col)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	suggestions := make([]string, 0, limit)
	for _, cand := range scored {
		if len(suggestions) == limit {
			break
		}
		if cand.score > 0 {
			suggestions = append(suggestions, cand.column.QualifiedName())
		}
	}
	return suggestions
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
