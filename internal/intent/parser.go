package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/config"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/llm"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

const systemPrompt = "You convert a business reporting request into a structured spec. " +
	"Return ONLY minified JSON matching the provided schema. Do not add prose."

// Chatter is the slice of the LLM client the parser needs.
type Chatter interface {
	Configured() bool
	Chat(ctx context.Context, messages []llm.Message, jsonMode bool) (string, error)
}

// Parser turns free-form reporting requests into an IntentSpec, using the
// language model when one is configured and deterministic rules otherwise.
type Parser struct {
	profile *config.ReportProfile
	chat    Chatter
	logger  logger.Logger
}

// NewParser builds a parser. chat may be nil for a rules-only parser.
func NewParser(profile *config.ReportProfile, chat Chatter, log logger.Logger) *Parser {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	return &Parser{profile: profile, chat: chat, logger: log}
}

var (
	isoDateRe  = regexp.MustCompile(`(20\d{2}-\d{2}-\d{2})`)
	lastNRe    = regexp.MustCompile(`last (\d{1,2}) (day|week|month|quarter|year)s?`)
	inRegionRe = regexp.MustCompile(`in ([A-Za-z ]+)`)
)

var grainRes = func() map[models.Grain]*regexp.Regexp {
	res := make(map[models.Grain]*regexp.Regexp, len(models.Grains))
	for _, g := range models.Grains {
		res[g] = regexp.MustCompile(`(per|by) ` + string(g))
	}
	return res
}()

// Parse returns the IntentSpec for the request text. A model failure is
// never surfaced; it only downgrades to the rules path.
func (p *Parser) Parse(ctx context.Context, text, title string) models.IntentSpec {
	title = strings.TrimSpace(title)
	if title == "" {
		title = p.profile.DefaultTitle
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return p.ParseRules(text, title)
	}

	if p.chat != nil && p.chat.Configured() {
		spec, err := p.parseLLM(ctx, text, title)
		if err != nil {
			p.logger.Warn("llm intent parsing failed, using rules",
				logger.Error(err),
			)
		} else {
			return spec
		}
	}
	return p.ParseRules(text, title)
}

// parseLLM asks the model for a structured spec and validates the reply.
func (p *Parser) parseLLM(ctx context.Context, text, title string) (models.IntentSpec, error) {
	schemaDescription := `{"title":"string","metrics":["string"],"dimensions":["string"],` +
		`"filters":[{"field":"string","operator":"string","value":"string"}],` +
		`"grain":"day|week|month|quarter|year|none",` +
		`"chart":{"type":"table|line|bar|pie","x":"string","y":"string","series":["string"]}}`
	userPrompt := fmt.Sprintf("TITLE: %s\nTEXT: %s\nJSON_SCHEMA: %s\nReturn valid JSON.",
		title, text, schemaDescription)

	content, err := p.chat.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, true)
	if err != nil {
		return models.IntentSpec{}, err
	}

	var spec models.IntentSpec
	if err := json.Unmarshal([]byte(llm.StripCodeFences(content)), &spec); err != nil {
		return models.IntentSpec{}, fmt.Errorf("invalid spec json from model: %w", err)
	}
	return p.normalize(spec, title), nil
}

// normalize enforces the spec invariants on any parsed result.
func (p *Parser) normalize(spec models.IntentSpec, title string) models.IntentSpec {
	if strings.TrimSpace(spec.Title) == "" {
		spec.Title = title
	}
	if len(spec.Metrics) == 0 {
		spec.Metrics = []string{"count"}
	}
	switch spec.Grain {
	case models.GrainDay, models.GrainWeek, models.GrainMonth, models.GrainQuarter, models.GrainYear:
	default:
		spec.Grain = models.GrainNone
	}
	return spec
}

// ParseRules is the deterministic fallback parser.
func (p *Parser) ParseRules(text, title string) models.IntentSpec {
	lowered := strings.ToLower(text)

	metrics := extractTokens(lowered, p.profile.MetricKeywords)
	if len(metrics) == 0 {
		metrics = []string{"count"}
	}
	dimensions := extractTokens(lowered, p.profile.DimensionKeywords)
	grain := detectGrain(lowered)

	var filters []models.IntentFilter
	if dates := isoDateRe.FindAllString(text, -1); len(dates) >= 2 {
		filters = append(filters,
			models.IntentFilter{Field: p.profile.DateField, Operator: ">=", Value: dates[0]},
			models.IntentFilter{Field: p.profile.DateField, Operator: "<=", Value: dates[1]},
		)
	}
	if m := lastNRe.FindStringSubmatch(lowered); m != nil {
		// Symbolic value, resolved downstream before it reaches SQL.
		filters = append(filters, models.IntentFilter{
			Field:    p.profile.DateField,
			Operator: ">=",
			Value:    fmt.Sprintf("last_%s_%s", m[2], m[1]),
		})
	}
	if m := inRegionRe.FindStringSubmatch(text); m != nil {
		parts := strings.Split(m[1], " and ")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		filters = append(filters, models.IntentFilter{
			Field:    "region",
			Operator: "in",
			Value:    strings.Join(parts, ","),
		})
	}

	var chart *models.ChartIntent
	if strings.Contains(lowered, "trend") || grain == models.GrainMonth || grain == models.GrainQuarter || grain == models.GrainYear {
		x := string(grain)
		if grain == models.GrainNone {
			x = p.profile.DateField
		}
		chart = &models.ChartIntent{Type: "line", X: x, Y: metrics[0]}
		if contains(dimensions, "region") {
			chart.Series = []string{"region"}
		}
	}

	return models.IntentSpec{
		Title:      title,
		Metrics:    metrics,
		Dimensions: dimensions,
		Filters:    filters,
		Grain:      grain,
		Chart:      chart,
	}
}

// SpecPayload converts an IntentSpec into the API-facing spec document:
// filters expose both operator spellings, grain "none" becomes null, and a
// default sort is attached.
func SpecPayload(spec models.IntentSpec) map[string]any {
	filters := make([]map[string]string, 0, len(spec.Filters))
	for _, f := range spec.Filters {
		filters = append(filters, map[string]string{
			"field":    f.Field,
			"operator": f.Operator,
			"op":       f.Operator,
			"value":    f.Value,
		})
	}

	payload := map[string]any{
		"title":      spec.Title,
		"metrics":    spec.Metrics,
		"dimensions": spec.Dimensions,
		"filters":    filters,
	}
	if spec.Grain.IsBucketed() {
		payload["grain"] = string(spec.Grain)
		payload["sort"] = []map[string]string{{"field": string(spec.Grain), "dir": "asc"}}
	} else {
		payload["grain"] = nil
		if len(spec.Metrics) > 0 {
			payload["sort"] = []map[string]string{{"field": spec.Metrics[0], "dir": "desc"}}
		}
	}
	if spec.Chart != nil {
		payload["chart"] = spec.Chart
	}
	return payload
}

// extractTokens keeps the vocabulary terms present in text, in dictionary
// order rather than text order.
func extractTokens(text string, keywords []string) []string {
	var tokens []string
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			tokens = append(tokens, keyword)
		}
	}
	return tokens
}

// detectGrain checks grains in their enumeration order, so "per day" wins
// over a later "by month" in the same sentence.
func detectGrain(text string) models.Grain {
	for _, candidate := range models.Grains {
		if grainRes[candidate].MatchString(text) {
			return candidate
		}
	}
	if strings.Contains(text, "monthly") {
		return models.GrainMonth
	}
	return models.GrainNone
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
