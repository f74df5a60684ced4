package legal

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/generator"
	"github.com/tharun242005/EMPATH-AI/internal/models"
)

// sectionRule maps an IPC section number to its trigger keywords. Rules are
// kept as an ordered slice so annotation output is deterministic.
type sectionRule struct {
	section  string
	keywords []string
}

var sectionRules = []sectionRule{
	{"354A", []string{"sexual", "harassment", "unwelcome", "advances", "favours", "explicit"}},
	{"354D", []string{"stalk", "stalking", "follow", "following", "repeatedly"}},
	{"499", []string{"defame", "defamation", "reputation", "false", "statement"}},
	{"503", []string{"threat", "threaten", "intimidate", "injury", "alarm"}},
	{"504", []string{"insult", "provoke", "breach", "peace", "intentionally"}},
	{"506", []string{"criminal", "intimidation", "punishment"}},
	{"509", []string{"modesty", "woman", "word", "gesture", "insult"}},
}

// Matcher annotates harassment messages with IPC section references.
// A nil backend disables the LLM suggestion fallback.
type Matcher struct {
	sections map[string]Section
	backend  generator.TextBackend
	logger   *zap.Logger
}

// NewMatcher builds a matcher over the loaded dataset. An empty dataset is
// valid and yields a matcher that never annotates from rules.
func NewMatcher(sections []Section, backend generator.TextBackend, logger *zap.Logger) *Matcher {
	byNumber := make(map[string]Section, len(sections))
	for _, s := range sections {
		byNumber[s.Section] = s
	}
	return &Matcher{
		sections: byNumber,
		backend:  backend,
		logger:   logger,
	}
}

// Annotate returns rendered IPC references for the message. Only Medium and
// High tiers are annotated. When no keyword rule matches, the backend is
// asked for a suggestion; suggestion failures are logged and swallowed.
func (m *Matcher) Annotate(ctx context.Context, message string, tier models.Severity) []string {
	if tier != models.SeverityMedium && tier != models.SeverityHigh {
		return nil
	}
	if len(m.sections) == 0 {
		return nil
	}

	lower := strings.ToLower(message)
	var matched []string
	for _, rule := range sectionRules {
		if !matchesAny(lower, rule.keywords) {
			continue
		}
		section, ok := m.sections[rule.section]
		if !ok {
			continue
		}
		matched = append(matched,
			fmt.Sprintf("⚖️ IPC Section %s: %s — %s", section.Section, section.Title, section.Description))
	}
	if len(matched) > 0 {
		return matched
	}

	if m.backend == nil {
		return nil
	}
	prompt := fmt.Sprintf(
		"Which Indian IPC sections (354A, 354D, 499, 503, 504, 506, 509) might apply to this situation: '%s'? "+
			"Respond with only the section number(s) and brief title, e.g., '354A: Sexual harassment'.",
		message)
	suggestion, err := m.backend.GenerateText(ctx, prompt, generator.Options{
		Temperature:     0.2,
		MaxOutputTokens: 100,
	})
	if err != nil {
		m.logger.Warn("IPC suggestion failed", zap.Error(err))
		return nil
	}
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return nil
	}
	return []string{"⚖️ Suggested IPC: " + suggestion}
}

// SectionNumber extracts the bare section identifier from a rendered
// annotation, used for dedupe against reply text.
func SectionNumber(annotation string) string {
	head := strings.SplitN(annotation, ":", 2)[0]
	head = strings.ReplaceAll(head, "⚖️ IPC Section", "")
	head = strings.ReplaceAll(head, "⚖️ Suggested IPC", "")
	return strings.TrimSpace(head)
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
