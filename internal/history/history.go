// Package history retrieves past turns for prompt context assembly.
package history

import (
	"context"
	"fmt"
	"strings"

	"gachipet/internal/models"
)

// Category groups used when fetching context.
const (
	GroupFood      = "food"
	GroupFinancial = "financial"
	GroupGeneral   = "general"
)

// TurnSource provides turns newest-first, filtered by state tag.
type TurnSource interface {
	RecentTurns(ctx context.Context, userID int64, tags []string, limit int) ([]models.Turn, error)
}

type Store struct {
	source TurnSource
}

func NewStore(source TurnSource) *Store {
	return &Store{source: source}
}

// tagsFor maps a category group to the state tags it covers. Anything
// unrecognized falls back to general chat.
func tagsFor(group string) []string {
	switch group {
	case GroupFood:
		return []string{models.TagFoodDiscussion, models.TagFoodImageRequest}
	case GroupFinancial:
		return []string{models.TagFinancialAdvice}
	default:
		return []string{models.TagGeneralChat}
	}
}

// Fetch returns up to limit matching turns in chronological order. The
// underlying query is newest-first so the limit keeps the most recent
// turns; the result is then reversed because the transcript is injected
// into the oracle's context oldest-first.
func (s *Store) Fetch(ctx context.Context, userID int64, group string, limit int) ([]models.Turn, error) {
	turns, err := s.source.RecentTurns(ctx, userID, tagsFor(group), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s history: %w", group, err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// Transcript renders turns as alternating "User:" / "Bot:" lines. An
// empty slice renders as an empty string; the caller must then omit the
// context section rather than emit an empty header.
func Transcript(turns []models.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range turns {
		b.WriteString("User: ")
		b.WriteString(t.UserMessage)
		b.WriteString("\nBot: ")
		b.WriteString(t.BotResponse)
		b.WriteString("\n")
	}
	return b.String()
}
