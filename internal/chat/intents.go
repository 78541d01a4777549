package chat

import (
	"strings"
)

// Intent detection is deliberately heuristic: case-insensitive substring
// membership against fixed word lists, not NLU. The lists below are
// checked by ordered predicates; rule priority lives in the orchestrator.

var foodKeywords = []string{
	"hungry", "eat", "food", "feed", "meal", "breakfast", "lunch",
	"dinner", "snack", "healthy", "nutrition", "calories", "diet", "ate",
}

var declineKeywords = []string{
	"no", "nah", "nope", "not", "don't", "dont", "never mind",
	"nevermind", "maybe later", "later", "can't", "cant",
}

var financeKeywords = []string{
	"money", "finance", "financial", "budget", "invest", "spend",
	"saving", "savings", "debt", "broke", "bank", "salary", "paycheck",
}

var lastAtePhrases = []string{
	"what did i eat", "what did i just eat", "what have i eaten",
	"last thing i ate", "last thing i eat", "what was my last meal",
	"what did i have last", "when did i last eat", "what i ate last",
	"last food i ate", "my last meal",
}

func containsAny(input string, words []string) bool {
	lower := strings.ToLower(input)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func isFoodIntent(input string) bool {
	return containsAny(input, foodKeywords)
}

func isDeclineIntent(input string) bool {
	return containsAny(input, declineKeywords)
}

func isFinanceIntent(input string) bool {
	return containsAny(input, financeKeywords)
}

func isLastAteQuery(input string) bool {
	return containsAny(input, lastAtePhrases)
}
