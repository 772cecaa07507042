package emotion

import "strings"

// keywordBuckets maps labels to phrases that signal them in reply text.
// Matching is case-insensitive substring containment.
var keywordBuckets = map[Label][]string{
	Excited: {
		"sale", "discount", "deal", "promotion", "special offer",
		"% off", "percent off", "amazing", "incredible", "unbelievable",
		"wow", "bargain",
	},
	Happy: {
		"great news", "good news", "glad", "wonderful", "delicious",
		"enjoy", "happy", "lovely", "fantastic",
	},
	Surprised: {
		"secret", "hidden", "won't believe", "wouldn't believe",
		"surprise", "unexpected", "most people don't know", "did you know",
	},
	Sad: {
		"unfortunately", "sorry", "closed", "apolog", "unavailable",
		"regret", "i'm afraid", "not available",
	},
	Helpful: {
		"floor", "escalator", "elevator", "next to", "near the",
		"turn left", "turn right", "you'll find", "located", "head to",
		"directions",
	},
	Thinking: {
		"let me check", "one moment", "looking that up", "checking",
		"searching", "just a moment",
	},
	Welcoming: {
		"welcome", "hello", "hi there", "good morning", "good afternoon",
		"good evening", "glad you're here",
	},
}

// inferOrder fixes the tie-break order for equal scores so inference is
// deterministic. Content-driven labels outrank the punctuation-boosted
// ones on ties.
var inferOrder = []Label{
	Sad, Surprised, Welcoming, Helpful, Thinking, Happy, Excited,
}

// Exclamation marks push text toward the energetic labels.
const (
	excitedBoostPerBang = 3
	happyBoostOneBang   = 2
	keywordWeight       = 3
)

// Infer guesses an emotion from reply text using the keyword lexicon.
// Text with no signal is Neutral.
func Infer(text string) Label {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Neutral
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label] += keywordWeight
			}
		}
	}

	if bangs := strings.Count(text, "!"); bangs > 0 {
		scores[Excited] += bangs * excitedBoostPerBang
		if bangs == 1 {
			scores[Happy] += happyBoostOneBang
		}
	}

	best := Neutral
	bestScore := 0
	for _, label := range inferOrder {
		if s := scores[label]; s > bestScore {
			best = label
			bestScore = s
		}
	}
	return best
}
