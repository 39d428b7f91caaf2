package strains

import (
	"math/rand"
	"sort"
	"strings"
)

// conditionKeywords expands a tracked symptom into the phrases that show
// up in strain effect lists and descriptions.
var conditionKeywords = map[string][]string{
	"pain":         {"pain", "arthritis", "migraine", "headache", "muscle spasm"},
	"anxiety":      {"anxiety", "stress", "ptsd", "panic", "relaxed"},
	"depression":   {"depression", "mood", "uplifted", "happy"},
	"insomnia":     {"insomnia", "sleep", "sleepy", "restless"},
	"nausea":       {"nausea", "appetite", "hungry"},
	"inflammation": {"inflammation", "arthritis"},
	"focus":        {"focus", "focused", "attention", "creative"},
	"energy":       {"energetic", "energy", "uplifted"},
	"relaxation":   {"relaxed", "calm", "mellow"},
}

// ForCondition recommends up to limit strains for a tracked condition,
// best-rated first. A non-nil rng shuffles within the top candidates so
// repeated asks get variety; pass a seeded source for reproducible
// results (tests do), or nil for a stable rating-ordered list.
func (c *Catalog) ForCondition(condition string, limit int, rng *rand.Rand) []Strain {
	if limit <= 0 {
		return nil
	}

	keywords := conditionKeywords[strings.ToLower(strings.TrimSpace(condition))]
	if keywords == nil {
		keywords = []string{strings.ToLower(strings.TrimSpace(condition))}
	}

	var matches []Strain
	for _, key := range c.names {
		s := c.byName[key]
		if matchesAny(s, keywords) {
			matches = append(matches, s)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Rating > matches[j].Rating
	})

	// Keep a pool of the best candidates, then shuffle inside it.
	pool := limit * 3
	if pool > len(matches) {
		pool = len(matches)
	}
	matches = matches[:pool]
	if rng != nil {
		rng.Shuffle(len(matches), func(i, j int) {
			matches[i], matches[j] = matches[j], matches[i]
		})
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func matchesAny(s Strain, keywords []string) bool {
	desc := strings.ToLower(s.Description)
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			return true
		}
		for _, e := range s.Effects {
			if strings.EqualFold(strings.TrimSpace(e), kw) || strings.Contains(strings.ToLower(e), kw) {
				return true
			}
		}
	}
	return false
}
