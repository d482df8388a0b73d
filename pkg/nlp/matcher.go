package nlp

import (
	"sort"
	"strings"
)

// Similarity is a normalized edit-distance ratio between two phrases.
// 1.0 means identical after cleaning; symmetric in its arguments.
func (p *processor) Similarity(a, b string) float64 {
	na := p.cleanText(a)
	nb := p.cleanText(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		shorter, longer := na, nb
		if len(na) > len(nb) {
			shorter, longer = nb, na
		}
		return float64(len(shorter)) / float64(len(longer))
	}

	distance := levenshtein(na, nb)
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	ratio := 1.0 - float64(distance)/float64(maxLen)
	if ratio < 0 {
		return 0.0
	}
	return ratio
}

// FindBestMatches ranks catalog items against a free-text command.
// Exact substring containment of the item name always scores 1.0 and
// dominates; fuzzy whole-string and per-word scoring recover near-miss
// phrasing above the threshold. Ties keep catalog order.
func (p *processor) FindBestMatches(command string, items []Item) []Match {
	cleanedCmd := p.cleanText(command)
	commandWords := strings.Fields(p.StripNoise(command))

	var matches []Match
	for _, item := range items {
		cleanedName := p.cleanText(item.Name)
		if cleanedName == "" {
			continue
		}

		if strings.Contains(cleanedCmd, cleanedName) {
			matches = append(matches, Match{Item: item, Score: 1.0, Type: "exact"})
			continue
		}

		if score := p.Similarity(cleanedCmd, cleanedName); score > p.threshold {
			matches = append(matches, Match{Item: item, Score: score, Type: "fuzzy"})
			continue
		}

		if p.allWordsCovered(cleanedName, commandWords) {
			matches = append(matches, Match{Item: item, Score: 0.8, Type: "words"})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// allWordsCovered reports whether every word of the item name has at
// least one command word above the similarity threshold.
func (p *processor) allWordsCovered(cleanedName string, commandWords []string) bool {
	nameWords := strings.Fields(cleanedName)
	if len(nameWords) == 0 || len(commandWords) == 0 {
		return false
	}

	for _, nameWord := range nameWords {
		covered := false
		for _, cmdWord := range commandWords {
			if p.Similarity(nameWord, cmdWord) > p.threshold {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func minOf(a, b, c int) int {
	if a < b && a < c {
		return a
	}
	if b < c {
		return b
	}
	return c
}
