// Package stats derives dashboard aggregates from a list of questions.
// Every function is pure and accepts a nil slice as an empty list.
package stats

import (
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/triviaboard/internal/trivia"
)

// Bucket is one named count in a distribution.
type Bucket struct {
	Name  string
	Count int
}

// Summary holds the headline counts shown on the dashboard cards.
type Summary struct {
	TotalQuestions  int
	TotalCategories int
	EasyCount       int
	MediumCount     int
	HardCount       int
}

// UniqueCategories returns the distinct decoded category names in ordinal
// ascending order.
func UniqueCategories(qs []trivia.Question) []string {
	seen := make(map[string]struct{}, len(qs))
	names := []string{}
	for _, q := range qs {
		name := q.DecodedCategory()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CategoryDistribution counts questions per decoded category, in order of
// first occurrence.
func CategoryDistribution(qs []trivia.Question) []Bucket {
	return group(qs, func(q trivia.Question) (string, string) {
		name := q.DecodedCategory()
		return name, name
	})
}

// DifficultyDistribution counts questions per raw difficulty, in order of
// first occurrence. Bucket names are capitalized ("easy" -> "Easy").
func DifficultyDistribution(qs []trivia.Question) []Bucket {
	return group(qs, func(q trivia.Question) (string, string) {
		raw := string(q.Difficulty)
		return raw, capitalize(raw)
	})
}

// Compute returns the summary counts. Difficulties other than easy, medium
// and hard count toward the total only.
func Compute(qs []trivia.Question) Summary {
	s := Summary{
		TotalQuestions:  len(qs),
		TotalCategories: len(UniqueCategories(qs)),
	}
	for _, q := range qs {
		switch q.Difficulty {
		case trivia.DifficultyEasy:
			s.EasyCount++
		case trivia.DifficultyMedium:
			s.MediumCount++
		case trivia.DifficultyHard:
			s.HardCount++
		}
	}
	return s
}

// CountByCategory returns how many questions belong to the decoded
// category name.
func CountByCategory(qs []trivia.Question, name string) int {
	n := 0
	for _, q := range qs {
		if q.DecodedCategory() == name {
			n++
		}
	}
	return n
}

// Percent returns count as a percentage of total, or 0 when total is 0.
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// group buckets questions by key, keeping first-occurrence order.
func group(qs []trivia.Question, keyOf func(trivia.Question) (key, display string)) []Bucket {
	index := make(map[string]int)
	buckets := []Bucket{}
	for _, q := range qs {
		key, display := keyOf(q)
		if i, ok := index[key]; ok {
			buckets[i].Count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, Bucket{Name: display, Count: 1})
	}
	return buckets
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
