package app

import (
	"fmt"
	"math/rand"

	"github.com/Nihil96/quiz-app/internal/domain"
)

const (
	deckSize        = 10
	distractorCount = 3
)

// GenerateDeck builds a shuffled deck of up to deckSize questions from the
// country dataset. Each question covers a distinct country; countries without
// a capital are ineligible. The rand source is injected so tests can replay
// decks deterministically.
func GenerateDeck(rnd *rand.Rand, countries []domain.Country) []domain.Question {
	eligible := 0
	for _, c := range countries {
		if c.Capital != "" {
			eligible++
		}
	}
	if eligible == 0 {
		return nil
	}

	deck := make([]domain.Question, 0, deckSize)
	used := make(map[string]struct{})

	for len(deck) < deckSize && len(used) < eligible {
		country := countries[rnd.Intn(len(countries))]
		if country.Capital == "" {
			continue
		}
		if _, ok := used[country.Name]; ok {
			continue
		}
		used[country.Name] = struct{}{}

		if rnd.Intn(2) == 0 {
			deck = append(deck, capitalQuestion(rnd, countries, country))
		} else {
			deck = append(deck, continentQuestion(rnd, countries, country))
		}
	}

	rnd.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

func capitalQuestion(rnd *rand.Rand, countries []domain.Country, country domain.Country) domain.Question {
	seen := map[string]struct{}{country.Capital: {}}
	pool := make([]string, 0, len(countries))
	for _, c := range countries {
		if c.Capital == "" {
			continue
		}
		if _, ok := seen[c.Capital]; ok {
			continue
		}
		seen[c.Capital] = struct{}{}
		pool = append(pool, c.Capital)
	}

	return domain.Question{
		Type:          domain.QuestionCapital,
		Prompt:        fmt.Sprintf("What is the capital of %s?", country.Name),
		CorrectAnswer: country.Capital,
		Options:       buildOptions(rnd, country.Capital, pool),
	}
}

func continentQuestion(rnd *rand.Rand, countries []domain.Country, country domain.Country) domain.Question {
	seen := map[string]struct{}{country.Continent.Name: {}}
	pool := make([]string, 0, 8)
	for _, c := range countries {
		if _, ok := seen[c.Continent.Name]; ok {
			continue
		}
		seen[c.Continent.Name] = struct{}{}
		pool = append(pool, c.Continent.Name)
	}

	return domain.Question{
		Type:          domain.QuestionContinent,
		Prompt:        fmt.Sprintf("Which continent is %s located in?", country.Name),
		CorrectAnswer: country.Continent.Name,
		Options:       buildOptions(rnd, country.Continent.Name, pool),
	}
}

// buildOptions draws up to distractorCount values from pool without
// replacement, prepends the correct answer and shuffles. When the pool is
// short the options list is simply shorter than four.
func buildOptions(rnd *rand.Rand, correct string, pool []string) []string {
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := distractorCount
	if n > len(shuffled) {
		n = len(shuffled)
	}
	options := make([]string, 0, n+1)
	options = append(options, correct)
	options = append(options, shuffled[:n]...)

	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
