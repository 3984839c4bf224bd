package storage

import (
	"sort"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

type PersonaStats struct {
	Persona        string  `json:"persona"`
	Count          int     `json:"count"`
	AvgClarity     float64 `json:"avg_clarity"`
	AvgAccuracy    float64 `json:"avg_accuracy"`
	AvgHelpfulness float64 `json:"avg_helpfulness"`
}

// RatingStats aggregates a rating log. With no records Count is zero and
// TopPersona is empty.
type RatingStats struct {
	Count             int            `json:"count"`
	AvgClarity        float64        `json:"avg_clarity"`
	AvgAccuracy       float64        `json:"avg_accuracy"`
	AvgHelpfulness    float64        `json:"avg_helpfulness"`
	TopPersona        string         `json:"top_persona"`
	TopPersonaClarity float64        `json:"top_persona_clarity"`
	Personas          []PersonaStats `json:"personas"`
}

type sums struct {
	n, clarity, accuracy, helpfulness int
}

func (s *sums) add(r model.RatingRecord) {
	s.n++
	s.clarity += r.Clarity
	s.accuracy += r.Accuracy
	s.helpfulness += r.Helpfulness
}

func (s sums) mean(total int) float64 {
	if s.n == 0 {
		return 0
	}
	return float64(total) / float64(s.n)
}

func Summarize(records []model.RatingRecord) RatingStats {
	stats := RatingStats{Personas: []PersonaStats{}}
	if len(records) == 0 {
		return stats
	}

	var all sums
	byPersona := map[string]*sums{}
	for _, r := range records {
		all.add(r)
		ps, ok := byPersona[r.Persona]
		if !ok {
			ps = &sums{}
			byPersona[r.Persona] = ps
		}
		ps.add(r)
	}

	stats.Count = all.n
	stats.AvgClarity = all.mean(all.clarity)
	stats.AvgAccuracy = all.mean(all.accuracy)
	stats.AvgHelpfulness = all.mean(all.helpfulness)

	for name, ps := range byPersona {
		stats.Personas = append(stats.Personas, PersonaStats{
			Persona:        name,
			Count:          ps.n,
			AvgClarity:     ps.mean(ps.clarity),
			AvgAccuracy:    ps.mean(ps.accuracy),
			AvgHelpfulness: ps.mean(ps.helpfulness),
		})
	}
	sort.Slice(stats.Personas, func(i, j int) bool {
		return stats.Personas[i].Persona < stats.Personas[j].Persona
	})

	// Personas are sorted by name, so a strict comparison keeps the first
	// name on ties.
	for i, ps := range stats.Personas {
		if i == 0 || ps.AvgClarity > stats.TopPersonaClarity {
			stats.TopPersona = ps.Persona
			stats.TopPersonaClarity = ps.AvgClarity
		}
	}

	return stats
}
