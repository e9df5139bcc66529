package rhyme

import (
	"strings"

	"github.com/avillega/rimario/internal/model"
)

// offlineSamples is the fixed degraded-mode result set served when the
// provider cannot be reached at all.
var offlineSamples = []model.Rhyme{
	{Word: "amor", Score: 100, Syllables: 2, Tags: []string{"noun"}},
	{Word: "flor", Score: 95, Syllables: 1, Tags: []string{"noun"}},
	{Word: "dolor", Score: 90, Syllables: 2, Tags: []string{"noun"}},
	{Word: "color", Score: 85, Syllables: 2, Tags: []string{"noun"}},
	{Word: "valor", Score: 80, Syllables: 2, Tags: []string{"noun"}},
}

// OfflineSamples returns the subset of the sample set whose text overlaps the
// query word in either direction of substring containment.
func OfflineSamples(word string) []model.Rhyme {
	w := strings.ToLower(word)
	out := make([]model.Rhyme, 0, len(offlineSamples))
	for _, s := range offlineSamples {
		sw := strings.ToLower(s.Word)
		if strings.Contains(sw, w) || strings.Contains(w, sw) {
			out = append(out, s)
		}
	}
	return out
}
