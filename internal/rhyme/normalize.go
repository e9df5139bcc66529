package rhyme

import (
	"sort"
	"strings"

	"github.com/avillega/rimario/internal/model"
)

// flagTags maps provider flag codes to internal tags. Membership is a
// substring test, so a flags value of "adv" yields both adverb and verb;
// unmatched characters are ignored.
var flagTags = []struct {
	code string
	tag  string
}{
	{"n", "noun"},
	{"v", "verb"},
	{"adj", "adjective"},
	{"adv", "adverb"},
	{"u", "uncommon"},
	{"c", "common"},
}

func parseFlags(flags string) []string {
	tags := []string{}
	for _, ft := range flagTags {
		if strings.Contains(flags, ft.code) {
			tags = append(tags, ft.tag)
		}
	}
	return tags
}

// normalize converts provider records into rhyme results, discarding records
// below minScore. Syllable counts are carried only when withSyllables is set.
func normalize(recs []record, minScore int, withSyllables bool) []model.Rhyme {
	out := make([]model.Rhyme, 0, len(recs))
	for _, r := range recs {
		if r.Score < minScore {
			continue
		}
		rh := model.Rhyme{
			Word:  r.Word,
			Score: r.Score,
			Tags:  parseFlags(r.Flags),
		}
		if withSyllables {
			rh.Syllables = r.Syllables
		}
		out = append(out, rh)
	}
	return out
}

// postprocess deduplicates by word keeping the first occurrence, applies the
// score floor, sorts descending by score and truncates to f.MaxResults.
func postprocess(rhymes []model.Rhyme, f model.SearchFilters) []model.Rhyme {
	seen := make(map[string]struct{}, len(rhymes))
	out := make([]model.Rhyme, 0, len(rhymes))
	for _, r := range rhymes {
		if _, dup := seen[r.Word]; dup {
			continue
		}
		seen[r.Word] = struct{}{}
		if r.Score < f.MinScore {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if f.MaxResults > 0 && len(out) > f.MaxResults {
		out = out[:f.MaxResults]
	}
	return out
}
