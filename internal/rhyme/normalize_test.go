package rhyme

import (
	"reflect"
	"testing"

	"github.com/avillega/rimario/internal/model"
)

func TestParseFlags(t *testing.T) {
	cases := []struct {
		flags string
		want  []string
	}{
		{"", []string{}},
		{"n", []string{"noun"}},
		{"nv", []string{"noun", "verb"}},
		{"adj", []string{"adjective"}},
		// substring matching means "adv" also carries the verb code
		{"adv", []string{"verb", "adverb"}},
		{"uc", []string{"uncommon", "common"}},
		{"x", []string{}},
	}
	for _, tc := range cases {
		if got := parseFlags(tc.flags); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseFlags(%q) = %v, want %v", tc.flags, got, tc.want)
		}
	}
}

func TestNormalize_ScoreFloor(t *testing.T) {
	recs := []record{
		{Word: "a", Score: 100},
		{Word: "b", Score: 99},
	}
	got := normalize(recs, 100, true)
	if len(got) != 1 || got[0].Word != "a" {
		t.Fatalf("normalize kept %v", got)
	}
}

func TestNormalize_SyllableToggle(t *testing.T) {
	recs := []record{{Word: "luna", Score: 100, Syllables: 2}}

	got := normalize(recs, 0, true)
	if got[0].Syllables != 2 {
		t.Fatalf("syllable count lost: %+v", got[0])
	}

	got = normalize(recs, 0, false)
	if got[0].Syllables != 0 {
		t.Fatalf("syllable count carried although disabled: %+v", got[0])
	}
}

func TestPostprocess(t *testing.T) {
	in := []model.Rhyme{
		{Word: "dup", Score: 90},
		{Word: "low", Score: 10},
		{Word: "dup", Score: 95}, // later duplicate loses even with a higher score
		{Word: "top", Score: 99},
		{Word: "mid", Score: 50},
	}
	got := postprocess(in, model.SearchFilters{MaxResults: 3, MinScore: 20})

	want := []string{"top", "dup", "mid"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Word != w {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Word, w)
		}
	}
	if got[1].Score != 90 {
		t.Errorf("duplicate kept score %d, want first occurrence 90", got[1].Score)
	}
}

func TestOfflineSamples(t *testing.T) {
	if got := OfflineSamples("AMOR"); len(got) != 1 || got[0].Word != "amor" {
		t.Fatalf("case-insensitive match failed: %v", got)
	}
	// short query contained by every sample
	if got := OfflineSamples("or"); len(got) != len(offlineSamples) {
		t.Fatalf("want full sample set, got %v", got)
	}
	if got := OfflineSamples("xyz"); len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}
