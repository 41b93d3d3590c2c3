package service

import "testing"

func TestStemSimilarityIdentical(t *testing.T) {
	if sim := StemSimilarity("素质教育的核心是什么", "素质教育的核心是什么"); sim != 1 {
		t.Errorf("identical stems similarity = %v", sim)
	}
}

func TestStemSimilarityIgnoresPunctuationAndSpace(t *testing.T) {
	a := "教师职业道德的核心是爱岗敬业。（）"
	b := "教师职业道德的核心是 爱岗敬业"
	if sim := StemSimilarity(a, b); sim != 1 {
		t.Errorf("punctuation/space variants similarity = %v, want 1", sim)
	}
}

func TestStemSimilarityNearDuplicate(t *testing.T) {
	a := "我国义务教育的年限是九年"
	b := "我国义务教育的年限是几年"
	sim := StemSimilarity(a, b)
	if sim < 0.9 {
		t.Errorf("one-char difference similarity = %v, want >= 0.9", sim)
	}
	if sim >= 1 {
		t.Errorf("different stems should not score 1, got %v", sim)
	}
}

func TestStemSimilarityUnrelated(t *testing.T) {
	a := "素质教育的核心是什么"
	b := "下列哪项属于我国基本教学原则"
	if sim := StemSimilarity(a, b); sim > 0.5 {
		t.Errorf("unrelated stems similarity = %v, want <= 0.5", sim)
	}
}

func TestStemSimilarityEmpty(t *testing.T) {
	if sim := StemSimilarity("", ""); sim != 1 {
		t.Errorf("two empty stems similarity = %v", sim)
	}
	if sim := StemSimilarity("题干", ""); sim != 0 {
		t.Errorf("empty vs non-empty similarity = %v", sim)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"判断题", "判断提", 1},
	}
	for _, tc := range cases {
		if got := levenshtein([]rune(tc.a), []rune(tc.b)); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
