package domain

import "testing"

func TestScore(t *testing.T) {
	qs := []Question{
		{ID: "a", CorrectIndex: 1},
		{ID: "b", CorrectIndex: 2},
		{ID: "c", CorrectIndex: 3},
	}

	cases := []struct {
		name    string
		answers map[string]int
		want    int
	}{
		{"nil answers", nil, 0},
		{"all correct", map[string]int{"a": 1, "b": 2, "c": 3}, 3},
		{"one wrong", map[string]int{"a": 1, "b": 3, "c": 3}, 2},
		{"unknown ids ignored", map[string]int{"x": 1, "a": 1}, 1},
		{"out of range choice", map[string]int{"a": 9}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(qs, tc.answers); got != tc.want {
				t.Fatalf("Score = %d, want %d", got, tc.want)
			}
		})
	}
}
