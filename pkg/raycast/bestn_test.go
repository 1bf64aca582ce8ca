package raycast

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestBestNKeepsNearest(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var b BestN
	var keys []float64
	for i := range 50 {
		k := rng.Float64()
		keys = append(keys, k)
		b.Insert(k, TriPoint{TriIdx: i})
	}

	if b.Len() != MaxHits {
		t.Fatalf("Len = %d, want %d", b.Len(), MaxHits)
	}
	slices.Sort(keys)
	slices.Reverse(keys)
	for i, h := range b.Hits() {
		if h.InvDepth != keys[i] {
			t.Errorf("hit %d = %v, want %v", i, h.InvDepth, keys[i])
		}
		if i > 0 && h.InvDepth > b.At(i-1).InvDepth {
			t.Errorf("hit %d is nearer than hit %d", i, i-1)
		}
	}
}

func TestBestNStableTies(t *testing.T) {
	var b BestN
	for i := range 12 {
		b.Insert(0.5, TriPoint{TriIdx: i})
	}
	for i := range b.Len() {
		if got := b.At(i).Point.TriIdx; got != i {
			t.Errorf("tie %d holds tri %d, want %d", i, got, i)
		}
	}
}

func TestBestNInsert(t *testing.T) {
	tests := []struct {
		name    string
		keys    []float64
		want    []float64
		rejects int
	}{
		{"empty", nil, nil, 0},
		{"ascending input", []float64{1, 2, 3}, []float64{3, 2, 1}, 0},
		{"full rejects farther", []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}, []float64{9, 8, 7, 6, 5, 4, 3, 2}, 1},
		{"full rejects equal to worst", []float64{9, 8, 7, 6, 5, 4, 3, 2, 2}, []float64{9, 8, 7, 6, 5, 4, 3, 2}, 1},
		{"full evicts farthest", []float64{8, 7, 6, 5, 4, 3, 2, 1, 10}, []float64{10, 8, 7, 6, 5, 4, 3, 2}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b BestN
			rejects := 0
			for _, k := range tc.keys {
				if !b.Insert(k, TriPoint{}) {
					rejects++
				}
			}
			var got []float64
			for _, h := range b.Hits() {
				got = append(got, h.InvDepth)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("keys = %v, want %v", got, tc.want)
			}
			if rejects != tc.rejects {
				t.Errorf("rejects = %d, want %d", rejects, tc.rejects)
			}
		})
	}
}

func TestBestNBest(t *testing.T) {
	var b BestN
	if _, ok := b.Best(); ok {
		t.Error("empty BestN should have no best")
	}
	b.Insert(0.2, TriPoint{TriIdx: 1})
	b.Insert(0.7, TriPoint{TriIdx: 2})
	h, ok := b.Best()
	if !ok || h.Point.TriIdx != 2 {
		t.Errorf("Best = %+v, %v", h, ok)
	}
	b.Reset()
	if b.Len() != 0 {
		t.Error("Reset should empty the collection")
	}
}
