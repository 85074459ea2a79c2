// Package category - Classification tests
package category

import (
	"context"
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		key  string
		want Category
	}{
		{"obuv", Shoes},
		{"  MEBEL  ", Furniture},
		{"obshhie", General},
		{"", General},
		{"something unknown", General},
	}
	for _, tc := range cases {
		if got := Normalize(tc.key); got != tc.want {
			t.Errorf("Normalize(%q): expected %s, got %s", tc.key, tc.want, got)
		}
	}
}

func TestMatch(t *testing.T) {
	cases := []struct {
		text string
		want Category
	}{
		{"winter jackets", Clothing},
		{"Кроссовки Nike", Shoes},
		{"iphone 15 смартфон", Phones},
		{"диван угловой", Furniture},
		{"something entirely novel", General},
	}
	for _, tc := range cases {
		if got := Match(tc.text); got != tc.want {
			t.Errorf("Match(%q): expected %s, got %s", tc.text, tc.want, got)
		}
	}
}

// failingClassifier simulates an unreachable external classifier
type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string) (Category, error) {
	return "", errors.New("unreachable")
}

func TestResolveDegradesToKeywords(t *testing.T) {
	if got := Resolve(context.Background(), failingClassifier{}, "winter jackets"); got != Clothing {
		t.Errorf("Expected the keyword fallback to classify clothing, got %s", got)
	}
	if got := Resolve(context.Background(), nil, "winter jackets"); got != Clothing {
		t.Errorf("Expected the nil-classifier fallback to classify clothing, got %s", got)
	}
}

// aliasClassifier returns a key outside the closed set
type aliasClassifier struct{}

func (aliasClassifier) Classify(context.Context, string) (Category, error) {
	return "OBUV", nil
}

func TestResolveNormalizesClassifierOutput(t *testing.T) {
	if got := Resolve(context.Background(), aliasClassifier{}, "whatever"); got != Shoes {
		t.Errorf("Expected classifier output to be normalized to obuv, got %s", got)
	}
}
