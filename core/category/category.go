// Package category defines the closed set of cargo categories.
//
// Tariff lookups are total over this type: any string normalizes to a
// member, with General as the guaranteed fallback.
package category

import (
	"context"
	"strings"
)

// Category is a cargo category key
type Category string

const (
	General     Category = "general"
	Shoes       Category = "obuv"
	Clothing    Category = "odezhda"
	Bags        Category = "sumki"
	Furniture   Category = "mebel"
	Electronics Category = "elektronika"
	Phones      Category = "telefony"
	Household   Category = "tovary_dlja_doma"
	Toys        Category = "igrushki"
	AutoParts   Category = "avtozapchasti"
	Plumbing    Category = "santehnika"
	Equipment   Category = "oborudovanie"
	Building    Category = "strojmaterialy"
	PetSupplies Category = "tovary_dlja_zhivotnyh"
)

// All lists every category
var All = []Category{
	General, Shoes, Clothing, Bags, Furniture, Electronics, Phones,
	Household, Toys, AutoParts, Plumbing, Equipment, Building, PetSupplies,
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// Normalize maps an arbitrary key onto the closed set. Unknown keys and
// the legacy "obshhie" alias map to General, so the mapping never fails.
func Normalize(key string) Category {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" || k == "obshhie" {
		return General
	}
	for _, c := range All {
		if string(c) == k {
			return c
		}
	}
	return General
}

// Classifier resolves free text to a category key. Implementations wrap
// the external classifier service; the engine only consumes the key.
type Classifier interface {
	Classify(ctx context.Context, productText string) (Category, error)
}

// keywords drive the built-in matcher used when no classifier is
// configured or the classifier call fails
var keywords = map[Category][]string{
	Shoes:       {"shoe", "boot", "sneaker", "обувь", "кроссовк", "ботин", "туфл"},
	Clothing:    {"cloth", "shirt", "dress", "jacket", "одежд", "куртк", "плать", "футбол"},
	Bags:        {"bag", "backpack", "сумк", "рюкзак", "чемодан"},
	Furniture:   {"furniture", "sofa", "chair", "table", "мебель", "диван", "стол", "стул", "шкаф"},
	Electronics: {"electronic", "laptop", "tv", "техник", "электроник", "ноутбук", "телевизор"},
	Phones:      {"phone", "smartphone", "телефон", "смартфон"},
	Household:   {"household", "kitchen", "посуд", "для дома", "кухон"},
	Toys:        {"toy", "игрушк", "конструктор"},
	AutoParts:   {"auto part", "запчаст", "автозапчаст", "бампер"},
	Plumbing:    {"plumbing", "faucet", "сантехник", "смесител", "унитаз"},
	Equipment:   {"equipment", "machine", "оборудован", "станок"},
	Building:    {"building", "стройматериал", "плитк", "ламинат", "краск"},
	PetSupplies: {"pet", "животн", "корм"},
}

// Match finds a category for free text by keyword search, falling back
// to General
func Match(text string) Category {
	t := strings.ToLower(text)
	for _, c := range All {
		for _, kw := range keywords[c] {
			if strings.Contains(t, kw) {
				return c
			}
		}
	}
	return General
}

// KeywordClassifier is the built-in classifier backed by Match
type KeywordClassifier struct{}

// Classify implements Classifier
func (KeywordClassifier) Classify(_ context.Context, productText string) (Category, error) {
	return Match(productText), nil
}

// Resolve runs the classifier and degrades to the keyword matcher on
// error or when no classifier is configured. It never fails.
func Resolve(ctx context.Context, classifier Classifier, productText string) Category {
	if classifier == nil {
		return Match(productText)
	}
	cat, err := classifier.Classify(ctx, productText)
	if err != nil {
		return Match(productText)
	}
	return Normalize(string(cat))
}
