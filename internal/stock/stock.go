package stock

import (
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/store"
)

// Level is the derived stock of one catalog product
type Level struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Stock     int64  `json:"stock"`
}

// ValidType reports whether t is an accepted summary filter, the empty
// string meaning both product types.
func ValidType(t string) bool {
	return t == "" || t == domain.ProductRam || t == domain.ProductBean
}

// Key identifies a ledger stream
func Key(productType, productID string) string {
	return productType + ":" + productID
}

// Summarize folds the movement ledger over the catalog. Every product of
// the selected type is listed, rams first, starting at zero. Movements for
// products missing from the catalog are ignored.
func Summarize(rams, beans, movements []store.Document, productType string) []Level {
	levels := make([]*Level, 0, len(rams)+len(beans))
	index := make(map[string]*Level)
	add := func(docs []store.Document, t string) {
		for _, p := range docs {
			l := &Level{ProductID: p.ID(), Name: cast.ToString(p["name"]), Type: t}
			levels = append(levels, l)
			index[Key(t, l.ProductID)] = l
		}
	}
	if productType != domain.ProductBean {
		add(rams, domain.ProductRam)
	}
	if productType != domain.ProductRam {
		add(beans, domain.ProductBean)
	}

	for _, m := range movements {
		l, ok := index[movementKey(m)]
		if !ok {
			continue
		}
		l.Stock += cast.ToInt64(m["quantityChange"])
	}

	return lo.Map(levels, func(l *Level, _ int) Level { return *l })
}

// Keys returns the distinct ledger keys in first-seen order
func Keys(movements []store.Document) []string {
	return lo.Uniq(lo.Map(movements, func(m store.Document, _ int) string {
		return movementKey(m)
	}))
}

func movementKey(m store.Document) string {
	return Key(cast.ToString(m["productType"]), cast.ToString(m["productId"]))
}
