package app

import (
	"context"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/store"
)

// checkSettings fills settings fields that were never set from the farm
// defaults in the configuration. Existing values are kept.
func (a *Application) checkSettings() {
	ctx := context.Background()
	current, err := a.store.Settings(ctx)
	if err != nil {
		zap.L().Error("failed to query settings", zap.String("namespace", "store"), zap.Error(err))
		return
	}

	farm := a.appConfig.Farm
	defaults := map[string]string{
		"contactPhone":   farm.ContactPhone,
		"contactEmail":   farm.ContactEmail,
		"location":       farm.Location,
		"whatsappNumber": farm.WhatsappNumber,
	}
	patch := store.Document{}
	for key, def := range defaults {
		if def != "" && cast.ToString(current[key]) == "" {
			patch[key] = def
		}
	}
	if len(patch) == 0 {
		return
	}
	if _, err := a.store.SaveSettings(ctx, patch); err != nil {
		zap.L().Error("failed to initialize settings", zap.String("namespace", "store"), zap.Error(err))
		return
	}
	for key, val := range patch {
		zap.L().Info("initialized setting",
			zap.String("key", key),
			zap.String("default", cast.ToString(val)))
	}
}

type catalogSeed struct {
	coll domain.Collection
	doc  store.Document
}

var demoCatalog = []catalogSeed{
	{domain.Rams, store.Document{
		"name":        "Dorper Ram A",
		"description": "Strong genetics, 2 years old.",
		"breed":       "Dorper",
		"price":       8000.0,
		"status":      "available",
	}},
	{domain.Rams, store.Document{
		"name":        "Dorper Ram B",
		"description": "Healthy, well-conditioned.",
		"breed":       "Dorper",
		"price":       7800.0,
		"status":      "available",
	}},
	{domain.Beans, store.Document{
		"name":        "Pinto Beans - 50kg",
		"description": "Fresh harvest.",
		"variety":     "Pinto",
		"pricePerKg":  18.0,
		"status":      "available",
	}},
	{domain.Beans, store.Document{
		"name":        "Red Kidney Beans - 50kg",
		"description": "Premium quality.",
		"variety":     "Red Kidney",
		"pricePerKg":  19.0,
		"status":      "available",
	}},
}

// SeedCatalog inserts the demo products whose name is not in the catalog yet
func (a *Application) SeedCatalog() {
	ctx := context.Background()
	existing := map[domain.Collection]map[string]bool{}
	for _, seed := range demoCatalog {
		names, ok := existing[seed.coll]
		if !ok {
			docs, err := a.store.List(ctx, seed.coll, 0)
			if err != nil {
				zap.L().Error("failed to query catalog", zap.String("collection", string(seed.coll)), zap.Error(err))
				return
			}
			names = map[string]bool{}
			for _, d := range docs {
				names[cast.ToString(d["name"])] = true
			}
			existing[seed.coll] = names
		}

		name := cast.ToString(seed.doc["name"])
		if names[name] {
			continue
		}
		if _, err := a.store.Insert(ctx, seed.coll, seed.doc); err != nil {
			zap.L().Error("failed to create demo product", zap.String("name", name), zap.Error(err))
			continue
		}
		names[name] = true
		zap.L().Info("initialized demo product", zap.String("name", name))
	}
}
