package catalog

import (
	"context"
	"log"
	"pos-dashboard-sync/internal/model"
)

type ItemInfo struct {
	Name        string
	CategoryIDs []string
}

type VariationInfo struct {
	Name   string
	ItemID string
}

// Mapping is an immutable snapshot of the provider catalog, built once per
// sync run or webhook delivery and passed by value into the upsert engine.
// It is never mutated after BuildMapping returns.
type Mapping struct {
	Items      map[string]ItemInfo
	Variations map[string]VariationInfo
	Categories map[string]string // category id → name
}

func EmptyMapping() Mapping {
	return Mapping{
		Items:      map[string]ItemInfo{},
		Variations: map[string]VariationInfo{},
		Categories: map[string]string{},
	}
}

// Resolution is the catalog lookup result for one line item.
type Resolution struct {
	ItemID       string
	ItemName     string
	CategoryID   string
	CategoryName string
}

// Resolve walks variation → parent item → primary category. An item may carry
// several category ids; index 0 is primary, deterministically.
func (m Mapping) Resolve(variationID string) (Resolution, bool) {
	variation, ok := m.Variations[variationID]
	if !ok {
		return Resolution{}, false
	}
	res := Resolution{ItemID: variation.ItemID}
	item, ok := m.Items[variation.ItemID]
	if !ok {
		return Resolution{}, false
	}
	res.ItemName = item.Name
	if len(item.CategoryIDs) > 0 {
		res.CategoryID = item.CategoryIDs[0]
		res.CategoryName = m.Categories[res.CategoryID]
	}
	return res, true
}

type catalogLister interface {
	ListCatalog(ctx context.Context, cursor string) (*model.CatalogPage, error)
}

// BuildMapping pulls the full catalog listing, following the cursor until
// exhausted. On a fetch failure it returns whatever was accumulated so far;
// downstream resolution then falls back to name-based inference.
func BuildMapping(ctx context.Context, client catalogLister) Mapping {
	mapping := EmptyMapping()
	cursor := ""
	for {
		page, err := client.ListCatalog(ctx, cursor)
		if err != nil {
			log.Printf("catalog pull failed, continuing degraded with %d items mapped: %v", len(mapping.Items), err)
			return mapping
		}
		for _, obj := range page.Objects {
			switch obj.Type {
			case "ITEM":
				if obj.ItemData != nil {
					mapping.Items[obj.ID] = ItemInfo{Name: obj.ItemData.Name, CategoryIDs: obj.ItemData.CategoryIDs}
				}
			case "ITEM_VARIATION":
				if obj.VariationData != nil {
					mapping.Variations[obj.ID] = VariationInfo{Name: obj.VariationData.Name, ItemID: obj.VariationData.ItemID}
				}
			case "CATEGORY":
				if obj.CategoryData != nil {
					mapping.Categories[obj.ID] = obj.CategoryData.Name
				}
			}
		}
		if page.Cursor == "" {
			return mapping
		}
		cursor = page.Cursor
	}
}
