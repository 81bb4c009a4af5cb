package domain

import "strings"

type MapItemType string

const (
	MapItemOnsen  MapItemType = "onsen"
	MapItemRyokan MapItemType = "ryokan"
	MapItemSpot   MapItemType = "spot"
)

// MapLayer is a MapItemType or LayerAll.
type MapLayer string

const LayerAll MapLayer = "all"

// MapItem is what the map renders as a marker plus its info card.
type MapItem struct {
	Name        string      `json:"name"`
	Pos         [2]float64  `json:"pos"` // lat, lng
	Type        MapItemType `json:"type"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
	Details     string      `json:"details"` // HTML fragment
	Image       string      `json:"image"`
}

// ParseMapLayer falls back to LayerAll for anything it does not know.
func ParseMapLayer(s string) MapLayer {
	switch l := MapLayer(strings.ToLower(strings.TrimSpace(s))); l {
	case MapLayer(MapItemOnsen), MapLayer(MapItemRyokan), MapLayer(MapItemSpot):
		return l
	default:
		return LayerAll
	}
}

func (l MapLayer) Includes(t MapItemType) bool {
	return l == LayerAll || MapLayer(t) == l
}

// FilterLayer returns the items visible on layer l, keeping their order.
func FilterLayer(items []MapItem, l MapLayer) []MapItem {
	out := make([]MapItem, 0, len(items))
	for _, it := range items {
		if l.Includes(it.Type) {
			out = append(out, it)
		}
	}
	return out
}
