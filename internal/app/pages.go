package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"onsen_map/internal/adapters/observability"
	"onsen_map/internal/domain"
)

// HomeFields is the projection requested for the map page.
var HomeFields = []string{
	"id", "name", "slug", "latitude", "longitude", "onsenArea", "description",
	"heroImage", "cover", "address", "phone", "price",
	"openAirBath", "privateBath", "onsenRoom", "dayUse", "tattooFriendly", "dogFriendly",
	"morningOnlyPlan", "sleepOnlyPlan", "elevator", "barrierFree", "barrierFreeWashroom",
	"karaoke", "pingPong", "bed",
}

// PageService loads the data each page needs. It is the boundary where
// content errors stop: failures are logged and replaced by empty results so a
// CMS outage never breaks page rendering.
type PageService struct {
	content   domain.ContentClient
	homeLimit int
}

func NewPageService(c domain.ContentClient, homeLimit int) *PageService {
	if homeLimit <= 0 || homeLimit > 100 {
		homeLimit = 100
	}
	return &PageService{content: c, homeLimit: homeLimit}
}

type HomeRequest struct {
	DraftKey string
	Query    string
	Filters  domain.RyokanFilters
}

type HomeData struct {
	Ryokans     []domain.Ryokan  `json:"ryokans"`
	Items       []domain.MapItem `json:"items"`
	ResultCount int              `json:"resultCount"`
}

func emptyHome() HomeData {
	return HomeData{Ryokans: []domain.Ryokan{}, Items: []domain.MapItem{}}
}

func (s *PageService) LoadHome(ctx context.Context, req HomeRequest) HomeData {
	page, err := s.content.ListRyokans(ctx, domain.ListQuery{
		Limit:    s.homeLimit,
		Q:        req.Query,
		Fields:   HomeFields,
		Filters:  req.Filters.Expression(),
		DraftKey: req.DraftKey,
	})
	if err != nil {
		log.Error().Err(err).Bool("draft", req.DraftKey != "").Msg("failed to fetch ryokans for home page")
		observability.ObserveFallback("home")
		return emptyHome()
	}

	out := emptyHome()
	for _, r := range page.Contents {
		if req.Filters.IsZero() || req.Filters.Matches(r) {
			out.Ryokans = append(out.Ryokans, r)
		}
	}
	out.Items = toMapItems(out.Ryokans)
	out.ResultCount = len(out.Ryokans)
	return out
}

// LoadRyokan returns nil when the record cannot be fetched, including 404.
func (s *PageService) LoadRyokan(ctx context.Context, id, draftKey string) *domain.Ryokan {
	r, err := s.content.GetRyokan(ctx, id, domain.GetQuery{DraftKey: draftKey})
	if err != nil {
		log.Error().Err(err).Str("id", id).Bool("draft", draftKey != "").Msg("failed to fetch ryokan")
		observability.ObserveFallback("ryokan")
		return nil
	}
	return &r
}

func (s *PageService) LoadRyokanBySlug(ctx context.Context, slug, draftKey string) *domain.Ryokan {
	r, err := s.content.GetRyokanBySlug(ctx, slug, draftKey)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Bool("draft", draftKey != "").Msg("failed to fetch ryokan by slug")
		observability.ObserveFallback("ryokan_slug")
		return nil
	}
	return r
}

// LoadMapItems returns the home items visible on layer.
func (s *PageService) LoadMapItems(ctx context.Context, layer domain.MapLayer, draftKey string) []domain.MapItem {
	home := s.LoadHome(ctx, HomeRequest{DraftKey: draftKey})
	return domain.FilterLayer(home.Items, layer)
}
