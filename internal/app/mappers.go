package app

import (
	"html/template"
	"strings"

	"github.com/rs/zerolog/log"

	"onsen_map/internal/domain"
)

const (
	ryokanIcon       = "🏮"
	maxFacilityLabel = 3
	facilitySep      = " • "
)

// facilityLabels is in display priority order.
var facilityLabels = []struct {
	label string
	has   func(domain.Ryokan) bool
}{
	{"露天風呂", func(r domain.Ryokan) bool { return r.OpenAirBath }},
	{"貸切風呂", func(r domain.Ryokan) bool { return r.PrivateBath }},
	{"温泉付き客室", func(r domain.Ryokan) bool { return r.OnsenRoom }},
	{"日帰り入浴", func(r domain.Ryokan) bool { return r.DayUse }},
	{"タトゥーOK", func(r domain.Ryokan) bool { return r.TattooFriendly }},
	{"ペットOK", func(r domain.Ryokan) bool { return r.DogFriendly }},
}

var detailsTmpl = template.Must(template.New("details").Parse(
	`<div class="onsen-area">♨️ {{.Area}}</div>` +
		`<div class="facilities">{{.Facilities}}</div>` +
		`<div class="contact">` +
		`<div class="address">📍 {{.Address}}</div>` +
		`{{if .Phone}}<div class="phone">📞 {{.Phone}}</div>{{end}}` +
		`</div>`))

type detailsData struct {
	Area       string
	Facilities string
	Address    string
	Phone      string
}

// keyFacilities returns up to three facility labels, highest priority first.
func keyFacilities(r domain.Ryokan) []string {
	out := make([]string, 0, maxFacilityLabel)
	for _, f := range facilityLabels {
		if len(out) == maxFacilityLabel {
			break
		}
		if f.has(r) {
			out = append(out, f.label)
		}
	}
	return out
}

func displayImage(r domain.Ryokan) string {
	if r.HeroImage != nil && r.HeroImage.URL != "" {
		return r.HeroImage.URL
	}
	if r.Cover != nil && r.Cover.URL != "" {
		return r.Cover.URL
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ToMapItem projects a ryokan into the marker/info-card model. It has no side
// effects: the same record always yields the same item.
func ToMapItem(r domain.Ryokan) domain.MapItem {
	var b strings.Builder
	if err := detailsTmpl.Execute(&b, detailsData{
		Area:       r.OnsenArea.Name,
		Facilities: strings.Join(keyFacilities(r), facilitySep),
		Address:    deref(r.Address),
		Phone:      deref(r.Phone),
	}); err != nil {
		log.Error().Err(err).Str("context", "ToMapItem").Str("id", r.ID).Msg("render details failed")
		b.Reset()
	}

	return domain.MapItem{
		Name:        r.Name,
		Pos:         [2]float64{r.Latitude, r.Longitude},
		Type:        domain.MapItemRyokan,
		Icon:        ryokanIcon,
		Description: r.Description,
		Details:     b.String(),
		Image:       displayImage(r),
	}
}

func toMapItems(rs []domain.Ryokan) []domain.MapItem {
	out := make([]domain.MapItem, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToMapItem(r))
	}
	return out
}
