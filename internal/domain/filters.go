package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// FilterEquals builds a microCMS equality predicate, e.g. slug[equals]yumoto.
func FilterEquals(field, value string) string {
	return field + "[equals]" + value
}

// FilterAnd joins non-empty predicates with [and].
func FilterAnd(exprs ...string) string {
	out := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return strings.Join(out, "[and]")
}

type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RyokanFilters is the filter bar state of the ryokan list.
type RyokanFilters struct {
	PriceRange         *PriceRange `json:"priceRange"`
	Facilities         []string    `json:"facilities"`
	Dining             []string    `json:"dining"`
	HasLanguageService bool        `json:"hasLanguageService"`
	TattooFriendly     bool        `json:"tattooFriendly"`
	DailyUse           bool        `json:"dailyUse"`
}

var facilityFlags = map[string]func(Ryokan) bool{
	"openAirBath":         func(r Ryokan) bool { return r.OpenAirBath },
	"privateBath":         func(r Ryokan) bool { return r.PrivateBath },
	"onsenRoom":           func(r Ryokan) bool { return r.OnsenRoom },
	"bed":                 func(r Ryokan) bool { return r.Bed },
	"dogFriendly":         func(r Ryokan) bool { return r.DogFriendly },
	"elevator":            func(r Ryokan) bool { return r.Elevator },
	"barrierFree":         func(r Ryokan) bool { return r.BarrierFree },
	"barrierFreeWashroom": func(r Ryokan) bool { return r.BarrierFreeWashroom },
	"karaoke":             func(r Ryokan) bool { return r.Karaoke },
	"pingPong":            func(r Ryokan) bool { return r.PingPong },
}

var diningFlags = map[string]func(Ryokan) bool{
	"morningOnly": func(r Ryokan) bool { return r.MorningOnlyPlan },
	"sleepOnly":   func(r Ryokan) bool { return r.SleepOnlyPlan },
}

// IsZero reports whether no filter is selected.
func (f RyokanFilters) IsZero() bool {
	return f.PriceRange == nil && len(f.Facilities) == 0 && len(f.Dining) == 0 &&
		!f.HasLanguageService && !f.TattooFriendly && !f.DailyUse
}

// Matches reports whether r satisfies every selected filter.
// Unknown facility or dining tags never match. HasLanguageService is not
// backed by any CMS field and is ignored.
func (f RyokanFilters) Matches(r Ryokan) bool {
	if f.TattooFriendly && !r.TattooFriendly {
		return false
	}
	if f.DailyUse && !r.DayUse {
		return false
	}
	for _, tag := range f.Facilities {
		if has, ok := facilityFlags[tag]; !ok || !has(r) {
			return false
		}
	}
	for _, tag := range f.Dining {
		if has, ok := diningFlags[tag]; !ok || !has(r) {
			return false
		}
	}
	if f.PriceRange != nil {
		p, ok := ParsePrice(r.Price)
		if !ok || p < f.PriceRange.Min || (f.PriceRange.Max > 0 && p > f.PriceRange.Max) {
			return false
		}
	}
	return true
}

// Expression renders the boolean part of the filters as a microCMS filter
// expression so the service can narrow the list before it is returned.
// Price and tag lists are only checked by Matches.
func (f RyokanFilters) Expression() string {
	var parts []string
	if f.TattooFriendly {
		parts = append(parts, FilterEquals("tattooFriendly", "true"))
	}
	if f.DailyUse {
		parts = append(parts, FilterEquals("dayUse", "true"))
	}
	return FilterAnd(parts...)
}

var (
	yenRe   = regexp.MustCompile(`([0-9][0-9,]*)\s*円`)
	digitRe = regexp.MustCompile(`[0-9][0-9,]*`)
)

// ParsePrice reads the amount out of a free-text price like "1泊2食付 15,000円〜".
// The number attached to 円 wins; without one the largest number is used, so
// night and meal counts never stand in for the price.
func ParsePrice(p *string) (int, bool) {
	if p == nil {
		return 0, false
	}
	if m := yenRe.FindStringSubmatch(*p); m != nil {
		return atoiAmount(m[1])
	}
	best, found := 0, false
	for _, m := range digitRe.FindAllString(*p, -1) {
		if n, ok := atoiAmount(m); ok && (!found || n > best) {
			best, found = n, true
		}
	}
	return best, found
}

func atoiAmount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidFilterValue reports whether v can be embedded in a filter expression
// without changing its structure.
func ValidFilterValue(v string) bool {
	return !strings.ContainsAny(v, "[]")
}
