//go:build integration || !unit

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	server "onsen_map/internal/adapters/http_server"
	"onsen_map/internal/adapters/microcms"
	"onsen_map/internal/adapters/observability"
	"onsen_map/internal/app"
	"onsen_map/internal/domain"
)

// ---------- fake microCMS ----------

const testKey = "e2e-secret"

type fakeCMS struct {
	records []map[string]any
	down    bool
}

func (f *fakeCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-MICROCMS-API-KEY") != testKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.down {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/ryokan":
		contents := f.records
		if flt := r.URL.Query().Get("filters"); strings.HasPrefix(flt, "slug[equals]") {
			contents = nil
			for _, rec := range f.records {
				if rec["slug"] == strings.TrimPrefix(flt, "slug[equals]") {
					contents = append(contents, rec)
				}
			}
		}
		if contents == nil {
			contents = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"contents": contents, "totalCount": len(contents), "offset": 0, "limit": 100,
		})
	case strings.HasPrefix(r.URL.Path, "/ryokan/"):
		id := strings.TrimPrefix(r.URL.Path, "/ryokan/")
		for _, rec := range f.records {
			if rec["id"] == id {
				_ = json.NewEncoder(w).Encode(rec)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Content is not found."}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func startStack(t *testing.T, cms *fakeCMS) *httptest.Server {
	return startStackWithLogger(t, cms, zerolog.Nop())
}

func startStackWithLogger(t *testing.T, cms *fakeCMS, l zerolog.Logger) *httptest.Server {
	t.Helper()
	cmsSrv := httptest.NewServer(cms)
	t.Cleanup(cmsSrv.Close)

	client := microcms.New("e2e", testKey, microcms.WithBaseURL(cmsSrv.URL), microcms.WithTimeout(2*time.Second))
	srv := server.New(l, 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{P: app.NewPageService(client, 100)})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func records() []map[string]any {
	return []map[string]any{
		{
			"id": "r1", "slug": "matsunoya", "name": "松乃屋",
			"onsenArea":   map[string]any{"name": "別所温泉"},
			"description": "北向観音の参道沿い",
			"address":     "長野県上田市別所温泉1",
			"phone":       "0268-38-0000",
			"heroImage":   map[string]any{"url": "https://images.example/hero.jpg", "width": 1200, "height": 800},
			"openAirBath": true, "privateBath": true, "onsenRoom": true, "dayUse": true,
			"latitude": 36.353, "longitude": 138.16,
		},
		{
			"id": "r2", "slug": "takenoyu", "name": "竹の湯",
			"onsenArea":   map[string]any{"name": "鹿教湯温泉"},
			"cover":       map[string]any{"url": "https://images.example/cover.jpg", "width": 800, "height": 600},
			"dogFriendly": true,
			"latitude":    36.28, "longitude": 138.09,
		},
	}
}

// ---------- the tests ----------

func TestHTTP_EndToEnd_Home(t *testing.T) {
	ts := startStack(t, &fakeCMS{records: records()})

	res, err := http.Get(ts.URL + "/api/ryokans")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Ryokans     []domain.Ryokan  `json:"ryokans"`
		Items       []domain.MapItem `json:"items"`
		ResultCount int              `json:"resultCount"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ResultCount != 2 || len(body.Items) != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}

	first := body.Items[0]
	if first.Image != "https://images.example/hero.jpg" || first.Pos != [2]float64{36.353, 138.16} {
		t.Fatalf("unexpected first item: %+v", first)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(first.Details))
	if err != nil {
		t.Fatalf("parse details: %v", err)
	}
	if got := doc.Find(".facilities").Text(); got != "露天風呂 • 貸切風呂 • 温泉付き客室" {
		t.Fatalf("facilities = %q", got)
	}
	if doc.Find(".phone").Length() != 1 {
		t.Fatalf("phone should be rendered")
	}

	second := body.Items[1]
	if second.Image != "https://images.example/cover.jpg" {
		t.Fatalf("cover fallback = %q", second.Image)
	}
	if body.Ryokans[1].Address != nil || body.Ryokans[1].Phone != nil {
		t.Fatalf("absent fields should stay absent: %+v", body.Ryokans[1])
	}
}

func TestHTTP_EndToEnd_RyokanAndSlug(t *testing.T) {
	ts := startStack(t, &fakeCMS{records: records()})

	get := func(path string) *domain.Ryokan {
		t.Helper()
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, res.StatusCode)
		}
		var body struct {
			Ryokan *domain.Ryokan `json:"ryokan"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body.Ryokan
	}

	if r := get("/api/ryokans/r2"); r == nil || r.Name != "竹の湯" || !r.DogFriendly {
		t.Fatalf("by id: %+v", r)
	}
	if r := get("/api/ryokans/missing"); r != nil {
		t.Fatalf("404 from CMS should render null, got %+v", r)
	}
	if r := get("/api/ryokans/slug/matsunoya"); r == nil || r.ID != "r1" {
		t.Fatalf("by slug: %+v", r)
	}
	if r := get("/api/ryokans/slug/none"); r != nil {
		t.Fatalf("unknown slug should render null, got %+v", r)
	}
}

func TestHTTP_EndToEnd_CMSDown(t *testing.T) {
	ts := startStack(t, &fakeCMS{records: records(), down: true})

	res, err := http.Get(ts.URL + "/api/ryokans")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("page must still render, status %d", res.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fmt.Sprint(body["resultCount"]) != "0" {
		t.Fatalf("expected empty result, got %v", body)
	}

	m, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer m.Body.Close()
	out, _ := io.ReadAll(m.Body)
	if !strings.Contains(string(out), `onsen_loader_fallbacks_total{loader="home"}`) {
		t.Fatalf("fallback metric missing")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHTTP_EndToEnd_APIKeyNeverExposed(t *testing.T) {
	logs := &lockedBuffer{}
	l := zerolog.New(logs).Level(zerolog.DebugLevel)
	prev := log.Logger
	log.Logger = l
	t.Cleanup(func() { log.Logger = prev })

	paths := []string{
		"/api/ryokans",
		"/api/ryokans?draftKey=dk&facilities=openAirBath",
		"/api/ryokans/r1",
		"/api/ryokans/missing",
		"/api/ryokans/slug/matsunoya",
		"/api/map-items?layer=ryokan",
	}
	for _, down := range []bool{false, true} {
		ts := startStackWithLogger(t, &fakeCMS{records: records(), down: down}, l)
		for _, p := range paths {
			res, err := http.Get(ts.URL + p)
			if err != nil {
				t.Fatalf("GET %s: %v", p, err)
			}
			body, _ := io.ReadAll(res.Body)
			res.Body.Close()
			if res.StatusCode != http.StatusOK {
				t.Fatalf("down=%v %s: status %d", down, p, res.StatusCode)
			}
			if strings.Contains(string(body), testKey) {
				t.Fatalf("down=%v %s: key in body", down, p)
			}
			for name, vals := range res.Header {
				for _, v := range vals {
					if strings.Contains(v, testKey) {
						t.Fatalf("down=%v %s: key in header %s", down, p, name)
					}
				}
			}
		}
	}
	if out := logs.String(); out == "" || strings.Contains(out, testKey) {
		t.Fatalf("logs must be written and must not contain the key: %q", out)
	}
}
