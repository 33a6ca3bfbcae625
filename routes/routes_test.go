package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"storefront/catalog"
	"storefront/controllers"
	"storefront/models"
	"storefront/objectstore"
	"storefront/payment"
	"storefront/store"
	"storefront/utils"
)

const testSecret = "test-secret"

var testNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fakeStore struct {
	docs    []models.Document
	listErr error

	tickets     []models.SupportTicket
	createErr   error
	ticketsErr  error
	createCalls int
	listCalls   int
	lastFilter  models.TicketFilter

	settings map[string]map[string]any
	getErr   error
	putErr   error

	pingErr error
}

func (s *fakeStore) FindProductBySlug(_ context.Context, slug string) (models.Document, error) {
	for _, d := range s.docs {
		if d.Data["slug"] == slug {
			return d, nil
		}
	}
	return models.Document{}, store.ErrNotFound
}

func (s *fakeStore) ListPublishedProducts(_ context.Context, limit int) ([]models.Document, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Document
	for _, d := range s.docs {
		if d.Published() && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateTicket(_ context.Context, t models.SupportTicket) error {
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	s.tickets = append(s.tickets, t)
	return nil
}

func (s *fakeStore) ListTickets(_ context.Context, f models.TicketFilter) ([]models.SupportTicket, error) {
	s.listCalls++
	s.lastFilter = f
	return s.tickets, s.ticketsErr
}

func (s *fakeStore) GetSetting(_ context.Context, key string) (map[string]any, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.settings[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) PutSetting(_ context.Context, key string, value map[string]any) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.settings == nil {
		s.settings = map[string]map[string]any{}
	}
	s.settings[key] = value
	return nil
}

func (s *fakeStore) Driver() string               { return "fake" }
func (s *fakeStore) Ping(_ context.Context) error { return s.pingErr }

type fakeBucket struct {
	calls   int
	objects map[string][]byte
	attrs   map[string]objectstore.Attrs
	public  map[string]bool
	err     error
}

func (b *fakeBucket) Upload(_ context.Context, key string, data []byte, attrs objectstore.Attrs) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	if b.objects == nil {
		b.objects, b.attrs, b.public = map[string][]byte{}, map[string]objectstore.Attrs{}, map[string]bool{}
	}
	b.objects[key] = data
	b.attrs[key] = attrs
	return nil
}

func (b *fakeBucket) MakePublic(_ context.Context, key string) error {
	b.public[key] = true
	return nil
}

func (b *fakeBucket) PublicURL(key string) string { return "https://cdn.test/assets/" + key }

type fakeGateway struct {
	req payment.SessionRequest
	err error
}

func (g *fakeGateway) CreateSession(_ context.Context, req payment.SessionRequest) (payment.Session, error) {
	g.req = req
	if g.err != nil {
		return payment.Session{}, g.err
	}
	return payment.Session{ID: "cs_1", URL: "https://pay.test/cs_1"}, nil
}

type testEnv struct {
	app     *fiber.App
	store   *fakeStore
	bucket  *fakeBucket
	gateway *fakeGateway
}

func newEnv(st *fakeStore) *testEnv {
	if st == nil {
		st = &fakeStore{}
	}
	env := &testEnv{store: st, bucket: &fakeBucket{}, gateway: &fakeGateway{}}
	verifier := utils.NewJWTVerifier(testSecret)
	h := controllers.New(controllers.Deps{
		Products:           catalog.NewReader(st, 0, nil),
		Tickets:            st,
		Settings:           st,
		Bucket:             env.bucket,
		Gateway:            env.gateway,
		Health:             st,
		Verifier:           verifier,
		CheckoutSuccessURL: "https://shop.test/success",
		CheckoutCancelURL:  "https://shop.test/cart",
		Now:                func() time.Time { return testNow },
		NewID:              func() string { return "id-1" },
	})
	env.app = fiber.New()
	RegisterRoutes(env.app, h, verifier, nil)
	return env
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(testSecret, "admin-1", "admin@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, body
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

type listResp struct {
	Items []models.Product `json:"items"`
	Error string           `json:"error"`
}

func TestListProductsEmptyStoreServesFallback(t *testing.T) {
	code, body := do(t, newEnv(nil).app, httptest.NewRequest("GET", "/api/products", nil))
	if code != 200 {
		t.Fatalf("status %d", code)
	}
	var got listResp
	decode(t, body, &got)
	want := catalog.FallbackProducts()
	if len(got.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(got.Items), len(want))
	}
	for i := range want {
		if got.Items[i].Slug != want[i].Slug {
			t.Fatalf("item %d: %s != %s", i, got.Items[i].Slug, want[i].Slug)
		}
	}
	if got.Error != "" {
		t.Fatalf("unexpected error %q", got.Error)
	}
}

func TestListProductsStoreErrorStillOK(t *testing.T) {
	env := newEnv(&fakeStore{listErr: errors.New("connection refused")})
	code, body := do(t, env.app, httptest.NewRequest("GET", "/api/products?limit=2", nil))
	if code != 200 {
		t.Fatalf("status %d", code)
	}
	var got listResp
	decode(t, body, &got)
	if len(got.Items) != 2 || got.Error == "" {
		t.Fatalf("got %+v", got)
	}
}

func TestListProductsNormalizesLiveDocuments(t *testing.T) {
	st := &fakeStore{docs: []models.Document{
		{ID: "a", Data: map[string]any{"status": "published", "slug": "a", "name": "A", "price": "12.5", "soldOut": true}},
		{ID: "b", Data: map[string]any{"status": "draft", "slug": "b"}},
	}}
	_, body := do(t, newEnv(st).app, httptest.NewRequest("GET", "/api/products", nil))
	var got listResp
	decode(t, body, &got)
	if len(got.Items) != 1 {
		t.Fatalf("got %d items", len(got.Items))
	}
	p := got.Items[0]
	if p.Price != 12.5 || p.OriginalPrice != 12.5 || p.Available || len(p.Sizes) != 5 {
		t.Fatalf("normalized product: %+v", p)
	}
}

func TestGetProduct(t *testing.T) {
	st := &fakeStore{docs: []models.Document{
		{ID: "x1", Data: map[string]any{"slug": "live-tee", "name": "Live Tee", "price": 20}},
	}}
	app := newEnv(st).app

	cases := []struct {
		path string
		code int
		name string
	}{
		{"/api/products/live-tee", 200, "Live Tee"},
		{"/api/products/logo-tee", 200, "Logo Tee"},
		{"/api/products/nope", 404, ""},
	}
	for _, tc := range cases {
		code, body := do(t, app, httptest.NewRequest("GET", tc.path, nil))
		if code != tc.code {
			t.Fatalf("%s: status %d", tc.path, code)
		}
		if tc.code != 200 {
			continue
		}
		var got struct {
			Item models.Product `json:"item"`
		}
		decode(t, body, &got)
		if got.Item.Name != tc.name {
			t.Fatalf("%s: name %q", tc.path, got.Item.Name)
		}
	}
}

func TestSupportRequiresFields(t *testing.T) {
	bodies := []string{
		`{"name":"Ada","message":"hi"}`,
		`{"name":"Ada","email":"   ","message":"hi"}`,
		`{"email":"ada@example.com","message":"hi"}`,
		`{"name":"Ada","email":"not-an-email","message":"hi"}`,
		`not json`,
	}
	for _, b := range bodies {
		env := newEnv(nil)
		code, _ := do(t, env.app, jsonReq("POST", "/api/support", b))
		if code != 400 {
			t.Errorf("%s: status %d", b, code)
		}
		if env.store.createCalls != 0 {
			t.Errorf("%s: store was called", b)
		}
	}
}

func TestSupportCreatesTicket(t *testing.T) {
	env := newEnv(nil)
	code, body := do(t, env.app, jsonReq("POST", "/api/support",
		`{"name":" Ada ","email":"ada@example.com","message":" Hello ","orderNumber":"  ","subject":"Sizing"}`))
	if code != 200 {
		t.Fatalf("status %d: %s", code, body)
	}
	var got struct {
		Success  bool   `json:"success"`
		TicketID string `json:"ticketId"`
	}
	decode(t, body, &got)
	if !got.Success || got.TicketID != "id-1" {
		t.Fatalf("response %+v", got)
	}

	tk := env.store.tickets[0]
	if tk.Name != "Ada" || tk.Message != "Hello" || tk.Topic != models.DefaultTicketTopic {
		t.Fatalf("ticket %+v", tk)
	}
	if tk.OrderNumber != nil || tk.Subject == nil || *tk.Subject != "Sizing" {
		t.Fatalf("optional fields: order=%v subject=%v", tk.OrderNumber, tk.Subject)
	}
	if tk.Status != models.TicketOpen || !tk.CreatedAt.Equal(testNow) {
		t.Fatalf("status/createdAt: %+v", tk)
	}
}

func TestSupportStoreFailure(t *testing.T) {
	env := newEnv(&fakeStore{createErr: errors.New("boom")})
	code, body := do(t, env.app, jsonReq("POST", "/api/support",
		`{"name":"Ada","email":"ada@example.com","message":"Hello"}`))
	if code != 500 || !strings.Contains(string(body), "Failed to submit ticket") {
		t.Fatalf("status %d: %s", code, body)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	reqs := []*http.Request{
		httptest.NewRequest("GET", "/api/admin/support", nil),
		httptest.NewRequest("GET", "/api/admin/support/export", nil),
		httptest.NewRequest("POST", "/api/upload", nil),
		jsonReq("PUT", "/api/site-settings", `{"countdown":{"title":"x"}}`),
	}
	for _, req := range reqs {
		env := newEnv(nil)
		code, _ := do(t, env.app, req)
		if code != 401 {
			t.Errorf("%s %s: status %d", req.Method, req.URL.Path, code)
		}
		if env.store.listCalls != 0 || env.bucket.calls != 0 || env.store.settings != nil {
			t.Errorf("%s %s: backend touched", req.Method, req.URL.Path)
		}
	}
}

func TestAdminSupportFilter(t *testing.T) {
	cases := []struct {
		query  string
		limit  int
		status string
	}{
		{"", 50, ""},
		{"?limit=abc", 50, ""},
		{"?limit=0", 1, ""},
		{"?limit=500", 200, ""},
		{"?limit=25&status=resolved", 25, models.TicketResolved},
		{"?status=bogus", 50, ""},
	}
	for _, tc := range cases {
		env := newEnv(nil)
		req := httptest.NewRequest("GET", "/api/admin/support"+tc.query, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		code, body := do(t, env.app, req)
		if code != 200 {
			t.Fatalf("%q: status %d", tc.query, code)
		}
		if env.store.lastFilter.Limit != tc.limit || env.store.lastFilter.Status != tc.status {
			t.Errorf("%q: filter %+v", tc.query, env.store.lastFilter)
		}
		if !strings.Contains(string(body), `"tickets":[]`) {
			t.Errorf("%q: body %s", tc.query, body)
		}
	}
}

func TestAdminSupportStoreFailure(t *testing.T) {
	env := newEnv(&fakeStore{ticketsErr: errors.New("down")})
	req := httptest.NewRequest("GET", "/api/admin/support", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	if code, _ := do(t, env.app, req); code != 500 {
		t.Fatalf("status %d", code)
	}
}

func TestExportSupportTickets(t *testing.T) {
	subject := "Sizing"
	env := newEnv(&fakeStore{tickets: []models.SupportTicket{{
		ID: "t1", Name: "Ada", Email: "ada@example.com", Subject: &subject,
		Topic: "general", Message: "Hello, there", Status: models.TicketOpen, CreatedAt: testNow,
	}}})
	req := httptest.NewRequest("GET", "/api/admin/support/export", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		t.Fatalf("status %d type %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "id,created_at,status") {
		t.Fatalf("csv:\n%s", body)
	}
	if !strings.Contains(lines[1], `"Hello, there"`) {
		t.Fatalf("message should be quoted: %s", lines[1])
	}
	if env.store.lastFilter.Limit != 200 {
		t.Fatalf("export limit %d", env.store.lastFilter.Limit)
	}
}

func uploadReq(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	return req
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	env := newEnv(nil)
	code, _ := do(t, env.app, uploadReq(t, "empty.png", nil))
	if code != 400 {
		t.Fatalf("status %d", code)
	}
	if env.bucket.calls != 0 {
		t.Fatal("bucket should not be touched")
	}
}

func TestUploadStoresPublicAsset(t *testing.T) {
	env := newEnv(nil)
	code, body := do(t, env.app, uploadReq(t, "Hoodie.PNG", []byte("png-bytes")))
	if code != 200 {
		t.Fatalf("status %d: %s", code, body)
	}
	var got struct {
		URL string `json:"url"`
	}
	decode(t, body, &got)
	if got.URL != "https://cdn.test/assets/products/2024/id-1.png" {
		t.Fatalf("url %q", got.URL)
	}
	key := "products/2024/id-1.png"
	if string(env.bucket.objects[key]) != "png-bytes" || !env.bucket.public[key] {
		t.Fatalf("object not stored/public: %+v", env.bucket)
	}
	if env.bucket.attrs[key].CacheControl != objectstore.OneYearCacheControl {
		t.Fatalf("cache control %q", env.bucket.attrs[key].CacheControl)
	}
}

func TestUploadDefaultsExtension(t *testing.T) {
	env := newEnv(nil)
	_, body := do(t, env.app, uploadReq(t, "README", []byte("x")))
	if !strings.Contains(string(body), "products/2024/id-1.bin") {
		t.Fatalf("body %s", body)
	}
}

func TestUploadBucketFailure(t *testing.T) {
	env := newEnv(nil)
	env.bucket.err = errors.New("disk full")
	if code, _ := do(t, env.app, uploadReq(t, "a.jpg", []byte("x"))); code != 500 {
		t.Fatalf("status %d", code)
	}
}

type settingsResp struct {
	Countdown models.CountdownSettings `json:"countdown"`
}

func TestSiteSettingsRead(t *testing.T) {
	cases := []struct {
		name  string
		store *fakeStore
		want  models.CountdownSettings
	}{
		{"missing", &fakeStore{}, models.DefaultCountdownSettings()},
		{"read error", &fakeStore{getErr: errors.New("timeout")}, models.DefaultCountdownSettings()},
		{"stored", &fakeStore{settings: map[string]map[string]any{
			models.CountdownSettingsKey: {"enabled": true, "title": "Drop 02", "endsAt": "2024-06-01T12:00:00Z"},
		}}, models.CountdownSettings{
			Enabled: true, Title: "Drop 02", EndsAt: "2024-06-01T12:00:00Z", CTALabel: "Shop now", CTAHref: "/shop",
		}},
		{"garbage", &fakeStore{settings: map[string]map[string]any{
			models.CountdownSettingsKey: {"enabled": map[string]any{"on": 1}},
		}}, models.DefaultCountdownSettings()},
	}
	for _, tc := range cases {
		code, body := do(t, newEnv(tc.store).app, httptest.NewRequest("GET", "/api/site-settings", nil))
		if code != 200 {
			t.Fatalf("%s: status %d", tc.name, code)
		}
		var got settingsResp
		decode(t, body, &got)
		if got.Countdown != tc.want {
			t.Errorf("%s: got %+v want %+v", tc.name, got.Countdown, tc.want)
		}
	}
}

func TestSiteSettingsWrite(t *testing.T) {
	cases := []struct {
		body string
		code int
	}{
		{`{}`, 400},
		{`{"countdown":{"enabled":true,"title":"  "}}`, 400},
		{`{"countdown":{"title":"Drop","endsAt":"tomorrow"}}`, 400},
		{`{"countdown":{"enabled":true,"title":"Drop 02","endsAt":"2024-06-01T12:00:00Z","ctaLabel":"Go","ctaHref":"/drop"}}`, 200},
	}
	for _, tc := range cases {
		env := newEnv(nil)
		req := jsonReq("PUT", "/api/site-settings", tc.body)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		code, body := do(t, env.app, req)
		if code != tc.code {
			t.Fatalf("%s: status %d: %s", tc.body, code, body)
		}
		if tc.code != 200 {
			if env.store.settings != nil {
				t.Errorf("%s: settings written on rejection", tc.body)
			}
			continue
		}
		saved := env.store.settings[models.CountdownSettingsKey]
		if saved["title"] != "Drop 02" || saved["enabled"] != true || saved["ctaHref"] != "/drop" {
			t.Fatalf("saved %+v", saved)
		}
	}
}

func TestSiteSettingsWriteFailure(t *testing.T) {
	env := newEnv(&fakeStore{putErr: errors.New("readonly")})
	req := jsonReq("PUT", "/api/site-settings", `{"countdown":{"title":"Drop"}}`)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	if code, _ := do(t, env.app, req); code != 500 {
		t.Fatalf("status %d", code)
	}
}

func TestCheckoutRejectsBadCarts(t *testing.T) {
	bodies := []string{
		`{"items":[]}`,
		`{}`,
		`{"items":[{"slug":"nope","quantity":1}]}`,
		`{"items":[{"slug":"drop-01-jacket","quantity":1}]}`,
		`{"items":[{"slug":"logo-tee","size":"XXXL","quantity":1}]}`,
	}
	for _, b := range bodies {
		env := newEnv(nil)
		code, _ := do(t, env.app, jsonReq("POST", "/api/checkout", b))
		if code != 400 {
			t.Errorf("%s: status %d", b, code)
		}
		if env.gateway.req.LineItems != nil {
			t.Errorf("%s: gateway called", b)
		}
	}
}

func TestCheckoutCreatesSession(t *testing.T) {
	env := newEnv(nil)
	req := jsonReq("POST", "/api/checkout",
		`{"items":[{"slug":"logo-tee","size":"M","quantity":50,"price":0.01},{"slug":"essential-hoodie","quantity":0}]}`)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	code, body := do(t, env.app, req)
	if code != 200 {
		t.Fatalf("status %d: %s", code, body)
	}
	var got models.CheckoutResp
	decode(t, body, &got)
	if got.URL != "https://pay.test/cs_1" || got.SessionID != "cs_1" {
		t.Fatalf("response %+v", got)
	}

	sr := env.gateway.req
	if len(sr.LineItems) != 2 {
		t.Fatalf("line items %+v", sr.LineItems)
	}
	if li := sr.LineItems[0]; li.UnitAmount != 3500 || li.Quantity != 10 || li.Size != "M" {
		t.Fatalf("first line %+v", li)
	}
	if li := sr.LineItems[1]; li.UnitAmount != 7900 || li.Quantity != 1 {
		t.Fatalf("second line %+v", li)
	}
	if sr.CustomerEmail != "admin@example.com" || sr.SuccessURL != "https://shop.test/success" {
		t.Fatalf("session request %+v", sr)
	}
}

func TestCheckoutGatewayFailure(t *testing.T) {
	env := newEnv(nil)
	env.gateway.err = errors.New("provider down")
	code, body := do(t, env.app, jsonReq("POST", "/api/checkout", `{"items":[{"slug":"logo-tee","quantity":1}]}`))
	if code != 500 || !strings.Contains(string(body), "Failed to start checkout") {
		t.Fatalf("status %d: %s", code, body)
	}
}

func TestHealthz(t *testing.T) {
	code, body := do(t, newEnv(nil).app, httptest.NewRequest("GET", "/healthz", nil))
	if code != 200 || !strings.Contains(string(body), `"driver":"fake"`) {
		t.Fatalf("status %d: %s", code, body)
	}
	code, _ = do(t, newEnv(&fakeStore{pingErr: errors.New("down")}).app, httptest.NewRequest("GET", "/healthz", nil))
	if code != 503 {
		t.Fatalf("status %d", code)
	}
}

func TestListProductsLimitIsDecimal(t *testing.T) {
	st := &fakeStore{}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("p%02d", i)
		st.docs = append(st.docs, models.Document{ID: id, Data: map[string]any{"status": "published", "slug": id}})
	}
	app := newEnv(st).app

	for query, want := range map[string]int{"010": 10, "08": 8, "0x4": 12, "abc": 12} {
		_, body := do(t, app, httptest.NewRequest("GET", "/api/products?limit="+query, nil))
		var got listResp
		decode(t, body, &got)
		if len(got.Items) != want {
			t.Errorf("limit=%s: got %d items, want %d", query, len(got.Items), want)
		}
	}
}

func TestSupportAcceptsNumericOrderNumber(t *testing.T) {
	env := newEnv(nil)
	code, body := do(t, env.app, jsonReq("POST", "/api/support",
		`{"name":"Ada","email":"ada@example.com","message":"Hello","orderNumber":10234}`))
	if code != 200 {
		t.Fatalf("status %d: %s", code, body)
	}
	tk := env.store.tickets[0]
	if tk.OrderNumber == nil || *tk.OrderNumber != "10234" {
		t.Fatalf("order number: %v", tk.OrderNumber)
	}
}

func TestCheckoutRejectsDraftProduct(t *testing.T) {
	env := newEnv(&fakeStore{docs: []models.Document{
		{ID: "d1", Data: map[string]any{"slug": "secret-drop", "name": "Unreleased", "status": "draft", "price": 1}},
	}})
	code, _ := do(t, env.app, jsonReq("POST", "/api/checkout", `{"items":[{"slug":"secret-drop","quantity":1}]}`))
	if code != 400 {
		t.Fatalf("status %d", code)
	}
	if env.gateway.req.LineItems != nil {
		t.Fatal("gateway called for a draft product")
	}

	code, _ = do(t, env.app, httptest.NewRequest("GET", "/api/products/secret-drop", nil))
	if code != 200 {
		t.Fatalf("detail lookup should still resolve drafts, got %d", code)
	}
}

func TestCheckoutForwardsCanonicalSize(t *testing.T) {
	env := newEnv(nil)
	code, body := do(t, env.app, jsonReq("POST", "/api/checkout", `{"items":[{"slug":"logo-tee","size":"m","quantity":1}]}`))
	if code != 200 {
		t.Fatalf("status %d: %s", code, body)
	}
	if got := env.gateway.req.LineItems[0].Size; got != "M" {
		t.Fatalf("size %q, want %q", got, "M")
	}
}
