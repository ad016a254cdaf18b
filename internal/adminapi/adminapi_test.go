package adminapi

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otjiningirua/owfarm/config"
	"github.com/otjiningirua/owfarm/internal/app"
	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/store"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

const testPassword = "s3cret"

type testEnv struct {
	t      *testing.T
	app    *app.Application
	server *webserver.AdminServer
	cookie *http.Cookie
}

var backends = []string{store.BackendDocument, store.BackendRelational}

func newTestEnv(t *testing.T, backend string) *testEnv {
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Database.Type = "file"
	cfg.Admin.Password = testPassword

	var st store.Store
	if backend == store.BackendRelational {
		cfg.Database.Type = "sqlite"
		db := store.Connect(config.DBConfig{Type: "sqlite", Name: ":memory:"}, cfg.GetDataDir())
		require.NotNil(t, db)
		rs, err := store.NewRelationalStore(db)
		require.NoError(t, err)
		require.NoError(t, rs.Migrate())
		t.Cleanup(func() { _ = rs.Close() })
		st = rs
	} else {
		ds, err := store.NewDocumentStore(cfg.GetDataDir())
		require.NoError(t, err)
		st = ds
	}
	a := app.NewApplication(cfg)
	require.NoError(t, a.OverrideStore(st))

	s := webserver.NewAdminServer(a)
	Init(s)
	return &testEnv{t: t, app: a, server: s}
}

// eachBackend runs fn against a fresh server on the file and the sqlite store
func eachBackend(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	for _, backend := range backends {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			fn(t, newTestEnv(t, backend))
		})
	}
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.server.Echo().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login() {
	rec := e.do(http.MethodPost, "/api/admin/login", `{"password":"`+testPassword+`"}`)
	require.Equal(e.t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_session" {
			e.cookie = c
		}
	}
	require.NotNil(e.t, e.cookie)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (e *testEnv) logs() []store.Document {
	docs, err := e.app.Store().List(context.Background(), domain.ActivityLogs, 0)
	require.NoError(e.t, err)
	return docs
}

func TestAuthFlow(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {

		rec := env.do(http.MethodPost, "/api/admin/login", `{"password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":"Invalid credentials"}`, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())

		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/session", "").Code)
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/rams", "").Code)

		env.login()
		assert.True(t, env.cookie.HttpOnly)
		assert.Equal(t, "/", env.cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, env.cookie.SameSite)

		rec = env.do(http.MethodGet, "/api/admin/session", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/admin/rams", "").Code)

		rec = env.do(http.MethodPost, "/api/admin/logout", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.True(t, cookies[0].MaxAge < 0)

		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/session", "").Code)
		assert.Zero(t, env.app.Sessions().Len())
	})
}

func TestUserCrud(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		rec := env.do(http.MethodPost, "/api/admin/users", `{"email":"x@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var errResp ErrorResponse
		decode(t, rec, &errResp)
		assert.Equal(t, "name is required", errResp.Error)

		rec = env.do(http.MethodPost, "/api/admin/users", `{"name":"Anna","email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(http.MethodPost, "/api/admin/users", `[1,2]`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(http.MethodPost, "/api/admin/users", `{"name":"Anna","email":"anna@example.com"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var user store.Document
		decode(t, rec, &user)
		assert.NotEmpty(t, user.ID())
		assert.Equal(t, "unknown", user["type"])
		assert.Equal(t, "active", user["status"])
		assert.NotEmpty(t, user["createdAt"])

		rec = env.do(http.MethodPut, "/api/admin/users/"+user.ID(), `{"status":"inactive"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var updated store.Document
		decode(t, rec, &updated)
		assert.Equal(t, "inactive", updated["status"])
		assert.Equal(t, "Anna", updated["name"])

		rec = env.do(http.MethodPut, "/api/admin/users/missing", `{"status":"inactive"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(http.MethodPut, "/api/admin/users/"+user.ID(), `{"type":"martian"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		for i := 0; i < 2; i++ {
			rec = env.do(http.MethodDelete, "/api/admin/users/"+user.ID(), "")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		}

		rec = env.do(http.MethodGet, "/api/admin/users", "")
		assert.JSONEq(t, `[]`, rec.Body.String())

		actions := map[string]int{}
		for _, l := range env.logs() {
			assert.Equal(t, "user", l["entity"])
			actions[l["action"].(string)]++
		}
		assert.Equal(t, map[string]int{"create": 1, "update": 1, "delete": 2}, actions)
	})
}

func TestProductsArePublic(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		rec := env.do(http.MethodPost, "/api/admin/rams", `{"name":"Dorper Ram A","price":8000,"weight":"85.5"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var ram store.Document
		decode(t, rec, &ram)
		assert.Equal(t, []interface{}{}, ram["media"])

		rec = env.do(http.MethodPost, "/api/admin/rams", `{"name":"Bad","price":-1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(http.MethodPost, "/api/admin/beans", `{"name":"Pinto","status":"gone"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		env.cookie = nil
		rec = env.do(http.MethodGet, "/api/rams", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var rams []store.Document
		decode(t, rec, &rams)
		require.Len(t, rams, 1)
		assert.Equal(t, "Dorper Ram A", rams[0]["name"])

		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/beans", "").Code)
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/admin/rams", `{"name":"x"}`).Code)
	})
}

func TestUpdateWithNullKeepsValues(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		rec := env.do(http.MethodPost, "/api/admin/rams", `{"name":"Dorper Ram A","breed":"Dorper","price":8000}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var ram store.Document
		decode(t, rec, &ram)

		rec = env.do(http.MethodPut, "/api/admin/rams/"+ram.ID(), `{"price":null,"breed":null}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated store.Document
		decode(t, rec, &updated)
		assert.Equal(t, 8000.0, updated["price"])
		assert.Equal(t, "Dorper", updated["breed"])

		rec = env.do(http.MethodPut, "/api/admin/rams/"+ram.ID(), `{"name":null,"status":"sold"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &updated)
		assert.Equal(t, "Dorper Ram A", updated["name"])
		assert.Equal(t, "sold", updated["status"])
	})
}

func TestStockLedger(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		rec := env.do(http.MethodPost, "/api/admin/beans", `{"name":"Red Kidney","pricePerKg":19}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var bean store.Document
		decode(t, rec, &bean)

		for _, qty := range []string{`10`, `-3`, `"2"`} {
			rec = env.do(http.MethodPost, "/api/admin/stock/movements",
				`{"productType":"bean","productId":"`+bean.ID()+`","quantityChange":`+qty+`}`)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}

		for _, body := range []string{
			`{"productType":"bean","productId":"` + bean.ID() + `","quantityChange":0}`,
			`{"productType":"bean","productId":"` + bean.ID() + `","quantityChange":1.5}`,
			`{"productType":"goat","productId":"` + bean.ID() + `","quantityChange":1}`,
			`{"productType":"bean","quantityChange":1}`,
		} {
			rec = env.do(http.MethodPost, "/api/admin/stock/movements", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}

		rec = env.do(http.MethodGet, "/api/admin/stock/summary?type=bean", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var levels []map[string]interface{}
		decode(t, rec, &levels)
		require.Len(t, levels, 1)
		assert.Equal(t, bean.ID(), levels[0]["productId"])
		assert.Equal(t, 9.0, levels[0]["stock"])

		rec = env.do(http.MethodGet, "/api/admin/stock/summary?type=ram", "")
		assert.JSONEq(t, `[]`, rec.Body.String())

		rec = env.do(http.MethodGet, "/api/admin/stock/summary?type=goat", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(http.MethodGet, "/api/admin/stock/movements", "")
		var movements []store.Document
		decode(t, rec, &movements)
		assert.Len(t, movements, 3)
	})
}

func TestUploadAttachesMedia(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		rec := env.do(http.MethodPost, "/api/admin/rams", `{"name":"Dorper Ram B"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var ram store.Document
		decode(t, rec, &ram)

		payload := base64.StdEncoding.EncodeToString([]byte("fake image"))
		rec = env.do(http.MethodPost, "/api/admin/upload",
			`{"parentType":"ram","parentId":"`+ram.ID()+`","filename":"../../etc/passwd","base64":"data:image/png;base64,`+payload+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp struct {
			Ok  bool   `json:"ok"`
			URL string `json:"url"`
		}
		decode(t, rec, &resp)
		assert.True(t, resp.Ok)
		assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
		assert.True(t, strings.HasSuffix(resp.URL, "-passwd"))

		name := strings.TrimPrefix(resp.URL, "/uploads/")
		data, err := os.ReadFile(filepath.Join(env.app.Uploads().Dir(), name))
		require.NoError(t, err)
		assert.Equal(t, "fake image", string(data))

		rec = env.do(http.MethodGet, "/api/admin/rams/"+ram.ID(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var stored struct {
			Media []map[string]interface{} `json:"media"`
		}
		decode(t, rec, &stored)
		require.Len(t, stored.Media, 1)
		assert.Equal(t, resp.URL, stored.Media[0]["url"])
		assert.Equal(t, "video", stored.Media[0]["type"])

		logs := env.logs()
		require.NotEmpty(t, logs)
		assert.Equal(t, "upload", logs[0]["action"])
		assert.Equal(t, "ram_media", logs[0]["entity"])
	})
}

func TestUploadUnknownParent(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		payload := base64.StdEncoding.EncodeToString([]byte("clip"))
		rec := env.do(http.MethodPost, "/api/admin/upload",
			`{"parentType":"bean","parentId":"missing","filename":"clip.jpg","base64":"`+payload+`"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, env.logs())

		rec = env.do(http.MethodPost, "/api/admin/upload",
			`{"parentType":"goat","parentId":"x","filename":"clip.jpg","base64":"`+payload+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(http.MethodPost, "/api/admin/upload",
			`{"parentType":"bean","parentId":"x","filename":"clip.jpg","base64":"!!!"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSettings(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		rec := env.do(http.MethodPut, "/api/admin/settings", `{"contactEmail":"broken"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(http.MethodPut, "/api/admin/settings", `{"location":"Outjo","contactPhone":"+264 81 000"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

		env.cookie = nil
		rec = env.do(http.MethodGet, "/api/settings", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var settings store.Document
		decode(t, rec, &settings)
		assert.Equal(t, "Outjo", settings["location"])
		assert.Equal(t, "+264 81 000", settings["contactPhone"])

		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPut, "/api/admin/settings", `{}`).Code)
	})
}

func TestPublicInquiry(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {

		rec := env.do(http.MethodPost, "/api/inquiries", `{"name":"Johan"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var errResp ErrorResponse
		decode(t, rec, &errResp)
		assert.Contains(t, errResp.Error, "is required")

		rec = env.do(http.MethodPost, "/api/inquiries", `{"name":"Johan","phone":"0811234567","product":"Dorper"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

		env.login()
		rec = env.do(http.MethodGet, "/api/admin/inquiries", "")
		var inquiries []store.Document
		decode(t, rec, &inquiries)
		require.Len(t, inquiries, 1)
		assert.Equal(t, "new", inquiries[0]["status"])

		id := inquiries[0].ID()
		rec = env.do(http.MethodPut, "/api/admin/inquiries/"+id, `{"status":"contacted"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = env.do(http.MethodPut, "/api/admin/inquiries/"+id, `{"status":"lost"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/admin/inquiries/"+id, "").Code)
	})
}

func TestAnalytics(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {

		assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/analytics", `{}`).Code)
		rec := env.do(http.MethodPost, "/api/analytics", `{"eventName":"page_view","path":"/rams","metadata":{"ref":"fb"}}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/analytics", "").Code)
		env.login()
		rec = env.do(http.MethodGet, "/api/admin/analytics", "")
		var events []store.Document
		decode(t, rec, &events)
		require.Len(t, events, 1)
		assert.Equal(t, "page_view", events[0]["eventName"])
	})
}

func TestLogsAndReports(t *testing.T) {
	eachBackend(t, func(t *testing.T, env *testEnv) {
		env.login()

		require.Equal(t, http.StatusCreated,
			env.do(http.MethodPost, "/api/admin/orders", `{"totalAmount":250.5,"items":[{"productId":"1"}]}`).Code)
		require.Equal(t, http.StatusCreated,
			env.do(http.MethodPost, "/api/admin/orders", `{"totalAmount":100,"status":"paid"}`).Code)
		assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/admin/orders", `{"status":"paid"}`).Code)

		rec := env.do(http.MethodGet, "/api/admin/logs", "")
		var logs []store.Document
		decode(t, rec, &logs)
		assert.Len(t, logs, 2)

		rec = env.do(http.MethodGet, "/api/admin/logs/export", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.True(t, strings.HasPrefix(rec.Body.String(), "id,created_at,actor,action,entity,entity_id,details"))

		rec = env.do(http.MethodGet, "/api/admin/reports/overview", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var ov struct {
			Orders struct {
				Total    int            `json:"total"`
				ByStatus map[string]int `json:"byStatus"`
				Revenue  float64        `json:"revenue"`
			} `json:"orders"`
		}
		decode(t, rec, &ov)
		assert.Equal(t, 2, ov.Orders.Total)
		assert.Equal(t, map[string]int{"pending": 1, "paid": 1}, ov.Orders.ByStatus)
		assert.Equal(t, 350.5, ov.Orders.Revenue)

		rec = env.do(http.MethodGet, "/api/admin/reports/overview/export", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.NotZero(t, rec.Body.Len())

		assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/admin/reports/metrics", "").Code)
		rec = env.do(http.MethodGet, "/api/admin/reports/metrics?name=owfarm_cpuuse&minutes=5000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"name":"owfarm_cpuuse","minutes":1440,"points":[]}`, rec.Body.String())
	})
}
