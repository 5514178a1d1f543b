package gingenparse_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/appcanvas/genparse/pkg/genparse"
	"github.com/appcanvas/genparse/pkg/gingenparse"
)

func newRouter(opts ...genparse.Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	gingenparse.New(opts...).Register(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestParseEndpoint(t *testing.T) {
	router := newRouter()

	body, err := json.Marshal(gingenparse.ParseRequest{
		Text: `{"files": {"src/app.ts": "export const app = 1;"}}`,
	})
	if err != nil {
		t.Fatal(err)
	}

	w := postJSON(t, router, "/parse", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res genparse.ParseResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.Format != genparse.FormatJSONV1 {
		t.Errorf("Format = %q, want %q", res.Format, genparse.FormatJSONV1)
	}
	if _, ok := res.Files["src/app.ts"]; !ok {
		t.Errorf("missing src/app.ts, files = %v", res.Files)
	}
}

func TestParseEndpoint_BadBody(t *testing.T) {
	router := newRouter()

	w := postJSON(t, router, "/parse", `{"nope": 1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var res gingenparse.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if res.Error == "" {
		t.Error("expected an error message")
	}
}

func TestParseEndpoint_TooLarge(t *testing.T) {
	router := newRouter(genparse.WithMaxInputSize(50))

	body, _ := json.Marshal(gingenparse.ParseRequest{Text: strings.Repeat("x", 100)})
	w := postJSON(t, router, "/parse", string(body))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}

func TestFormatEndpoint(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest("GET", "/format?text="+
		"%3C%21--%20FILE%3Aa.ts%20--%3E", nil) // <!-- FILE:a.ts -->
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res gingenparse.FormatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.Format != genparse.FormatMarkerV1 {
		t.Errorf("Format = %q, want %q", res.Format, genparse.FormatMarkerV1)
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := newRouter()

	text := "<!-- FILE:a.ts -->\nexport const a = 1;\n<!-- /FILE:a.ts -->\n" +
		"<!-- FILE:b.ts -->\nexport const b ="
	body, _ := json.Marshal(gingenparse.ParseRequest{Text: text})

	w := postJSON(t, router, "/status", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res gingenparse.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !res.Truncated {
		t.Error("expected truncated")
	}
	if res.Continuation == "" {
		t.Error("expected a continuation prompt")
	}
	states := make(map[string]genparse.FileState)
	for _, f := range res.Files {
		states[f.Path] = f.State
	}
	if states["a.ts"] != genparse.StateComplete {
		t.Errorf("a.ts state = %q", states["a.ts"])
	}
	if states["b.ts"] != genparse.StateStreaming {
		t.Errorf("b.ts state = %q", states["b.ts"])
	}
}

func TestSchemaEndpoint(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest("GET", "/schema", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var s map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if s["type"] != "object" {
		t.Errorf("type = %v, want object", s["type"])
	}
}
