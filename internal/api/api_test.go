package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MrWong99/dikte/internal/api"
	"github.com/MrWong99/dikte/internal/correction"
	"github.com/MrWong99/dikte/internal/engine"
	"github.com/MrWong99/dikte/internal/learning"
	"github.com/MrWong99/dikte/internal/profile"
	"github.com/MrWong99/dikte/internal/prompt"
	"github.com/MrWong99/dikte/internal/transcript"
)

func newServer(t *testing.T) (*engine.Engine, *httptest.Server) {
	t.Helper()
	eng := engine.New(engine.WithClock(func() time.Time {
		return time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	}))
	srv := httptest.NewServer(api.New(eng).Handler())
	t.Cleanup(srv.Close)
	return eng, srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s = %d, want %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want)
	}
}

func TestProcess(t *testing.T) {
	t.Parallel()
	eng, srv := newServer(t)

	resp := do(t, srv, "POST", "/v1/process", `{"text":"cok guzel bir gun"}`)
	wantStatus(t, resp, http.StatusOK)
	res := decode[transcript.Result](t, resp)
	if res.Text != "Çok güzel bir gun." {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Corrections) == 0 {
		t.Error("expected itemised corrections")
	}
	if got := len(eng.History()); got != 1 {
		t.Errorf("history len = %d, want 1", got)
	}

	resp = do(t, srv, "POST", "/v1/process", `{"text":"Altyazı"}`)
	wantStatus(t, resp, http.StatusOK)
	if res := decode[transcript.Result](t, resp); !res.Rejected || res.Reason == "" {
		t.Errorf("hallucination not rejected: %+v", res)
	}
}

func TestProcess_BadRequests(t *testing.T) {
	t.Parallel()
	_, srv := newServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"text":`},
		{"empty text", `{"text":"  "}`},
		{"unknown field", `{"txt":"merhaba"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := do(t, srv, "POST", "/v1/process", tt.body)
			wantStatus(t, resp, http.StatusBadRequest)
			if e := decode[map[string]string](t, resp); e["error"] == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestLearn(t *testing.T) {
	t.Parallel()
	eng, srv := newServer(t)

	resp := do(t, srv, "POST", "/v1/learn", `{"original":"kubernets cluster hazır","edited":"kubernetes cluster hazır"}`)
	wantStatus(t, resp, http.StatusOK)
	report := decode[engine.LearnReport](t, resp)
	want := learning.Pair{Wrong: "kubernets", Right: "kubernetes"}
	if len(report.Direct) != 1 || report.Direct[0] != want {
		t.Errorf("direct = %+v, want [%+v]", report.Direct, want)
	}
	if got := eng.Profile().TotalCorrections; got != 1 {
		t.Errorf("TotalCorrections = %d, want 1", got)
	}

	resp = do(t, srv, "POST", "/v1/learn", `{"original":"","edited":"x"}`)
	wantStatus(t, resp, http.StatusBadRequest)
}

func TestCorrectionLifecycle(t *testing.T) {
	t.Parallel()
	_, srv := newServer(t)

	wantStatus(t, do(t, srv, "POST", "/v1/corrections", `{"wrong":"kubernets","right":"kubernetes"}`), http.StatusCreated)
	wantStatus(t, do(t, srv, "POST", "/v1/corrections", `{"wrong":"dokcer","right":"docker"}`), http.StatusCreated)

	views := decode[[]correction.View](t, do(t, srv, "GET", "/v1/corrections", ""))
	if len(views) != 2 {
		t.Fatalf("corrections = %+v, want 2", views)
	}

	wantStatus(t, do(t, srv, "POST", "/v1/corrections/kubernets/promote", ""), http.StatusNoContent)
	active := decode[[]correction.View](t, do(t, srv, "GET", "/v1/corrections?status=active", ""))
	if len(active) != 1 || active[0].Wrong != "kubernets" {
		t.Errorf("active = %+v", active)
	}

	resp := do(t, srv, "POST", "/v1/process", `{"text":"kubernets hazır"}`)
	if res := decode[transcript.Result](t, resp); res.Text != "Kubernetes hazır." {
		t.Errorf("active correction not applied: %q", res.Text)
	}

	wantStatus(t, do(t, srv, "POST", "/v1/corrections/kubernets/revert", `{"right":"kubernetes"}`), http.StatusNoContent)
	wantStatus(t, do(t, srv, "POST", "/v1/corrections/dokcer/demote", ""), http.StatusNoContent)
	deprecated := decode[[]correction.View](t, do(t, srv, "GET", "/v1/corrections?status=Deprecated", ""))
	if len(deprecated) != 1 || deprecated[0].Wrong != "dokcer" {
		t.Errorf("deprecated = %+v", deprecated)
	}

	wantStatus(t, do(t, srv, "DELETE", "/v1/corrections/dokcer", ""), http.StatusNoContent)
	wantStatus(t, do(t, srv, "DELETE", "/v1/corrections/dokcer", ""), http.StatusNotFound)
	wantStatus(t, do(t, srv, "POST", "/v1/corrections/nothere/promote", ""), http.StatusNotFound)
	wantStatus(t, do(t, srv, "POST", "/v1/corrections/kubernets/revert", `{"right":"other"}`), http.StatusNotFound)
	wantStatus(t, do(t, srv, "GET", "/v1/corrections?status=bogus", ""), http.StatusBadRequest)
}

func TestPromote_Conflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		before  []string
		want    int
		wantErr string
	}{
		{"pending", nil, http.StatusNoContent, ""},
		{"already active", []string{"promote"}, http.StatusConflict, `"kubernets" is already Active`},
		{"deprecated", []string{"demote"}, http.StatusConflict, `"kubernets" is Deprecated`},
		{"demoted after promote", []string{"promote", "demote"}, http.StatusConflict, "is Deprecated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			eng, srv := newServer(t)
			wantStatus(t, do(t, srv, "POST", "/v1/corrections", `{"wrong":"kubernets","right":"kubernetes"}`), http.StatusCreated)
			for _, action := range tt.before {
				wantStatus(t, do(t, srv, "POST", "/v1/corrections/kubernets/"+action, ""), http.StatusNoContent)
			}
			before, _ := eng.Correction("kubernets")

			resp := do(t, srv, "POST", "/v1/corrections/kubernets/promote", "")
			wantStatus(t, resp, tt.want)
			if tt.wantErr == "" {
				return
			}
			if got := decode[map[string]string](t, resp)["error"]; !strings.Contains(got, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", got, tt.wantErr)
			}
			if after, _ := eng.Correction("kubernets"); after.Status != before.Status {
				t.Errorf("status changed from %v to %v", before.Status, after.Status)
			}
		})
	}

	_, srv := newServer(t)
	resp := do(t, srv, "POST", "/v1/corrections/nothere/promote", "")
	wantStatus(t, resp, http.StatusNotFound)
	if got := decode[map[string]string](t, resp)["error"]; got != "correction not found" {
		t.Errorf("missing key error = %q", got)
	}
}

func TestAddCorrection_Validation(t *testing.T) {
	t.Parallel()
	_, srv := newServer(t)

	for _, body := range []string{
		`{"wrong":"","right":"x"}`,
		`{"wrong":"Merhaba","right":"merhaba"}`,
	} {
		wantStatus(t, do(t, srv, "POST", "/v1/corrections", body), http.StatusBadRequest)
	}
}

func TestPathValueUnescaped(t *testing.T) {
	t.Parallel()
	eng, srv := newServer(t)
	if err := eng.AddCorrection(context.Background(), "güzell", "güzel"); err != nil {
		t.Fatal(err)
	}

	wantStatus(t, do(t, srv, "DELETE", "/v1/corrections/"+url.PathEscape("güzell"), ""), http.StatusNoContent)
	if n := len(eng.Corrections()); n != 0 {
		t.Errorf("corrections left = %d, want 0", n)
	}
}

func TestExportImportReset(t *testing.T) {
	t.Parallel()
	eng, srv := newServer(t)
	ctx := context.Background()
	_ = eng.AddCorrection(ctx, "kubernets", "kubernetes")

	resp := do(t, srv, "GET", "/v1/corrections/export", "")
	wantStatus(t, resp, http.StatusOK)
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "corrections.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	exported := buf.String()

	wantStatus(t, do(t, srv, "POST", "/v1/reset", ""), http.StatusNoContent)
	if n := len(eng.Corrections()); n != 0 {
		t.Fatalf("corrections after reset = %d", n)
	}

	resp = do(t, srv, "POST", "/v1/corrections/import", exported)
	wantStatus(t, resp, http.StatusOK)
	got := decode[map[string]int](t, resp)
	if got["imported"] != 1 || got["total"] != 1 {
		t.Errorf("import response = %v", got)
	}

	wantStatus(t, do(t, srv, "POST", "/v1/corrections/import", "not json"), http.StatusBadRequest)
	if n := len(eng.Corrections()); n != 1 {
		t.Errorf("malformed import changed the store: %d records", n)
	}
}

func TestProfilePromptDomain(t *testing.T) {
	t.Parallel()
	_, srv := newServer(t)
	wantStatus(t, do(t, srv, "POST", "/v1/process", `{"text":"api server deploy commit tamam","language":"tr"}`), http.StatusOK)

	p := decode[profile.Profile](t, do(t, srv, "GET", "/v1/profile", ""))
	if p.TotalTranscriptions != 1 || p.Domain != profile.Technical {
		t.Errorf("profile = %+v", p)
	}

	info := decode[profile.DomainInfo](t, do(t, srv, "GET", "/v1/domain", ""))
	if info.Detected != profile.Technical || info.Label == "" {
		t.Errorf("domain = %+v", info)
	}

	pr := decode[map[string]any](t, do(t, srv, "GET", "/v1/prompt?lang=tr", ""))
	text, _ := pr["prompt"].(string)
	if text == "" || len(text) > prompt.MaxLength {
		t.Errorf("prompt = %q", text)
	}

	pv := decode[prompt.Preview](t, do(t, srv, "GET", "/v1/prompt/preview?lang=tr", ""))
	if pv.BasePrompt != prompt.Base("tr") || pv.MaxLength != prompt.MaxLength {
		t.Errorf("preview = %+v", pv)
	}

	ngrams := decode[[]profile.NgramEntry](t, do(t, srv, "GET", "/v1/ngrams?limit=1", ""))
	if len(ngrams) != 1 {
		t.Errorf("ngrams with limit=1 = %+v", ngrams)
	}
	wantStatus(t, do(t, srv, "GET", "/v1/ngrams?limit=-2", ""), http.StatusBadRequest)
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	eng, srv := newServer(t)
	_ = eng.AddCorrection(context.Background(), "kubernets", "kubernetes")

	got := decode[[]engine.Suggestion](t, do(t, srv, "GET", "/v1/suggest?word=kuberntes", ""))
	if len(got) == 0 || got[0].Term != "kubernetes" {
		t.Errorf("suggest = %+v", got)
	}
	wantStatus(t, do(t, srv, "GET", "/v1/suggest", ""), http.StatusBadRequest)
}

func TestHistory(t *testing.T) {
	t.Parallel()
	_, srv := newServer(t)

	if got := decode[[]engine.HistoryEntry](t, do(t, srv, "GET", "/v1/history", "")); len(got) != 0 {
		t.Fatalf("history = %+v, want empty", got)
	}
	wantStatus(t, do(t, srv, "POST", "/v1/process", `{"text":"kitap"}`), http.StatusOK)
	wantStatus(t, do(t, srv, "POST", "/v1/process", `{"text":"masa"}`), http.StatusOK)

	got := decode[[]engine.HistoryEntry](t, do(t, srv, "GET", "/v1/history", ""))
	if len(got) != 2 || !strings.HasPrefix(got[0].Text, "Masa") {
		t.Errorf("history = %+v, want newest first", got)
	}

	wantStatus(t, do(t, srv, "DELETE", "/v1/history", ""), http.StatusNoContent)
	if got := decode[[]engine.HistoryEntry](t, do(t, srv, "GET", "/v1/history", "")); len(got) != 0 {
		t.Errorf("history after clear = %+v", got)
	}
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()
	eng := engine.New()
	srv := httptest.NewServer(api.New(eng, api.WithMaxBodyBytes(16)).Handler())
	t.Cleanup(srv.Close)

	resp := do(t, srv, "POST", "/v1/process", `{"text":"bu metin sınırdan uzun"}`)
	wantStatus(t, resp, http.StatusBadRequest)
}
