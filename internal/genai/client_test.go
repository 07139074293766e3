package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewClient(t *testing.T) {
	if _, err := NewClient("", "gemini-2.0-flash", time.Second, zap.NewNop()); err == nil {
		t.Error("empty API key accepted")
	}

	c, err := NewClient("key", "", 0, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.model != "gemini-2.0-flash" {
		t.Errorf("model = %q, want default", c.model)
	}
	if c.httpClient.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want default 10s", c.httpClient.Timeout)
	}
}

func geminiResponse(text string) string {
	raw, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"parts":[{"text":` + string(raw) + `}]}}]}`
}

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key", "test-model", time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.baseURL = srv.URL
	return c, srv
}

func TestExplain(t *testing.T) {
	var gotPath string
	var gotPrompt string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Write([]byte(geminiResponse("  Ahri punishes Zed's all-ins.  ")))
	})

	text, err := c.Explain(context.Background(), "Ahri",
		[]string{"Amumu"}, []string{"Zed"},
		[]string{"Base Winrate: 55.0%", "Synergy Lift: +6.0%"})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if text != "Ahri punishes Zed's all-ins." {
		t.Errorf("text = %q, want trimmed explanation", text)
	}
	if gotPath != "/models/test-model:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	for _, want := range []string{"Ahri", "Amumu", "Zed", "Key factors identified by model: Base Winrate: 55.0%, Synergy Lift: +6.0%"} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gotPrompt)
		}
	}
}

func TestExplainErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{nope"))
			},
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, tt.handler)
			if _, err := c.Explain(context.Background(), "Ahri", nil, nil, nil); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestSimpleExplanationPrompt(t *testing.T) {
	p := SimpleExplanationPrompt("Ahri", nil, nil)
	if !strings.Contains(p, "Ally Team: None") || !strings.Contains(p, "Enemy Team: None") {
		t.Errorf("empty teams should render as None:\n%s", p)
	}

	p = SimpleExplanationPrompt("Ahri", []string{"Amumu", "Garen"}, []string{"Zed"})
	if !strings.Contains(p, "Ally Team: Amumu, Garen") {
		t.Errorf("allies not joined:\n%s", p)
	}
	if !strings.Contains(p, "Enemy Team: Zed") {
		t.Errorf("enemies not rendered:\n%s", p)
	}
}

func TestFallbackExplanation(t *testing.T) {
	tests := []struct {
		name     string
		champion string
		reasons  []string
		want     string
	}{
		{
			name:     "no reasons",
			champion: "Ahri",
			want:     "Ahri is recommended based on the current draft context.",
		},
		{
			name:     "reasons joined",
			champion: "Ahri",
			reasons:  []string{"Base Winrate: 55.0%", "Final Prob: 56.2%"},
			want:     "Ahri: Base Winrate: 55.0%; Final Prob: 56.2%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackExplanation(tt.champion, tt.reasons); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
