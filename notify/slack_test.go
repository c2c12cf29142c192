package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/store"
)

func TestSlackPost(t *testing.T) {
	var gotAuth, gotPath string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	st := store.NewMemory()
	if err := st.Teams().Upsert(context.Background(), models.Team{ID: "T1", AccessToken: "xoxb-token"}); err != nil {
		t.Fatalf("Seed team failed: %v", err)
	}

	slack := NewSlack(st.Teams(), server.URL)
	err := slack.Post(context.Background(), "T1", "C1", Message{Text: "hello"})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if gotAuth != "Bearer xoxb-token" {
		t.Errorf("Got auth %q, want the team token", gotAuth)
	}
	if gotPath != "/chat.postMessage" {
		t.Errorf("Got path %q", gotPath)
	}
	if gotPayload["channel"] != "C1" || gotPayload["text"] != "hello" {
		t.Errorf("Got payload %v", gotPayload)
	}
}

func TestSlackPostSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer server.Close()

	st := store.NewMemory()
	st.Teams().Upsert(context.Background(), models.Team{ID: "T1", AccessToken: "xoxb-token"})

	slack := NewSlack(st.Teams(), server.URL)
	err := slack.Post(context.Background(), "T1", "C1", Message{Text: "hello"})
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("Got %v, want the API error surfaced", err)
	}
}

func TestSlackPostUnknownTeam(t *testing.T) {
	slack := NewSlack(store.NewMemory().Teams(), "http://localhost:1")

	err := slack.Post(context.Background(), "T-missing", "C1", Message{Text: "hello"})
	if err == nil {
		t.Fatal("Expected an error for a team with no credential")
	}
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth.v2.access" {
			t.Errorf("Got path %q", r.URL.Path)
		}
		r.ParseForm()
		if r.PostForm.Get("code") != "install-code" {
			t.Errorf("Got code %q", r.PostForm.Get("code"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":           true,
			"access_token": "xoxb-new",
			"team":         map[string]string{"id": "T9"},
		})
	}))
	defer server.Close()

	slack := NewSlack(store.NewMemory().Teams(), server.URL)
	team, err := slack.ExchangeCode(context.Background(), "client", "secret", "install-code")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	if team.ID != "T9" || team.AccessToken != "xoxb-new" {
		t.Errorf("Got %+v", team)
	}
}
