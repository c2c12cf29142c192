// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/store"
)

const defaultSlackBase = "https://slack.com/api"

// Slack posts messages through the Slack Web API, resolving each team's
// access token from the team store.
type Slack struct {
	teams  store.TeamStore
	client *http.Client
	base   string
}

// NewSlack returns a Slack notifier. baseURL overrides the API endpoint
// for tests; pass "" for the real one.
func NewSlack(teams store.TeamStore, baseURL string) *Slack {
	if baseURL == "" {
		baseURL = defaultSlackBase
	}
	return &Slack{
		teams:  teams,
		client: &http.Client{Timeout: 10 * time.Second},
		base:   strings.TrimRight(baseURL, "/"),
	}
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Slack) call(ctx context.Context, team, method string, payload map[string]any) error {
	t, err := s.teams.Get(ctx, team)
	if err != nil {
		return fmt.Errorf("resolve token for team %s: %w", team, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+t.AccessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !out.OK {
		return fmt.Errorf("%s: slack error: %s", method, out.Error)
	}
	return nil
}

func (s *Slack) Post(ctx context.Context, team, channel string, msg Message) error {
	return s.call(ctx, team, "chat.postMessage", map[string]any{
		"channel":     channel,
		"text":        msg.Text,
		"attachments": msg.Attachments,
	})
}

func (s *Slack) PostEphemeral(ctx context.Context, team, channel, user string, msg Message) error {
	return s.call(ctx, team, "chat.postEphemeral", map[string]any{
		"channel":     channel,
		"user":        user,
		"text":        msg.Text,
		"attachments": msg.Attachments,
	})
}

// ExchangeCode trades an OAuth install code for the workspace's access
// token. The caller persists the returned team.
func (s *Slack) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (models.Team, error) {
	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"code":          {code},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.base+"/oauth.v2.access", strings.NewReader(form.Encode()))
	if err != nil {
		return models.Team{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Team{}, fmt.Errorf("oauth.v2.access: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		apiResponse
		AccessToken string `json:"access_token"`
		Team        struct {
			ID string `json:"id"`
		} `json:"team"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Team{}, fmt.Errorf("oauth.v2.access: decode response: %w", err)
	}
	if !out.OK {
		return models.Team{}, fmt.Errorf("oauth.v2.access: slack error: %s", out.Error)
	}
	return models.Team{ID: out.Team.ID, AccessToken: out.AccessToken}, nil
}
