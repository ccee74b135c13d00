package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"announcebot/internal/domain"
)

type streamRule struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Tag   string `json:"tag"`
}

type listRulesResponse struct {
	Data []streamRule `json:"data"`
}

type addRulesRequest struct {
	Add []streamRule `json:"add"`
}

type addRulesResponse struct {
	Data []streamRule `json:"data"`
	Meta struct {
		Summary struct {
			Created int `json:"created"`
		} `json:"summary"`
	} `json:"meta"`
	Errors []apiError `json:"errors"`
}

type ruleManager struct {
	client *Client
	logger *slog.Logger
}

// NewRuleManager returns a StreamRuleManager backed by the rules endpoint.
func NewRuleManager(client *Client, logger *slog.Logger) domain.StreamRuleManager {
	return &ruleManager{client: client, logger: logger}
}

// EnsureRule makes sure a rule tagged tag exists, adding "from:<username>"
// when it does not. It returns the rule's ID.
func (m *ruleManager) EnsureRule(ctx context.Context, username, tag string) (string, error) {
	if username == "" || tag == "" {
		return "", fmt.Errorf("%w: username and tag are required", domain.ErrInvalidInput)
	}

	req, err := m.client.newRequest(ctx, http.MethodGet, rulesPath, nil)
	if err != nil {
		return "", err
	}
	var existing listRulesResponse
	if err := m.client.doJSON(req, &existing); err != nil {
		return "", fmt.Errorf("failed to list stream rules: %w", err)
	}
	for _, r := range existing.Data {
		if r.Tag == tag {
			m.logger.InfoContext(ctx, "stream rule present", "rule_id", r.ID, "tag", tag, "value", r.Value)
			return r.ID, nil
		}
	}

	body, err := json.Marshal(addRulesRequest{Add: []streamRule{{Value: "from:" + username, Tag: tag}}})
	if err != nil {
		return "", fmt.Errorf("failed to encode rule: %w", err)
	}
	req, err = m.client.newRequest(ctx, http.MethodPost, rulesPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	var added addRulesResponse
	if err := m.client.doJSON(req, &added); err != nil {
		return "", fmt.Errorf("failed to add stream rule: %w", err)
	}
	if added.Meta.Summary.Created != 1 || len(added.Data) == 0 {
		if len(added.Errors) > 0 {
			return "", fmt.Errorf("stream rule not created: %s", added.Errors[0])
		}
		return "", errors.New("stream rule not created")
	}

	id := added.Data[0].ID
	m.logger.InfoContext(ctx, "stream rule added", "rule_id", id, "tag", tag, "username", username)
	return id, nil
}
