package domain

import "context"

// FeedMessage is one decoded post observed on the feed.
type FeedMessage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// FeedSource supplies feed messages, blocking until one is available.
// Implementations return ErrMalformedMessage (wrapped) for a payload that
// could not be decoded; the source stays usable after such an error.
type FeedSource interface {
	Next(ctx context.Context) (FeedMessage, error)
}

// StreamRuleManager registers the provider-side filter that scopes the feed
// to one account.
type StreamRuleManager interface {
	EnsureRule(ctx context.Context, username, tag string) (ruleID string, err error)
}
