package scheduler

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// PubsubTopicChecker implements TopicChecker against the live Pub/Sub
// service.
type PubsubTopicChecker struct {
	client *pubsub.Client
}

// NewPubsubTopicChecker wraps an existing pubsub client.
func NewPubsubTopicChecker(client *pubsub.Client) *PubsubTopicChecker {
	return &PubsubTopicChecker{client: client}
}

// TopicExists checks the short topic name within the client's project.
func (p *PubsubTopicChecker) TopicExists(ctx context.Context, topic string) (bool, error) {
	exists, err := p.client.Topic(topic).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("topic exists: %w", err)
	}
	return exists, nil
}
