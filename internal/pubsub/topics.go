package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

const retention = 7 * 24 * time.Hour

// TopicNames are the resources EnsureTopic manages for a topic.
type TopicNames struct {
	Topic         string
	DeadLetter    string
	Subscription  string
	DeadLetterSub string
}

func NamesFor(topicID string) TopicNames {
	return TopicNames{
		Topic:         topicID,
		DeadLetter:    topicID + "-dlq",
		Subscription:  topicID + "-sub",
		DeadLetterSub: topicID + "-dlq-sub",
	}
}

// EnsureTopic creates topicID, its dead-letter topic and a pull subscription on each when they
// do not exist yet. Existing subscriptions are updated when their settings drifted.
func EnsureTopic(ctx context.Context, client *pubsub.Client, logger zerolog.Logger, topicID string) (TopicNames, error) {
	names := NamesFor(topicID)

	dlqTopic, err := createTopicIfNotExists(ctx, client, logger, names.DeadLetter)
	if err != nil {
		return names, err
	}
	mainTopic, err := createTopicIfNotExists(ctx, client, logger, names.Topic)
	if err != nil {
		return names, err
	}

	retry := &pubsub.RetryPolicy{MinimumBackoff: 10 * time.Second, MaximumBackoff: 600 * time.Second}
	mainSub := pubsub.SubscriptionConfig{
		Topic:            mainTopic,
		AckDeadline:      60 * time.Second,
		ExpirationPolicy: 31 * 24 * time.Hour,
		RetryPolicy:      retry,
		DeadLetterPolicy: &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     dlqTopic.String(),
			MaxDeliveryAttempts: 5,
		},
	}
	if err := createOrUpdateSubscription(ctx, client, logger, names.Subscription, mainSub); err != nil {
		return names, err
	}

	dlqSub := pubsub.SubscriptionConfig{
		Topic:            dlqTopic,
		AckDeadline:      60 * time.Second,
		ExpirationPolicy: 31 * 24 * time.Hour,
		RetryPolicy:      retry,
	}
	return names, createOrUpdateSubscription(ctx, client, logger, names.DeadLetterSub, dlqSub)
}

// ResetEmulator deletes every subscription and topic of the project.
// This should ONLY be used against the local emulator.
func ResetEmulator(ctx context.Context, client *pubsub.Client, logger zerolog.Logger) error {
	subs := client.Subscriptions(ctx)
	for {
		sub, err := subs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing subscriptions: %w", err)
		}
		logger.Info().Str("subscription", sub.ID()).Msg("Deleting subscription")
		if err := sub.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("subscription", sub.ID()).Msg("Failed to delete subscription")
		}
	}

	topics := client.Topics(ctx)
	for {
		topic, err := topics.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing topics: %w", err)
		}
		logger.Info().Str("topic", topic.ID()).Msg("Deleting topic")
		if err := topic.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("topic", topic.ID()).Msg("Failed to delete topic")
		}
	}
	return nil
}

func createTopicIfNotExists(ctx context.Context, client *pubsub.Client, logger zerolog.Logger, topicID string) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking topic %s: %w", topicID, err)
	}
	if !exists {
		logger.Info().Str("topic", topicID).Dur("retention", retention).Msg("Creating topic")
		return client.CreateTopicWithConfig(ctx, topicID, &pubsub.TopicConfig{RetentionDuration: retention})
	}

	cfg, err := topic.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading config of topic %s: %w", topicID, err)
	}
	if cfg.RetentionDuration != retention {
		logger.Warn().Str("topic", topicID).Msgf("Retention is %v, expected %v; update it manually", cfg.RetentionDuration, retention)
	}
	return topic, nil
}

func createOrUpdateSubscription(ctx context.Context, client *pubsub.Client, logger zerolog.Logger, subID string, want pubsub.SubscriptionConfig) error {
	sub := client.Subscription(subID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("checking subscription %s: %w", subID, err)
	}
	if !exists {
		logger.Info().Str("subscription", subID).Msg("Creating subscription")
		if _, err := client.CreateSubscription(ctx, subID, want); err != nil {
			return fmt.Errorf("creating subscription %s: %w", subID, err)
		}
		return nil
	}

	have, err := sub.Config(ctx)
	if err != nil {
		return fmt.Errorf("reading config of subscription %s: %w", subID, err)
	}
	if !subscriptionDrifted(have, want) {
		logger.Info().Str("subscription", subID).Msg("Subscription is up to date")
		return nil
	}

	logger.Info().Str("subscription", subID).Msg("Updating subscription")
	_, err = sub.Update(ctx, pubsub.SubscriptionConfigToUpdate{
		AckDeadline: want.AckDeadline,
		RetryPolicy: want.RetryPolicy,
	})
	if err != nil {
		return fmt.Errorf("updating subscription %s: %w", subID, err)
	}
	return nil
}

func subscriptionDrifted(have, want pubsub.SubscriptionConfig) bool {
	if have.AckDeadline != want.AckDeadline {
		return true
	}
	if (have.RetryPolicy == nil) != (want.RetryPolicy == nil) {
		return true
	}
	if have.RetryPolicy != nil {
		return have.RetryPolicy.MinimumBackoff != want.RetryPolicy.MinimumBackoff ||
			have.RetryPolicy.MaximumBackoff != want.RetryPolicy.MaximumBackoff
	}
	return false
}
