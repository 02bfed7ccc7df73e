package queue

import (
	"cloud.google.com/go/pubsub"
	"context"
	"fmt"
	"google.golang.org/api/option"
	"tldr/pkg/config"
	"tldr/pkg/log"
	"tldr/pkg/models"
)

var instance Queue

type Queue interface {
	Publish(ctx context.Context, event *models.Event) error
	Receive(ctx context.Context, callback func(*models.Event)) error
	Close() error
}

func Get() Queue {
	if instance == nil {
		panic("queue is not initialized")
	}

	return instance
}

func Initialize(ctx context.Context, cfg *config.Config) (Queue, error) {
	if instance != nil {
		return instance, nil
	}

	opts := make([]option.ClientOption, 0)
	if len(cfg.GoogleCloud.ServiceAccountFilename) > 0 {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCloud.ServiceAccountFilename))
	}

	client, err := pubsub.NewClient(ctx, cfg.GoogleCloud.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating pubsub client, %w", err)
	}

	q := &queue{
		client: client,
		topic:  client.Topic(cfg.Queue.Topic),
	}

	if len(cfg.Queue.Subscription) > 0 {
		q.subscription = client.Subscription(cfg.Queue.Subscription)
	}

	instance = q
	return instance, nil
}

type queue struct {
	client       *pubsub.Client
	topic        *pubsub.Topic
	subscription *pubsub.Subscription
}

func (q *queue) Close() error {
	q.topic.Stop()
	return q.client.Close()
}

// Publish blocks until the server has accepted the event.
func (q *queue) Publish(ctx context.Context, event *models.Event) error {
	logger := log.Logger()

	data, err := event.Serialize()
	if err != nil {
		return fmt.Errorf("error serializing event, %w", err)
	}

	result := q.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"type": event.Type},
	})
	if _, err = result.Get(ctx); err != nil {
		return fmt.Errorf("error publishing event, %w", err)
	}

	logger.Debugf(event, "published: %s", string(data))

	return nil
}

func (q *queue) Receive(ctx context.Context, callback func(*models.Event)) error {
	logger := log.Logger()

	if q.subscription == nil {
		return fmt.Errorf("no subscription configured")
	}

	return q.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		logger.Debugf(nil, "received: %s", string(msg.Data))

		event, err := models.DeserializeEvent(msg.Data)
		if err != nil {
			logger.Errorf(nil, "error deserializing event, %s", err)
			msg.Ack()
			return
		}

		msg.Ack()
		callback(event)
	})
}
