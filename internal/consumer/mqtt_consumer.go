// Package consumer feeds readings pushed by the radar device over MQTT
// into the same ingest pipeline the HTTP endpoint uses. The broker
// connection is the credential on this path; there is no API key and no
// per-IP rate limit.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/mqtt"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/publish"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/service"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/sleep"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

type MQTTConsumer struct {
	client     *mqtt.Client
	topic      string
	repo       storage.ReadingRepository
	publisher  publish.Publisher
	thresholds sleep.Thresholds
	logger     internal.Logger
}

func NewMQTTConsumer(
	client *mqtt.Client,
	topic string,
	repo storage.ReadingRepository,
	publisher publish.Publisher,
	thresholds sleep.Thresholds,
	logger internal.Logger,
) *MQTTConsumer {
	return &MQTTConsumer{
		client:     client,
		topic:      topic,
		repo:       repo,
		publisher:  publisher,
		thresholds: thresholds,
		logger:     logger,
	}
}

func (c *MQTTConsumer) Start(ctx context.Context) error {
	if err := c.client.Subscribe(c.topic, 1, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to data topic: %w", err)
	}

	c.logger.Infof("MQTT consumer started on topic %s", c.topic)
	return nil
}

func (c *MQTTConsumer) Stop(ctx context.Context) error {
	if err := c.client.Unsubscribe(c.topic); err != nil {
		c.logger.Errorf("failed to unsubscribe: %v", err)
	}

	c.logger.Info("MQTT consumer stopped")
	return nil
}

// handleMessage ingests one device payload. Topic format: sleep/{device}/data.
func (c *MQTTConsumer) handleMessage(topic string, payload []byte) error {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return fmt.Errorf("invalid topic format: %s", topic)
	}
	deviceID := parts[1]

	var body service.IngestRequest
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("failed to unmarshal message from %s: %w", deviceID, err)
	}

	if err := service.ValidateIngestRequest(&body); err != nil {
		return fmt.Errorf("invalid payload from %s: %w", deviceID, err)
	}

	reading, err := service.IngestReading(context.Background(), c.repo, c.publisher, c.thresholds, c.logger, &body)
	if err != nil {
		return fmt.Errorf("failed to ingest reading from %s: %w", deviceID, err)
	}

	c.logger.Debugf("ingested MQTT reading %s from %s: stage=%s", reading.ID, deviceID, reading.SleepStage)
	return nil
}
