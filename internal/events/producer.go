// Package events publishes ride lifecycle events to Kafka for downstream
// consumers (analytics, demo dashboards). Publishing is best-effort.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	RideRequested     = "ride_requested"
	RideAccepted      = "ride_accepted"
	RideRejected      = "ride_rejected"
	ReminderScheduled = "reminder_scheduled"
)

type RideEvent struct {
	Event    string    `json:"event"`
	RideID   string    `json:"rideId"`
	UserID   string    `json:"userId"`
	DriverID string    `json:"driverId"`
	At       time.Time `json:"at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &Producer{writer: w}
}

func (p *Producer) Publish(ev RideEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, _ := json.Marshal(ev)
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.RideID), Value: b})
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
