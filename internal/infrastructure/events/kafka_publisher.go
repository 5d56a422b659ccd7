package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/pkg/config"
	"github.com/segmentio/kafka-go"
)

// EventMovementRecorded valor de la cabecera event_type.
const EventMovementRecorded = "inventory.movement.recorded"

// MessageWriter lo que el publicador necesita de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ inventory.MovementPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher publica movimientos confirmados. La clave del mensaje es el ID de la pieza,
// así los movimientos de una misma pieza caen en la misma partición y conservan su orden.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher crea el writer contra los brokers configurados.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.MovementsTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	})
}

// NewKafkaPublisherWithWriter permite inyectar el writer (tests).
func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishMovementRecorded serializa el evento y lo escribe en el topic.
func (p *KafkaPublisher) PublishMovementRecorded(ctx context.Context, event inventory.MovementRecordedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ItemID),
		Value: payload,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventMovementRecorded)},
			{Key: "movement_type", Value: []byte(event.MovementTypeCode)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
