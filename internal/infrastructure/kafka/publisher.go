// Package kafka publica eventos de inventario con IBM/sarama.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/pkg/config"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// EventTypeStockMoved valor de la cabecera event_type.
const EventTypeStockMoved = "stock_moved"

// Publisher productor síncrono de eventos de inventario.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

var _ inventory.EventPublisher = (*Publisher)(nil)

// NewPublisher crea el productor contra los brokers configurados.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) (*Publisher, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = 3
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("kafka: crear productor: %w", err)
	}
	return newPublisher(producer, cfg.Topic, log), nil
}

func newPublisher(producer sarama.SyncProducer, topic string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{producer: producer, topic: topic, log: log.Component("kafka")}
}

// PublishStockMoved publica el evento con el material como clave de partición.
func (p *Publisher) PublishStockMoved(_ context.Context, event inventory.StockMovedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.MaterialID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventTypeStockMoved)},
			{Key: []byte("event_id"), Value: []byte(event.MovementID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka: enviar mensaje: %w", err)
	}

	p.log.Debug().
		Str("topic", p.topic).
		Str("movement_id", event.MovementID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("evento de movimiento publicado")
	return nil
}

// Close cierra el productor.
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher descarta los eventos; se usa cuando no hay brokers configurados.
type NopPublisher struct{}

var _ inventory.EventPublisher = NopPublisher{}

// PublishStockMoved no hace nada.
func (NopPublisher) PublishStockMoved(context.Context, inventory.StockMovedEvent) error { return nil }
