package kafka

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/IBM/sarama"
	"github.com/vmihailenco/msgpack/v5"

	"modsource/internal/logging"
	"modsource/plugin"
	"modsource/sink"
)

type Config struct {
	Brokers      []string `koanf:"brokers"`
	Topic        string   `koanf:"topic"`
	RequiredAcks int16    `koanf:"required_acks"` // 0,1,-1
	Version      string   `koanf:"version"`
}

// ErrRecordDropped is returned by Report when the producer is not accepting
// input. Report runs under the session lock and must never wait on it.
var ErrRecordDropped = errors.New("kafka-sink: producer busy, record dropped")

// driver publishes each record msgpack-encoded, keyed by module path.
type driver struct {
	cfg  Config
	done chan struct{}

	mu      sync.Mutex
	p       sarama.AsyncProducer
	dropped atomic.Int64
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return fmt.Errorf("kafka-sink: brokers and topic are required")
	}

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.RequiredAcks)
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	p, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return err
	}
	d.use(cfg, p)
	return nil
}

func (d *driver) use(cfg Config, p sarama.AsyncProducer) {
	d.cfg = cfg
	d.done = make(chan struct{})
	d.mu.Lock()
	d.p = p
	d.mu.Unlock()
	go d.drainErrors(p)
}

// Return.Errors is on by default; an undrained channel stalls the producer.
func (d *driver) drainErrors(p sarama.AsyncProducer) {
	defer close(d.done)
	for err := range p.Errors() {
		logging.L().Warn("kafka-sink: publish failed", "topic", d.cfg.Topic, "err", err.Err)
	}
}

func (d *driver) Report(r plugin.Record) error {
	val, err := msgpack.Marshal(r)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(r.Path),
		Value: sarama.ByteEncoder(val),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.p == nil {
		return fmt.Errorf("kafka-sink: not configured")
	}
	select {
	case d.p.Input() <- msg:
		return nil
	default:
		d.dropped.Add(1)
		return ErrRecordDropped
	}
}

// Dropped is the number of records refused by a busy producer.
func (d *driver) Dropped() int64 { return d.dropped.Load() }

func (d *driver) Close() error {
	d.mu.Lock()
	p := d.p
	d.p = nil
	d.mu.Unlock()
	if p == nil {
		return nil
	}
	err := p.Close()
	<-d.done
	return err
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
