package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/vmihailenco/msgpack/v5"

	"modsource/plugin"
)

func TestDriver_PublishesRecordKeyedByPath(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, nil)
	mp.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "modsource.records" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "dir/file.txt" {
			return errors.New("wrong key " + string(key))
		}
		raw, _ := msg.Value.Encode()
		var got plugin.Record
		if err := msgpack.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got.RuleIndex != 2 || got.Session != "s1" {
			return errors.New("unexpected record payload")
		}
		return nil
	})

	d := &driver{}
	d.use(Config{Topic: "modsource.records"}, mp)
	if err := d.Report(plugin.Record{Session: "s1", Path: "dir/file.txt", RuleIndex: 2}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestDriver_ConfigureValidates(t *testing.T) {
	d := &driver{}
	if err := d.Configure("nope"); err == nil {
		t.Fatal("expected error for foreign config")
	}
	if err := d.Configure(Config{Topic: "t"}); err == nil {
		t.Fatal("expected error without brokers")
	}
	if err := d.Report(plugin.Record{}); err == nil {
		t.Fatal("expected error when not configured")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close on unconfigured driver: %v", err)
	}
}

// stalledProducer never reads its input, like a producer whose brokers are
// down and whose buffers are full.
type stalledProducer struct {
	sarama.AsyncProducer
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newStalledProducer() *stalledProducer {
	return &stalledProducer{
		input:  make(chan *sarama.ProducerMessage),
		errors: make(chan *sarama.ProducerError),
	}
}

func (s *stalledProducer) Input() chan<- *sarama.ProducerMessage { return s.input }
func (s *stalledProducer) Errors() <-chan *sarama.ProducerError  { return s.errors }
func (s *stalledProducer) Close() error {
	close(s.errors)
	return nil
}

func TestDriver_StalledProducerDropsInsteadOfBlocking(t *testing.T) {
	d := &driver{}
	d.use(Config{Topic: "modsource.records"}, newStalledProducer())
	defer d.Close()

	p, err := plugin.New(plugin.Options{
		Debug:     true,
		Rules:     []plugin.Rule{{Test: plugin.MustPattern(`\.txt$`), Modify: func(s, _ string) (string, error) { return s, nil }}},
		Reporters: []plugin.Reporter{d},
		Registry:  plugin.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := p.NewSession()
	defer s.Close()

	m := &module{request: "dir/file.txt"}
	done := make(chan error, 1)
	go func() { done <- s.Observe(m) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Observe: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Observe blocked on a stalled producer")
	}

	if !s.Dispatched("dir/file.txt") || len(m.steps) != 1 {
		t.Fatalf("pass incomplete: dispatched=%v steps=%v", s.Dispatched("dir/file.txt"), m.steps)
	}
	if got := d.Dropped(); got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}
	if err := d.Report(plugin.Record{Path: "x"}); !errors.Is(err, ErrRecordDropped) {
		t.Fatalf("want ErrRecordDropped, got %v", err)
	}
}

func TestDriver_ReportAfterClose(t *testing.T) {
	d := &driver{}
	d.use(Config{Topic: "t"}, newStalledProducer())
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.Report(plugin.Record{Path: "x"}); err == nil || errors.Is(err, ErrRecordDropped) {
		t.Fatalf("want not-configured error, got %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

type module struct {
	request string
	steps   []plugin.Step
}

func (m *module) Request() string       { return m.request }
func (m *module) AddStep(s plugin.Step) { m.steps = append(m.steps, s) }
