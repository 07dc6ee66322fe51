package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ApplicationMessageKind string = "talentpool.pipeline.notifications.application"
	InterviewMessageKind   string = "talentpool.pipeline.notifications.interview"
	OfferMessageKind       string = "talentpool.pipeline.notifications.offer"
	defaultTopic           string = "talentpool.pipeline.notifications"
)

// Writer is the interface to be implemented by the underlying transport.
type Writer interface {
	Write(ctx context.Context, topic string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

// Dispatcher informs candidates and internal participants after workflow
// state changed. Sending is fire-and-forget: messages are buffered and
// written from a background goroutine so callers never wait on the
// transport, and send failures are logged, not surfaced.
type Dispatcher struct {
	buffer           *buffer
	startConsumingCh chan any
	doneCh           chan any
	writer           Writer
	topic            string
}

type DispatcherOptions func(d *Dispatcher)

func WithOutputTopic(topic string) DispatcherOptions {
	return func(d *Dispatcher) {
		d.topic = topic
	}
}

func NewDispatcher(w Writer, opts ...DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		buffer:           newBuffer(),
		startConsumingCh: make(chan any),
		doneCh:           make(chan any),
		writer:           w,
		topic:            defaultTopic,
	}

	for _, o := range opts {
		o(d)
	}

	go d.run()
	return d
}

// Send enqueues a notification. A marshalling failure is the only error a
// caller ever sees; transport failures never propagate back into the
// workflow.
func (d *Dispatcher) Send(kind string, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		zap.S().Named("notify").Errorw("failed to encode notification", "kind", kind, "error", err)
		return
	}

	prevSize := d.buffer.Size()
	if err := d.buffer.PushBack(&message{Kind: kind, Data: buf.Bytes()}); err != nil {
		zap.S().Named("notify").Errorw("failed to enqueue notification", "kind", kind, "error", err)
		return
	}

	if prevSize == 0 {
		// unblock the consumer and start sending messages
		d.startConsumingCh <- struct{}{}
	}
}

func (d *Dispatcher) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(closeCtx)
	g.Go(func() error {
		d.doneCh <- struct{}{}
		return d.writer.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("notification dispatcher closed with error: %s", err)
		return err
	}

	zap.S().Named("notify").Info("notification dispatcher closed")

	return nil
}

func (d *Dispatcher) run() {
	for {
		select {
		case <-d.doneCh:
			return
		default:
		}

		if d.buffer.Size() == 0 {
			select {
			case <-d.startConsumingCh:
			case <-d.doneCh:
				return
			}
		}

		msg := d.buffer.Pop()
		if msg == nil {
			continue
		}

		e := cloudevents.NewEvent()
		e.SetID(uuid.NewString())
		e.SetSource("talentpool.pipeline")
		e.SetType(msg.Kind)
		_ = e.SetData(*cloudevents.StringOfApplicationJSON(), msg.Data)

		if err := d.writer.Write(context.TODO(), d.topic, e); err != nil {
			zap.S().Named("notify").Errorw("failed to send notification", "error", err, "event", e)
		}
	}
}
