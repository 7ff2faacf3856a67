package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain/notification"
)

const SubjectPrefix = "market.events"

// AllSubjects matches every kind
var AllSubjects = SubjectPrefix + ".*"

func Subject(kind notification.Kind) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, kind)
}

// Event is a fact on the wire. Id makes redelivery detectable downstream.
type Event struct {
	Id string `json:"id"`
	notification.Fact
}

func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Log().WithField("err", err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			log.Log().WithField("url", conn.ConnectedUrl()).Info("nats reconnected")
		}),
	)
}

type publisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) notification.Publisher {
	return &publisher{conn: conn}
}

func (p *publisher) Publish(c ctx.Ctx, fact notification.Fact) error {
	data, err := Encode(fact)
	if err != nil {
		c.WithField("err", err).Error("failed to encode event")
		return err
	}
	if err := p.conn.Publish(Subject(fact.Kind), data); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"kind": fact.Kind,
		}).Error("conn.Publish failed")
		return err
	}
	return nil
}

func Encode(fact notification.Fact) ([]byte, error) {
	return json.Marshal(&Event{Id: uuid.NewString(), Fact: fact})
}

func Decode(data []byte) (*Event, error) {
	e := &Event{}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, err
	}
	if e.Id == "" || e.Kind == "" {
		return nil, fmt.Errorf("incomplete event: %s", data)
	}
	return e, nil
}

type Handler func(c ctx.Ctx, e *Event) error

// Subscribe delivers every event to handler. Subscribers sharing a queue
// group split the stream between them.
func Subscribe(c ctx.Ctx, conn *nats.Conn, queue string, handler Handler) (*nats.Subscription, error) {
	return conn.QueueSubscribe(AllSubjects, queue, func(msg *nats.Msg) {
		e, err := Decode(msg.Data)
		if err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"subject": msg.Subject,
			}).Error("failed to decode event")
			return
		}
		ec := ctx.WithValues(c, map[string]interface{}{
			"eventId": e.Id,
			"kind":    e.Kind,
		})
		if err := handler(ec, e); err != nil {
			ec.WithField("err", err).Error("failed to handle event")
		}
	})
}
