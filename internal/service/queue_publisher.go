// Package service holds the side services of the portal: publishing
// activity events to RabbitMQ and building spreadsheet exports.
package service

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/employee-portal/internal/queue"
)

// ActivityPublisher publishes activity events to the durable
// employee.activity queue.  The connection is opened on first use and
// re-opened after a failure.  Errors are logged and returned; callers may
// ignore them without interrupting the request.
type ActivityPublisher struct {
    url         string
    dialTimeout time.Duration

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel
}

func NewActivityPublisher(url string) *ActivityPublisher {
    return &ActivityPublisher{url: url, dialTimeout: 2 * time.Second}
}

// Publish sends ev as a persistent JSON message.
func (p *ActivityPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        log.Errorf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channelLocked()
    if err != nil {
        log.Warnf("rabbitmq: %v", err)
        return err
    }
    err = ch.PublishWithContext(ctx,
        "",                      // default exchange
        queue.ActivityQueueName, // routing key = queue name
        false,                   // mandatory
        false,                   // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            MessageId:    ev.ID,
            Type:         ev.Type,
            Timestamp:    time.Now().UTC(),
            Body:         body,
        })
    if err != nil {
        log.Warnf("rabbitmq: publish %s failed: %v", ev.Type, err)
        p.resetLocked()
        return err
    }
    return nil
}

// Close releases the broker connection.
func (p *ActivityPublisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.resetLocked()
    return nil
}

func (p *ActivityPublisher) channelLocked() (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    p.resetLocked()

    conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
    if err != nil {
        return nil, err
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, err
    }
    if _, err := ch.QueueDeclare(queue.ActivityQueueName, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, err
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

func (p *ActivityPublisher) resetLocked() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}
