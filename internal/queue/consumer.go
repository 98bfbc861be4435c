// Package queue carries portal activity over RabbitMQ: the event payload
// and the background consumer that appends each event to logs/activity.log
// and records it in the activity store.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/employee-portal/internal/model"
    "github.com/iliyamo/employee-portal/internal/repository"
)

// Recorder stores consumed activity.  *repository.ActivityRepo implements it.
type Recorder interface {
    Insert(ctx context.Context, a model.Activity) error
}

// Consumer reads the activity queue.
type Consumer struct {
    URL    string
    LogDir string   // defaults to "logs"
    Store  Recorder // optional
}

// Run connects to the broker and consumes until ctx is cancelled.  Lost
// connections are re-dialled with exponential backoff capped at 30s.  A
// message that cannot be handled is rejected without requeue so it cannot
// spin.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Warnf("activity-consumer: dial failed: %v; retrying in %s", err, backoff)
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warnf("activity-consumer: consume loop ended: %v; reconnecting", err)
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(2 * time.Second):
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warnf("activity-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(ActivityQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(ActivityQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handle(ctx, d.Body); err != nil {
                log.Errorf("activity-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// handle writes one event to the activity log and the store.  Events the
// store already holds, or a store that is not configured, are not errors.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
    var ev ActivityEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    at, err := time.Parse(time.RFC3339, ev.OccurredAt)
    if err != nil {
        return fmt.Errorf("occurred_at %q: %w", ev.OccurredAt, err)
    }
    if err := c.appendLog(ev); err != nil {
        return err
    }
    if c.Store == nil {
        return nil
    }
    err = c.Store.Insert(ctx, model.Activity{
        ID:         ev.ID,
        Type:       ev.Type,
        Email:      ev.Email,
        EmployeeID: ev.EmployeeID,
        Actor:      ev.Actor,
        OccurredAt: at,
    })
    if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrUnavailable) {
        return nil
    }
    return err
}

func (c *Consumer) appendLog(ev ActivityEvent) error {
    dir := c.LogDir
    if dir == "" {
        dir = "logs"
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, "activity.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] %s | id=%s | email=%q | employee_id=%d | actor=%s\n",
        ev.OccurredAt, ev.Type, ev.ID, ev.Email, ev.EmployeeID, ev.Actor)
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
