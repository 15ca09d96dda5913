package poller

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const reasonExpired = "expired"

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// SessionExpirer is notified when the auth layer revokes the session.
type SessionExpirer interface {
	ExpireSession(ctx context.Context) error
}

type authNotification struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// Poller consumes auth notifications for a single session.
type Poller struct {
	reader    messageReader
	sessionID string
	expirer   SessionExpirer
	logger    *zap.Logger
}

// NewPoller joins a consumer group of its own: every process must see every
// notification, since only the one serving the session can act on it.
func NewPoller(topic, groupPrefix, sessionID string, expirer SessionExpirer, logger *zap.Logger, brokers ...string) *Poller {
	reader := kafka.NewReader(readerConfig(topic, groupPrefix, sessionID, brokers))
	return &Poller{reader: reader, sessionID: sessionID, expirer: expirer, logger: logger}
}

func readerConfig(topic, groupPrefix, sessionID string, brokers []string) kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     sessionGroup(groupPrefix, sessionID),
		StartOffset: kafka.LastOffset, // a new group skips notifications older than the process
		MaxBytes:    10e6,             // 10MB
	}
}

func sessionGroup(prefix, sessionID string) string {
	return prefix + "-" + sessionID
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.processMessage(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.logger.Error("error closing reader", zap.Error(err))
	}
}

func (p *Poller) processMessage(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.logger.Error("error reading message", zap.Error(err))
		return
	}

	var n authNotification
	if err := json.Unmarshal(m.Value, &n); err != nil {
		p.logger.Warn("error parsing message", zap.Error(err), zap.Int64("offset", m.Offset))
		return
	}
	if n.SessionID != p.sessionID || n.Reason != reasonExpired {
		return
	}

	if err := p.expirer.ExpireSession(ctx); err != nil {
		p.logger.Error("failed to expire session", zap.String("session_id", n.SessionID), zap.Error(err))
	}
}
