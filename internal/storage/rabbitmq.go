package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ai-hire-go/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ScoringEvent 候选人阶段评分事件。
// 每当简历/笔试/面试任一阶段产生得分并重算最终得分后发布，
// 供下游（通知、报表归档等）消费；发布失败不影响评分事务本身。
type ScoringEvent struct {
	ApplicationID  string    `json:"application_id"`
	JobID          string    `json:"job_id"`
	Stage          string    `json:"stage"` // resume / test / interview
	StageScore     int       `json:"stage_score"`
	FinalScore     int       `json:"final_score"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// RabbitMQ RabbitMQ适配器，发布评分事件
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     *config.RabbitMQConfig
	mu      sync.Mutex
}

// NewRabbitMQ 连接RabbitMQ并声明评分事件交换机（topic，持久化）
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开RabbitMQ通道失败: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.ScoringExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明交换机 %s 失败: %w", cfg.ScoringExchange, err)
	}

	return &RabbitMQ{conn: conn, channel: channel, cfg: cfg}, nil
}

// Close 关闭通道与连接
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// PublishScoringEvent 发布一条评分事件（JSON，持久化投递）
func (r *RabbitMQ) PublishScoringEvent(ctx context.Context, event ScoringEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化评分事件失败: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx,
		time.Duration(r.cfg.PublishTimeoutSecs)*time.Second)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.channel.PublishWithContext(
		publishCtx,
		r.cfg.ScoringExchange,
		r.cfg.ScoredRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("发布评分事件失败: %w", err)
	}
	return nil
}
