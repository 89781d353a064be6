package client

import (
	"context"
	"sync"
	"time"

	"github.com/krakosik/guessing/internal/dto"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const votesExchange = "votes"

type RabbitClient interface {
	PublishMessage(ctx context.Context, message []byte) error
	Close() error
}

type rabbitClient struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchangeName string
	mu           sync.RWMutex
	closed       chan struct{}
	closeOnce    sync.Once
}

func NewRabbitMQClient(config dto.Config) (RabbitClient, error) {
	conn, ch, err := dialExchange(config.RabbitMQURL, votesExchange)
	if err != nil {
		return nil, err
	}

	client := &rabbitClient{
		conn:         conn,
		channel:      ch,
		exchangeName: votesExchange,
		closed:       make(chan struct{}),
	}

	go client.monitorConnection(config.RabbitMQURL)

	return client, nil
}

func dialExchange(url, exchangeName string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

func (c *rabbitClient) monitorConnection(url string) {
	connCloseChan := make(chan *amqp.Error, 1)
	c.mu.RLock()
	c.conn.NotifyClose(connCloseChan)
	c.mu.RUnlock()

	select {
	case <-c.closed:
		return
	case err := <-connCloseChan:
		logrus.Errorf("RabbitMQ connection closed: %v", err)
	}

	for {
		select {
		case <-c.closed:
			return
		case <-time.After(5 * time.Second):
		}

		logrus.Info("Attempting to reconnect to RabbitMQ...")
		conn, ch, err := dialExchange(url, c.exchangeName)
		if err != nil {
			logrus.Errorf("Failed to reconnect to RabbitMQ: %v", err)
			continue
		}

		c.mu.Lock()
		oldConn := c.conn
		oldChannel := c.channel
		c.conn = conn
		c.channel = ch
		c.mu.Unlock()

		if oldChannel != nil {
			oldChannel.Close()
		}
		if oldConn != nil {
			oldConn.Close()
		}

		go c.monitorConnection(url)
		return
	}
}

func (c *rabbitClient) PublishMessage(ctx context.Context, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		"",             // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		})
}

func (c *rabbitClient) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// noopRabbitClient stands in when no broker is configured.
type noopRabbitClient struct{}

func newNoopRabbitClient() RabbitClient {
	return noopRabbitClient{}
}

func (noopRabbitClient) PublishMessage(context.Context, []byte) error {
	return nil
}

func (noopRabbitClient) Close() error {
	return nil
}
