package common

import (
	"sync"

	"github.com/kataras/golog"
	"github.com/streadway/amqp"
)

// DrawsExchange is the fanout exchange every draw batch is published on.
const DrawsExchange = "draws"

func declareDrawsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		DrawsExchange, // name
		"fanout",      // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
}

type AMQPConsumer struct {
	amqpConn  *amqp.Connection
	amqpChan  *amqp.Channel
	amqpQueue amqp.Queue

	queueName    string
	consumerName string

	amqpConsumer <-chan amqp.Delivery
	callback     func(DrawBatch) error
	wg           sync.WaitGroup
}

func NewAMQPConsumer(url, queueName, consumerName string, callback func(DrawBatch) error) (*AMQPConsumer, error) {
	var err error
	consumer := AMQPConsumer{
		callback: callback,

		queueName:    queueName,
		consumerName: consumerName,
	}

	if consumer.amqpConn, err = amqp.Dial(url); err != nil {
		return nil, err
	}

	if consumer.amqpChan, err = consumer.amqpConn.Channel(); err != nil {
		_ = consumer.amqpConn.Close()
		return nil, err
	}

	if err = declareDrawsExchange(consumer.amqpChan); err != nil {
		_ = consumer.Close()
		return nil, err
	}

	if consumer.amqpQueue, err = consumer.amqpChan.QueueDeclare(
		queueName, // name
		false,     // durable
		false,     // delete when unused
		true,      // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		_ = consumer.Close()
		return nil, err
	}

	if err = consumer.amqpChan.QueueBind(
		consumer.amqpQueue.Name, // queue name
		"",                      // routing key
		DrawsExchange,           // exchange
		false,
		nil,
	); err != nil {
		_ = consumer.Close()
		return nil, err
	}

	return &consumer, nil
}

func (c *AMQPConsumer) Start() error {
	var err error

	if c.amqpConsumer, err = c.amqpChan.Consume(
		c.amqpQueue.Name, // queue
		c.consumerName,   // consumer
		true,             // auto-ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,              // args
	); err != nil {
		return err
	}

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		for delivery := range c.amqpConsumer {
			batch, err := DecodeDrawBatch(delivery.Body)
			if err != nil {
				golog.Errorf("%s: %s", c.consumerName, err)
				continue
			}

			if err = c.callback(batch); err != nil {
				golog.Errorf("%s: handling a batch of %d draws failed: %s", c.consumerName, batch.Len(), err)
			}
		}
	}()

	return nil
}

func (c *AMQPConsumer) Stop() error {
	return c.amqpChan.Cancel(c.consumerName, false)
}

func (c *AMQPConsumer) Wait() {
	c.wg.Wait()
}

func (c *AMQPConsumer) Close() error {
	var err error

	if err = c.amqpChan.Close(); err != nil {
		return err
	}

	return c.amqpConn.Close()
}

// AMQPPublisher publishes gob encoded draw batches on DrawsExchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	amqpConn *amqp.Connection
	amqpChan *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	var err error
	publisher := &AMQPPublisher{}

	if publisher.amqpConn, err = amqp.Dial(url); err != nil {
		return nil, err
	}

	if publisher.amqpChan, err = publisher.amqpConn.Channel(); err != nil {
		_ = publisher.amqpConn.Close()
		return nil, err
	}

	if err = declareDrawsExchange(publisher.amqpChan); err != nil {
		_ = publisher.Close()
		return nil, err
	}

	return publisher, nil
}

func (p *AMQPPublisher) Publish(batch DrawBatch) error {
	body, err := EncodeDrawBatch(batch)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.amqpChan.Publish(
		DrawsExchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/octet-stream",
			Body:        body,
		})
}

func (p *AMQPPublisher) Close() error {
	if err := p.amqpChan.Close(); err != nil {
		return err
	}

	return p.amqpConn.Close()
}
