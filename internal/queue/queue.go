package queue

import (
	"log"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Message carries one unit of background work.
type Message struct {
	Topic string
	Data  any
}

// Queue is the in-process topic queue. Producers never block: a full topic
// drops the message with a log line. Consumers run on a bounded goroutine
// pool per topic.
type Queue struct {
	topics map[string]chan Message
	lock   sync.RWMutex
}

func NewQueue() *Queue {
	return &Queue{
		topics: make(map[string]chan Message),
	}
}

func (q *Queue) CheckTopic(topic string) chan Message {
	q.lock.RLock()
	ch, exists := q.topics[topic]
	q.lock.RUnlock()

	if exists {
		return ch
	}

	q.lock.Lock()
	defer q.lock.Unlock()

	ch, exists = q.topics[topic]
	if !exists {
		ch = make(chan Message, 1000)
		q.topics[topic] = ch
	}
	return ch
}

// Produce sends a message without blocking.
func (q *Queue) Produce(topic string, data any) {
	ch := q.CheckTopic(topic)

	select {
	case ch <- Message{Topic: topic, Data: data}:
	default:
		log.Printf("queue %s full, message dropped\n", topic)
	}
}

// RegisterConsumer handles the topic on a pool of n workers. A panicking
// handler is recovered so one bad message cannot take the process down.
func (q *Queue) RegisterConsumer(topic string, handler func(Message), n int) {
	ch := q.CheckTopic(topic)

	pool, err := ants.NewPool(n)
	if err != nil {
		log.Fatal("Consumer pool creation failed:", err)
	}

	go func() {
		for msg := range ch {
			msg := msg
			err := pool.Submit(func() {
				defer func() {
					if r := recover(); r != nil {
						log.Println("Consumer panic:", r)
					}
				}()
				handler(msg)
			})
			if err != nil {
				log.Println("Consumer submit failed:", err)
			}
		}
	}()
}
