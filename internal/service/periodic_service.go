package service

import (
	"log"
	"sync"
	"time"
)

type PeriodicTask struct {
	handler  func()
	interval time.Duration
}

// PeriodicService keeps the registered maintenance tasks; each one runs on
// its own ticker goroutine.
type PeriodicService struct {
	mu    sync.Mutex
	tasks []PeriodicTask
}

func NewPeriodicService() *PeriodicService {
	return &PeriodicService{tasks: make([]PeriodicTask, 0)}
}

func (s *PeriodicService) Register(fn func(), interval time.Duration) {
	s.mu.Lock()
	s.tasks = append(s.tasks, PeriodicTask{fn, interval})
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Println("Periodic service panic:", r)
					}
				}()
				fn()
			}()
		}
	}()
}
