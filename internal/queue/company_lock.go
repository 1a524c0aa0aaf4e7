package queue

import "sync"

// CompanyLocks serializes dataset appends per company. Concurrent parse
// jobs for the same company would otherwise race on the read-append-write
// cycle and lose rows.
type CompanyLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewCompanyLocks() *CompanyLocks {
	return &CompanyLocks{locks: make(map[uint]*sync.Mutex)}
}

func (c *CompanyLocks) get(companyID uint) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, exists := c.locks[companyID]
	if !exists {
		lock = &sync.Mutex{}
		c.locks[companyID] = lock
	}
	return lock
}

func (c *CompanyLocks) Lock(companyID uint)   { c.get(companyID).Lock() }
func (c *CompanyLocks) Unlock(companyID uint) { c.get(companyID).Unlock() }
