package syncs

import "sync"

type Semaphore chan bool

func NewSemaphore(n int) Semaphore {
	return make(chan bool, n)
}

func (s Semaphore) Acquire() {
	s <- true
}

func (s Semaphore) Release() {
	<-s
}

// Go runs fn in a new goroutine holding the semaphore. It blocks until the semaphore is acquired.
func (s Semaphore) Go(wg *sync.WaitGroup, fn func()) {
	s.Acquire()
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer s.Release()
		fn()
	}()
}
