package scheduler

import "github.com/me/scoop/pkg/model"

const minQueueCap = 8

// Queue is a FIFO of jobs backed by a growable ring buffer. Arrivals and
// round-robin re-arrivals both join at the tail.
type Queue struct {
	buf  []*model.Job
	head int
	size int
}

// NewQueue creates a queue with room for at least n jobs.
func NewQueue(n int) *Queue {
	if n < minQueueCap {
		n = minQueueCap
	}
	return &Queue{buf: make([]*model.Job, n)}
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int { return q.size }

// Empty returns true if no job is queued.
func (q *Queue) Empty() bool { return q.size == 0 }

// Push appends a job at the tail.
func (q *Queue) Push(j *model.Job) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = j
	q.size++
}

// Pop removes and returns the head job, or nil if the queue is empty.
func (q *Queue) Pop() *model.Job {
	if q.size == 0 {
		return nil
	}
	j := q.buf[q.head]
	q.buf[q.head] = nil // avoid memory leak
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return j
}

// Peek returns the head job without removing it, or nil if empty.
func (q *Queue) Peek() *model.Job {
	if q.size == 0 {
		return nil
	}
	return q.buf[q.head]
}

// Snapshot returns the queued jobs in FIFO order.
func (q *Queue) Snapshot() []model.Job {
	out := make([]model.Job, 0, q.size)
	for i := 0; i < q.size; i++ {
		out = append(out, *q.buf[(q.head+i)%len(q.buf)])
	}
	return out
}

func (q *Queue) grow() {
	n := len(q.buf) * 2
	if n < minQueueCap {
		n = minQueueCap
	}
	buf := make([]*model.Job, n)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
