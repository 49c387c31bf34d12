package stream

// queue is the single ordered FIFO between the producer roles and the
// consumer. It is unbounded: producers never wait on consumer speed,
// and relative arrival order across producers is preserved. The
// buffer lives in the pump goroutine between the in and out channels.
type queue[T any] struct {
	in  chan T
	out chan T
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{
		in:  make(chan T),
		out: make(chan T),
	}

	go q.pump()

	return q
}

func (q *queue[T]) pump() {
	var buf []T

	for {
		if len(buf) == 0 {
			v, ok := <-q.in
			if !ok {
				close(q.out)

				return
			}

			buf = append(buf, v)
		}

		select {
		case v, ok := <-q.in:
			if !ok {
				for _, pending := range buf {
					q.out <- pending
				}

				close(q.out)

				return
			}

			buf = append(buf, v)
		case q.out <- buf[0]:
			buf = buf[1:]
		}
	}
}

func (q *queue[T]) push(v T) {
	q.in <- v
}

// closeIn ends the queue once every producer has stopped; buffered
// items still drain to out before it closes.
func (q *queue[T]) closeIn() {
	close(q.in)
}
