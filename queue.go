// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// Queue is a bounded FIFO with two waiter lists — offer-waiters for a full
// queue, take-waiters for an empty one — at most one of which is non-empty
// at any time. Capacity 0 is legal and turns Queue into a
// synchronous rendezvous: an Offer only completes once a matching Take is
// waiting.
type Queue[A any] struct {
	capacity int
	buf      []A
	offerers []queueWaiter[A]
	takers   []func(A)
}

type queueWaiter[A any] struct {
	value A
	// notify resumes the waiting offerer once value has been handed to a
	// taker or admitted to the buffer. After the offerer cancels, notify
	// is a no-op, but value is still delivered when its turn comes.
	notify func()
}

// NewQueue builds an empty Queue with the given capacity.
func NewQueue[A any](capacity int) *Queue[A] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[A]{capacity: capacity}
}

// QueueOffer enqueues a, handing it directly to a waiting taker if one
// exists, buffering it if capacity remains, or suspending the caller as an
// offer-waiter otherwise.
func QueueOffer[R, A any](q *Queue[A], a A) Effect[R, error, struct{}] {
	return Suspend(func() Effect[R, error, struct{}] {
		if len(q.takers) > 0 {
			taker := q.takers[0]
			q.takers = q.takers[1:]
			taker(a)
			return Of[R, error, struct{}](struct{}{})
		}
		if len(q.buf) < q.capacity {
			q.buf = append(q.buf, a)
			return Of[R, error, struct{}](struct{}{})
		}
		return From[R, error, struct{}](func(_ R, _ Scheduler, _ func(error), resolve func(struct{})) CancelFunc {
			fired := false
			w := queueWaiter[A]{value: a, notify: func() {
				if fired {
					return
				}
				fired = true
				resolve(struct{}{})
			}}
			q.offerers = append(q.offerers, w)
			idx := len(q.offerers) - 1
			return func() {
				if fired {
					return
				}
				fired = true
				if idx >= 0 && idx < len(q.offerers) {
					q.offerers[idx].notify = func() {}
				}
			}
		})
	})
}

// QueueTake removes and returns the oldest value, pulling the oldest
// waiting offer (if any) into the freed slot, or suspending the caller as
// a take-waiter if the queue is empty.
func QueueTake[R, A any](q *Queue[A]) Effect[R, error, A] {
	return Suspend(func() Effect[R, error, A] {
		if len(q.buf) > 0 {
			v := q.buf[0]
			q.buf = q.buf[1:]
			q.admitNextOfferer()
			return Of[R, error, A](v)
		}
		if len(q.offerers) > 0 {
			w := q.offerers[0]
			q.offerers = q.offerers[1:]
			w.notify()
			return Of[R, error, A](w.value)
		}
		return From[R, error, A](func(_ R, _ Scheduler, _ func(error), resolve func(A)) CancelFunc {
			fired := false
			notify := func(v A) {
				if fired {
					return
				}
				fired = true
				resolve(v)
			}
			q.takers = append(q.takers, notify)
			idx := len(q.takers) - 1
			return func() {
				if fired {
					return
				}
				fired = true
				if idx >= 0 && idx < len(q.takers) {
					q.takers[idx] = func(A) {}
				}
			}
		})
	})
}

// admitNextOfferer moves the oldest waiting offer's value into the buffer
// (capacity just freed by a Take) and wakes that offerer.
func (q *Queue[A]) admitNextOfferer() {
	if len(q.offerers) == 0 {
		return
	}
	w := q.offerers[0]
	q.offerers = q.offerers[1:]
	q.buf = append(q.buf, w.value)
	w.notify()
}

// QueueSize reports the number of buffered values.
func QueueSize[R, A any](q *Queue[A]) Effect[R, error, int] {
	return Suspend(func() Effect[R, error, int] {
		return Of[R, error, int](len(q.buf))
	})
}
