package crawler

import (
	"testing"
	"time"
)

func TestURLQueuePushDequeueFIFO(t *testing.T) {
	q := newURLQueue()
	q.Push("a")
	q.Push("b")

	item, ok := q.Dequeue(dequeueTimeout)
	if !ok || item != "a" {
		t.Errorf("Dequeue failed: expected a got %q ok=%v", item, ok)
	}
	q.Done()

	item, ok = q.Dequeue(dequeueTimeout)
	if !ok || item != "b" {
		t.Errorf("Dequeue failed: expected b got %q ok=%v", item, ok)
	}
	q.Done()
}

func TestURLQueueDequeueTimeout(t *testing.T) {
	q := newURLQueue()
	start := time.Now()
	_, ok := q.Dequeue(50 * time.Millisecond)
	if ok {
		t.Errorf("Dequeue failed: expected timeout on empty queue")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Dequeue failed: returned before timeout elapsed (%v)", elapsed)
	}
}

func TestURLQueueDequeueWakesOnPush(t *testing.T) {
	q := newURLQueue()
	done := make(chan string, 1)
	go func() {
		item, ok := q.Dequeue(2 * time.Second)
		if ok {
			done <- item
		} else {
			done <- ""
		}
	}()
	time.Sleep(20 * time.Millisecond)
	q.Push("late")

	select {
	case item := <-done:
		if item != "late" {
			t.Errorf("Dequeue failed: expected late got %q", item)
		}
	case <-time.After(time.Second):
		t.Fatalf("Dequeue failed: did not wake up on push")
	}
	q.Done()
}

func TestURLQueueDrainBalancesAccounting(t *testing.T) {
	q := newURLQueue()
	q.Push("a")
	q.Push("b")
	q.Push("c")
	n := q.Drain()
	if n != 3 {
		t.Errorf("Drain failed: expected 3 discarded got %d", n)
	}
	waited := make(chan struct{})
	go func() {
		q.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatalf("Wait failed: pending count did not reach zero after Drain")
	}
}
