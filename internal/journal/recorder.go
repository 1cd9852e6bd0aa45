package journal

import (
	"context"
	"sync"

	"tilecraft/internal/events"
	"tilecraft/pkg/logger"

	"github.com/sirupsen/logrus"
)

const subscriberName = "journal"

// Entry is one journal line.
type Entry struct {
	Seq uint64 `json:"seq"`
	events.Event
}

// Recorder copies bus events into a Writer from its own goroutine.
type Recorder struct {
	bus  *events.Bus
	w    *Writer
	feed <-chan events.Event
	seq  uint64

	wg   sync.WaitGroup
	once sync.Once
	log  *logrus.Entry
}

// NewRecorder subscribes to bus with the given buffer.
func NewRecorder(bus *events.Bus, w *Writer, buffer int) *Recorder {
	return &Recorder{
		bus:  bus,
		w:    w,
		feed: bus.Subscribe(subscriberName, buffer),
		log:  logger.Component("journal"),
	}
}

// Start begins recording until ctx is done or Stop is called.
func (r *Recorder) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				r.bus.Unsubscribe(subscriberName)
				r.drain()
				return
			case ev, ok := <-r.feed:
				if !ok {
					return
				}
				r.record(ev)
			}
		}
	}()
}

// drain writes whatever is still buffered on a closed feed.
func (r *Recorder) drain() {
	for ev := range r.feed {
		r.record(ev)
	}
}

func (r *Recorder) record(ev events.Event) {
	r.seq++
	if err := r.w.Write(Entry{Seq: r.seq, Event: ev}); err != nil {
		r.log.WithError(err).WithField("type", ev.Type).Warn("journal write failed")
	}
}

// Stop unsubscribes, waits for pending events to be written and closes the
// writer. It is safe to call more than once.
func (r *Recorder) Stop() error {
	var err error
	r.once.Do(func() {
		r.bus.Unsubscribe(subscriberName)
		r.wg.Wait()
		err = r.w.Close()
	})
	return err
}
