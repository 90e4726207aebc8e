package logic

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// ConversionObserver receives one event per finished conversion.
type ConversionObserver interface {
	ObserveConversion(nodeCount int, duration time.Duration)
}

type ConversionLogger struct {
	logger *log.Logger
}

func NewConversionLogger(logger *log.Logger) *ConversionLogger {
	return &ConversionLogger{logger: logger}
}

func (l *ConversionLogger) ObserveConversion(nodeCount int, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf("logic_convert nodes=%d duration_ms=%.3f", nodeCount, float64(duration.Microseconds())/1000.0)
}

// AsyncConversionObserver decouples observation from the request path; events
// that do not fit the buffer are dropped and counted.
type AsyncConversionObserver struct {
	next    ConversionObserver
	events  chan conversionEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type conversionEvent struct {
	nodeCount int
	duration  time.Duration
}

func NewAsyncConversionObserver(next ConversionObserver, buffer int) *AsyncConversionObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncConversionObserver{
		next:   next,
		events: make(chan conversionEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			o.next.ObserveConversion(ev.nodeCount, ev.duration)
		}
	}()

	return o
}

func (o *AsyncConversionObserver) ObserveConversion(nodeCount int, duration time.Duration) {
	if o == nil {
		return
	}
	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- conversionEvent{nodeCount: nodeCount, duration: duration}:
	default:
		o.dropped.Add(1)
	}
	o.mu.RUnlock()
}

func (o *AsyncConversionObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

func (o *AsyncConversionObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
