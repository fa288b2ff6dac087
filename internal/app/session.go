package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/zone"
)

// subscriberBuffer bounds each subscriber's result channel; a slow
// consumer loses records rather than stalling the analysis loop.
const subscriberBuffer = 8

// job is one queued asynchronous analysis request. Exactly one of Frame
// and Hands is set.
type job struct {
	frame *pipeline.FrameInput
	hands *pipeline.HandsInput
	thr   *zone.Thresholds
}

// Session is one analysis stream: a pipeline (and therefore one motion
// tracker), a capacity-one mailbox implementing the keep-only-latest
// backpressure policy, and a set of result subscribers.
//
// Synchronous Analyze calls and the mailbox worker serialize on the same
// mutex, so the tracker is never mutated from two calls concurrently.
type Session struct {
	ID      string
	Created time.Time

	app  *App
	pipe *pipeline.Pipeline

	mu       sync.Mutex
	lastZone zone.Zone

	mailbox chan job
	stopCh  chan struct{}
	done    chan struct{}

	subMu  sync.RWMutex
	subs   map[chan *pipeline.Result]struct{}
	closed bool
}

func newSession(a *App, id string, opts pipeline.Options) *Session {
	s := &Session{
		ID:      id,
		Created: time.Now(),
		app:     a,
		pipe:    pipeline.New(opts),
		mailbox: make(chan job, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		subs:    make(map[chan *pipeline.Result]struct{}),
	}
	go s.run()
	return s
}

// Options returns the session's resolved pipeline configuration.
func (s *Session) Options() pipeline.Options {
	return s.pipe.Options()
}

// TrackCount returns the number of live hand tracks.
func (s *Session) TrackCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipe.ActiveTracks()
}

// AnalyzeFrame runs the contour path synchronously and returns the result
// record. Malformed buffers fail the call with no result.
func (s *Session) AnalyzeFrame(in pipeline.FrameInput, thr *zone.Thresholds) (*pipeline.Result, error) {
	start := time.Now()

	s.mu.Lock()
	res, err := s.pipe.ProcessFrame(in, thr)
	transitioned := err == nil && s.noteZone(res.Zone)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.finish(metrics.PathFrame, res, transitioned, start)
	return res, nil
}

// AnalyzeHands runs the landmark path synchronously and returns the result
// record. Malformed skeletons fail the call with no result.
func (s *Session) AnalyzeHands(in pipeline.HandsInput, thr *zone.Thresholds) (*pipeline.Result, error) {
	start := time.Now()

	s.mu.Lock()
	res, err := s.pipe.ProcessHands(in, thr)
	transitioned := err == nil && s.noteZone(res.Zone)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.finish(metrics.PathLandmarks, res, transitioned, start)
	return res, nil
}

// noteZone records the zone of an evaluated frame and reports whether it
// changed. Callers hold s.mu.
func (s *Session) noteZone(z zone.Zone) bool {
	if z == s.lastZone {
		return false
	}
	s.lastZone = z
	return true
}

// finish publishes one evaluated frame: metrics, zone hooks on a
// transition, and fan-out to subscribers.
func (s *Session) finish(path string, res *pipeline.Result, transitioned bool, start time.Time) {
	metrics.ObserveAnalysis(path, string(res.Zone), time.Since(start))
	s.app.refreshTrackGauge()

	if transitioned {
		s.app.fireHooks(res.Zone, res)
	}
	s.broadcast(res)
}

// SubmitFrame queues a contour-path analysis without waiting for the
// result; subscribers receive it. A queued-but-unprocessed submission is
// replaced by a newer one.
func (s *Session) SubmitFrame(in pipeline.FrameInput, thr *zone.Thresholds) {
	s.submit(job{frame: &in, thr: thr})
}

// SubmitHands queues a landmark-path analysis without waiting for the
// result.
func (s *Session) SubmitHands(in pipeline.HandsInput, thr *zone.Thresholds) {
	s.submit(job{hands: &in, thr: thr})
}

// submit implements keep-only-latest: the mailbox holds at most one job,
// and a newer submission evicts an unprocessed older one.
func (s *Session) submit(j job) {
	for {
		select {
		case s.mailbox <- j:
			return
		default:
		}

		select {
		case <-s.mailbox:
			metrics.FrameDropped()
		default:
		}
	}
}

// run is the session worker: it drains the mailbox one job at a time, so
// an in-flight frame always completes before the next is started.
func (s *Session) run() {
	defer close(s.done)

	for {
		select {
		case <-s.stopCh:
			return
		case j := <-s.mailbox:
			var err error
			if j.frame != nil {
				_, err = s.AnalyzeFrame(*j.frame, j.thr)
			} else if j.hands != nil {
				_, err = s.AnalyzeHands(*j.hands, j.thr)
			}
			if err != nil {
				// Async callers have no return path; surface the
				// fault to subscribers as an error record.
				log.Printf("Session %s: %v", s.ID, err)
				s.broadcast(&pipeline.Result{
					Zone:         zone.Error,
					ErrorMessage: err.Error(),
				})
			}
		}
	}
}

// Subscribe registers a result channel receiving every record this session
// emits. Records are dropped for subscribers that fall behind.
func (s *Session) Subscribe() chan *pipeline.Result {
	ch := make(chan *pipeline.Result, subscriberBuffer)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *Session) Unsubscribe(ch chan *pipeline.Result) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *Session) broadcast(res *pipeline.Result) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for ch := range s.subs {
		select {
		case ch <- res:
		default:
		}
	}
}

// close stops the worker and closes all subscriber channels.
func (s *Session) close() {
	close(s.stopCh)
	<-s.done

	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}
