// Package dealer hands out non-overlapping xoshiro256+ streams derived from
// one master seed and serves draw requests against them on a pool of workers.
package dealer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kataras/golog"
	"github.com/xor-shift/prng/common"
	"github.com/xor-shift/prng/rng"
)

var (
	ErrStopped = errors.New("dealer is stopped")
	ErrRecord  = errors.New("recording stream failed")
	ErrPublish = errors.New("publishing draws failed")
)

type JumpKind string

const (
	JumpShort JumpKind = "short"
	JumpLong  JumpKind = "long"
)

func ParseJumpKind(s string) (JumpKind, error) {
	switch JumpKind(s) {
	case "", JumpShort:
		return JumpShort, nil
	case JumpLong:
		return JumpLong, nil
	}

	return "", fmt.Errorf("unknown jump kind %q", s)
}

// Stream is a starting state handed to exactly one consumer.
type Stream struct {
	ID    uint64   `json:"id"`
	Seed  uint64   `json:"seed"`
	Index uint64   `json:"index"`
	Kind  JumpKind `json:"kind"`
	State string   `json:"state"`
}

type Publisher interface {
	Publish(batch common.DrawBatch) error
}

type drawResult struct {
	batch common.DrawBatch
	err   error
}

type drawRequest struct {
	spec   common.DrawSpec
	result chan drawResult
}

type Dealer struct {
	store     Store
	publisher Publisher
	logger    *golog.Logger

	seed uint64

	// mu guards the master generator and the stream counter only.
	mu     sync.Mutex
	master *rng.Xoshiro256PState
	handed uint64

	stopOnce    sync.Once
	done        chan struct{}
	workersDone chan struct{}

	workerWG *sync.WaitGroup
	requests chan drawRequest
}

func New(seed uint64, store Store, publisher Publisher, logger *golog.Logger) *Dealer {
	if logger == nil {
		logger = golog.Default
	}

	return &Dealer{
		store:     store,
		publisher: publisher,
		logger:    logger,

		seed:   seed,
		master: rng.NewXoshiro256P(seed),

		done:        make(chan struct{}),
		workersDone: make(chan struct{}),

		workerWG: &sync.WaitGroup{},
		requests: make(chan drawRequest, 128),
	}
}

func (d *Dealer) stopped() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Allocate hands out the current master state and moves the master past it.
// A short jump leaves 2^128 draws for the stream, a long jump 2^192.
func (d *Dealer) Allocate(ctx context.Context, kind JumpKind) (Stream, error) {
	if d.stopped() {
		return Stream{}, ErrStopped
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	stream := Stream{
		Seed:  d.seed,
		Index: d.handed,
		Kind:  kind,
		State: d.master.String(),
	}

	previous := *d.master

	switch kind {
	case JumpShort:
		d.master.Jump()
	case JumpLong:
		d.master.LongJump()
	default:
		return Stream{}, fmt.Errorf("unknown jump kind %q", kind)
	}

	id, err := d.store.RecordStream(ctx, stream)
	if err != nil {
		// the stream was never handed out, so it can be handed out again
		*d.master = previous
		return Stream{}, fmt.Errorf("%w (stream %d): %s", ErrRecord, stream.Index, err)
	}

	stream.ID = id
	d.handed++

	d.logger.Infof("handed out stream %d (id %d, %s jump)", stream.Index, stream.ID, kind)

	return stream, nil
}

// Resume moves the master past the latest stream recorded for the seed, so a
// restarted dealer never hands out a stream twice.
func (d *Dealer) Resume(ctx context.Context) error {
	latest, ok, err := d.store.LatestStream(ctx, d.seed)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRecord, err)
	}

	if !ok {
		return nil
	}

	master, err := rng.ParseXoshiro256P(latest.State)
	if err != nil {
		return fmt.Errorf("stream %d has a bad state: %w", latest.Index, err)
	}

	switch latest.Kind {
	case JumpShort:
		master.Jump()
	case JumpLong:
		master.LongJump()
	default:
		return fmt.Errorf("stream %d has an unknown jump kind %q", latest.Index, latest.Kind)
	}

	d.mu.Lock()
	d.master = master
	d.handed = latest.Index + 1
	d.mu.Unlock()

	d.logger.Infof("resuming after stream %d of seed %#x", latest.Index, d.seed)

	return nil
}

// Submit queues spec for the workers and waits for the drawn batch.
func (d *Dealer) Submit(ctx context.Context, spec common.DrawSpec) (common.DrawBatch, error) {
	if err := spec.Validate(); err != nil {
		return common.DrawBatch{}, err
	}

	if d.stopped() {
		return common.DrawBatch{}, ErrStopped
	}

	request := drawRequest{spec: spec, result: make(chan drawResult, 1)}

	select {
	case d.requests <- request:
	case <-d.done:
		return common.DrawBatch{}, ErrStopped
	case <-ctx.Done():
		return common.DrawBatch{}, ctx.Err()
	}

	select {
	case res := <-request.result:
		return res.batch, res.err
	case <-d.workersDone:
		// a worker may have answered right before exiting
		select {
		case res := <-request.result:
			return res.batch, res.err
		default:
			return common.DrawBatch{}, ErrStopped
		}
	case <-ctx.Done():
		return common.DrawBatch{}, ctx.Err()
	}
}

// Start starts a certain number of worker goroutines for draw requests.
// Requests are independent of each other, so any number of workers is fine.
func (d *Dealer) Start(numWorkers uint) {
	d.workerWG.Add(int(numWorkers))

	for i := uint(0); i < numWorkers; i++ {
		go d.task()
	}
}

// Stop rejects further requests, fails the queued ones with ErrStopped and
// waits for the batches being drawn to finish.
func (d *Dealer) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
		d.workerWG.Wait()
		close(d.workersDone)
	})
}

func (d *Dealer) process(spec common.DrawSpec) (common.DrawBatch, error) {
	batch, err := Draw(spec)
	if err != nil {
		return batch, err
	}

	if d.publisher != nil {
		if err = d.publisher.Publish(batch); err != nil {
			return batch, fmt.Errorf("%w (%d draws): %s", ErrPublish, batch.Len(), err)
		}
	}

	return batch, nil
}

func (d *Dealer) task() {
	defer d.workerWG.Done()

	for {
		select {
		case <-d.done:
			d.reject()
			return
		case request := <-d.requests:
			batch, err := d.process(request.spec)
			if err != nil {
				d.logger.Errorf("error while drawing a batch of %d %s values: %s", request.spec.Count, request.spec.Kind, err)
			}

			request.result <- drawResult{batch: batch, err: err}
		}
	}
}

func (d *Dealer) reject() {
	for {
		select {
		case request := <-d.requests:
			request.result <- drawResult{err: ErrStopped}
		default:
			return
		}
	}
}
