package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/pkg/logger"
)

// Event is one interaction worth telling the recipient about.
type Event struct {
	RecipientID string
	ActorID     string
	Verb        string
	TargetType  string
	TargetID    string
	At          time.Time
}

// Notifier 本地异步通知投递器：有界队列 + 固定 worker，队列满时丢弃并告警
//
// Before Start (and after stop) events are delivered inline on the caller goroutine.
type Notifier struct {
	repo   repository.NotificationRepository
	unread *cache.Counter
	ch     chan Event
	wg     sync.WaitGroup

	// mu 保护 running：Notify 的检查与入队和 stop 互斥，stop 之后不会再有事件进入队列
	mu      sync.RWMutex
	running bool

	delivered atomic.Int64
	dropped   atomic.Int64
}

func NewNotifier(repo repository.NotificationRepository, unread *cache.Counter, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 10000
	}
	if unread == nil {
		unread = cache.NewCounter(nil, "unread", 0)
	}
	return &Notifier{repo: repo, unread: unread, ch: make(chan Event, queueSize)}
}

// Start launches the workers and returns their stop function. Stop drains the queue
// until ctx expires.
func (n *Notifier) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	n.setRunning(true)
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			for {
				select {
				case ev := <-n.ch:
					n.deliverWithTimeout(ev)
				case <-stopCh:
					for {
						select {
						case ev := <-n.ch:
							n.deliverWithTimeout(ev)
						default:
							return
						}
					}
				}
			}
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() {
			n.setRunning(false)
			close(stopCh)
		})
		done := make(chan struct{})
		go func() {
			n.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Notify queues ev. Self-interactions are ignored.
func (n *Notifier) Notify(ctx context.Context, ev Event) {
	if ev.RecipientID == "" || ev.RecipientID == ev.ActorID {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if n.enqueue(ev) {
		return
	}
	if err := n.deliver(ctx, ev); err != nil {
		logger.Warn("notification delivery failed", zap.String("recipient", ev.RecipientID), zap.Error(err))
	}
}

// enqueue reports false when the workers are not running and the caller must deliver.
func (n *Notifier) enqueue(ev Event) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.running {
		return false
	}
	select {
	case n.ch <- ev:
	default:
		n.dropped.Add(1)
		logger.Warn("notifier queue full, drop event",
			zap.String("recipient", ev.RecipientID), zap.String("actor", ev.ActorID), zap.String("verb", ev.Verb))
	}
	return true
}

func (n *Notifier) setRunning(v bool) {
	n.mu.Lock()
	n.running = v
	n.mu.Unlock()
}

func (n *Notifier) deliverWithTimeout(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.deliver(ctx, ev); err != nil {
		logger.Warn("notification delivery failed", zap.String("recipient", ev.RecipientID), zap.Error(err))
	}
}

func (n *Notifier) deliver(ctx context.Context, ev Event) error {
	err := n.repo.Create(ctx, &model.Notification{
		ID:          uuid.New().String(),
		RecipientID: ev.RecipientID,
		ActorID:     ev.ActorID,
		Verb:        ev.Verb,
		TargetType:  ev.TargetType,
		TargetID:    ev.TargetID,
		CreatedAt:   ev.At,
	})
	if err != nil {
		return err
	}
	n.unread.Forget(ctx, ev.RecipientID)
	n.delivered.Add(1)
	return nil
}

// QueueLen 返回当前队列长度（采样值）
func (n *Notifier) QueueLen() int { return len(n.ch) }

func (n *Notifier) Delivered() int64 { return n.delivered.Load() }

func (n *Notifier) Dropped() int64 { return n.dropped.Load() }
