package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/actiongate/service/messaging"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
)

// State represents where a message sits in the filesystem queue.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Message implements messaging.Message backed by a JSON file.
type Message[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	State     State     `json:"state"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Retries   int       `json:"retries"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack marks the message completed and moves its file out of processing.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = StateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.complete(context.Background(), m)
}

// Nack records the failure; the message is parked in the failed directory
// for redelivery, or dead-lettered once retries are exhausted.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = StateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	return m.queue.fail(context.Background(), m)
}

// Config holds configuration for the filesystem queue.
type Config struct {
	BasePath   string
	MaxRetries int
}

// DefaultConfig returns a default queue configuration.
func DefaultConfig() Config {
	return Config{
		BasePath:   "/tmp/actiongate/dispatch",
		MaxRetries: 3,
	}
}

// Queue implements a durable messaging.Queue on top of an afs file system.
// Each message lives as a JSON file that migrates between per-state
// directories; messages survive a process restart in whatever directory
// they were last placed.
type Queue[T any] struct {
	fs     afs.Service
	config Config
	dirs   map[State]string
	dlqDir string
	mu     sync.Mutex
}

// NewQueue creates a new filesystem-backed queue.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	q := &Queue[T]{
		fs:     fs,
		config: config,
		dirs: map[State]string{
			StatePending:    path.Join(config.BasePath, "pending"),
			StateProcessing: path.Join(config.BasePath, "processing"),
			StateCompleted:  path.Join(config.BasePath, "completed"),
			StateFailed:     path.Join(config.BasePath, "failed"),
		},
		dlqDir: path.Join(config.BasePath, "dlq"),
	}
	ctx := context.Background()
	for _, dir := range q.dirs {
		if err := q.ensureDir(ctx, dir); err != nil {
			return nil, err
		}
	}
	if err := q.ensureDir(ctx, q.dlqDir); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Queue[T]) ensureDir(ctx context.Context, dir string) error {
	exists, _ := q.fs.Exists(ctx, dir)
	if exists {
		return nil
	}
	if err := q.fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Publish writes a new message into the pending directory.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		State:     StatePending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.upload(ctx, path.Join(q.dirs[StatePending], q.filename(message.ID)), data)
}

// Consume claims the oldest retryable or pending message, moving its file
// into the processing directory. It returns (nil, nil) when the queue is
// empty.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	if msg, err := q.claim(ctx, q.dirs[StateFailed], true); msg != nil || err != nil {
		return orNil(msg), err
	}
	msg, err := q.claim(ctx, q.dirs[StatePending], false)
	return orNil(msg), err
}

// orNil avoids returning a typed-nil messaging.Message interface value.
func orNil[T any](m *Message[T]) messaging.Message[T] {
	if m == nil {
		return nil
	}
	return m
}

// claim moves the oldest message file from dir into processing. When
// retrying, messages past the retry budget are routed to the DLQ instead.
func (q *Queue[T]) claim(ctx context.Context, dir string, retrying bool) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var obj storage.Object
	for _, candidate := range objects {
		if !candidate.IsDir() && strings.HasSuffix(candidate.Name(), ".json") {
			obj = candidate
			break
		}
	}
	if obj == nil {
		return nil, nil
	}

	message, err := q.read(ctx, obj.URL())
	if err != nil {
		// Unreadable payload is unrecoverable, park it on the DLQ.
		_ = q.fs.Move(ctx, obj.URL(), path.Join(q.dlqDir, "invalid-"+obj.Name()))
		return nil, err
	}
	if retrying && message.Retries > q.config.MaxRetries {
		if err := q.fs.Move(ctx, obj.URL(), path.Join(q.dlqDir, obj.Name())); err != nil {
			return nil, fmt.Errorf("failed to dead-letter message: %w", err)
		}
		return nil, nil
	}

	message.State = StateProcessing
	message.UpdatedAt = time.Now()
	message.queue = q

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := q.upload(ctx, path.Join(q.dirs[StateProcessing], obj.Name()), data); err != nil {
		return nil, fmt.Errorf("failed to move message to processing: %w", err)
	}
	if err := q.fs.Delete(ctx, obj.URL()); err != nil {
		return nil, fmt.Errorf("failed to remove claimed message: %w", err)
	}
	return message, nil
}

func (q *Queue[T]) complete(ctx context.Context, m *Message[T]) error {
	return q.move(ctx, m, q.dirs[StateCompleted])
}

func (q *Queue[T]) fail(ctx context.Context, m *Message[T]) error {
	dest := q.dirs[StateFailed]
	if m.Retries > q.config.MaxRetries {
		dest = q.dlqDir
	}
	return q.move(ctx, m, dest)
}

// move rewrites the message file under dest and drops the processing copy.
func (q *Queue[T]) move(ctx context.Context, m *Message[T], dest string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	filename := q.filename(m.ID)
	if err := q.upload(ctx, path.Join(dest, filename), data); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", dest, err)
	}
	processingPath := path.Join(q.dirs[StateProcessing], filename)
	if exists, _ := q.fs.Exists(ctx, processingPath); exists {
		if err := q.fs.Delete(ctx, processingPath); err != nil {
			return fmt.Errorf("failed to delete processing copy: %w", err)
		}
	}
	return nil
}

func (q *Queue[T]) filename(id string) string {
	return id + ".json"
}

func (q *Queue[T]) upload(ctx context.Context, dest string, data []byte) error {
	return q.fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewBuffer(data))
}

func (q *Queue[T]) read(ctx context.Context, url string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", url, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", url, err)
	}
	return &message, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
