package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/mock"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/models"
)

// memQueueStore: хранилище очереди в памяти; хранит копию последнего Save.
type memQueueStore struct {
	mu      sync.Mutex
	ops     []models.QueuedOperation
	saves   int
	saveErr error
	loadErr error
}

func (s *memQueueStore) Load(_ context.Context) ([]models.QueuedOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]models.QueuedOperation, len(s.ops))
	for i, op := range s.ops {
		out[i] = op.Clone()
	}
	return out, nil
}

func (s *memQueueStore) Save(_ context.Context, ops []models.QueuedOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.ops = make([]models.QueuedOperation, len(ops))
	for i, op := range ops {
		s.ops[i] = op.Clone()
	}
	return nil
}

func (s *memQueueStore) Close() error { return nil }

func (s *memQueueStore) stored() []models.QueuedOperation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.QueuedOperation(nil), s.ops...)
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestQueue(t *testing.T, s store.QueueStore) *operationQueue {
	t.Helper()
	q := NewOperationQueue(s, metrics.NopSyncObserver{}, logger.Nop()).(*operationQueue)
	q.now = func() time.Time { return fixedNow }
	return q
}

func checkIn(site string) json.RawMessage {
	return json.RawMessage(`{"site_id":"` + site + `"}`)
}

func ids(ops []models.QueuedOperation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.ID
	}
	return out
}

// ── Enqueue ──────────────────────────────────────────────────────────────────

func TestOperationQueue_Enqueue_PersistsBeforeReturn(t *testing.T) {
	s := &memQueueStore{}
	q := newTestQueue(t, s)

	op, err := q.Enqueue(context.Background(), models.KindCheckIn, checkIn("s1"))
	require.NoError(t, err)

	assert.NotEmpty(t, op.ID)
	assert.Equal(t, models.KindCheckIn, op.Kind)
	assert.Equal(t, 0, op.RetryCount)
	assert.Equal(t, fixedNow, op.EnqueuedAt)
	assert.Equal(t, len(`{"site_id":"s1"}`), op.ApproximateSize)

	stored := s.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, op, stored[0])
	assert.Equal(t, 1, q.Len())
}

func TestOperationQueue_Enqueue_UniqueIDs(t *testing.T) {
	q := newTestQueue(t, &memQueueStore{})

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		op, err := q.Enqueue(context.Background(), models.KindNote, json.RawMessage(`{"text":"x"}`))
		require.NoError(t, err)
		_, dup := seen[op.ID]
		require.False(t, dup, "id %s выдан дважды", op.ID)
		seen[op.ID] = struct{}{}
	}
}

func TestOperationQueue_Enqueue_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.OperationKind
		payload json.RawMessage
		wantErr error
	}{
		{name: "unknown kind", kind: "invoice", payload: checkIn("s1"), wantErr: ErrUnknownKind},
		{name: "invalid json", kind: models.KindCheckIn, payload: json.RawMessage(`{"site_id":`), wantErr: ErrInvalidPayload},
		{name: "empty payload", kind: models.KindCheckIn, payload: nil, wantErr: ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &memQueueStore{}
			q := newTestQueue(t, s)

			_, err := q.Enqueue(context.Background(), tt.kind, tt.payload)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, q.Len())
			assert.Equal(t, 0, s.saves)
		})
	}
}

func TestOperationQueue_Enqueue_CopiesPayload(t *testing.T) {
	q := newTestQueue(t, &memQueueStore{})
	payload := []byte(`{"text":"a"}`)

	_, err := q.Enqueue(context.Background(), models.KindNote, payload)
	require.NoError(t, err)
	payload[9] = 'b'

	assert.JSONEq(t, `{"text":"a"}`, string(q.All()[0].Payload))
}

// ── Durability ───────────────────────────────────────────────────────────────

func TestOperationQueue_Durability_ReloadEqualsBeforeRestart(t *testing.T) {
	ctx := context.Background()
	s := &memQueueStore{}
	q := newTestQueue(t, s)

	for _, site := range []string{"a", "b", "c"} {
		_, err := q.Enqueue(ctx, models.KindCheckIn, checkIn(site))
		require.NoError(t, err)
	}
	second := q.All()[1].ID
	_, err := q.IncrementRetry(ctx, second)
	require.NoError(t, err)

	before := q.All()

	// «перезапуск»: новая очередь поверх того же хранилища
	restarted := newTestQueue(t, s)
	require.NoError(t, restarted.Load(ctx))

	assert.Equal(t, before, restarted.All())
}

func TestOperationQueue_Durability_FileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.json")

	fileStore, err := store.NewFileQueueStore(path, logger.Nop())
	require.NoError(t, err)
	q := newTestQueue(t, fileStore)

	_, err = q.Enqueue(ctx, models.KindCheckIn, checkIn("a"))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, models.KindNote, json.RawMessage(`{"text":"hello"}`))
	require.NoError(t, err)
	_, err = q.IncrementRetry(ctx, q.All()[0].ID)
	require.NoError(t, err)

	reopened, err := store.NewFileQueueStore(path, logger.Nop())
	require.NoError(t, err)
	restarted := newTestQueue(t, reopened)
	require.NoError(t, restarted.Load(ctx))

	assert.Equal(t, q.All(), restarted.All())
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestOperationQueue_Load_UnreadableFileIsReturnedAndKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")
	fileStore, err := store.NewFileQueueStore(path, logger.Nop())
	require.NoError(t, err)

	// каталог на месте файла: чтение падает, но это не повреждённые данные
	require.NoError(t, os.Mkdir(path, 0o755))

	q := newTestQueue(t, fileStore)
	err = q.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrCorruptQueueState)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestOperationQueue_Load_UnusableStateIsEmpty(t *testing.T) {
	for _, loadErr := range []error{store.ErrCorruptQueueState, store.ErrIncompatibleQueueVersion} {
		t.Run(loadErr.Error(), func(t *testing.T) {
			q := newTestQueue(t, &memQueueStore{loadErr: loadErr})

			require.NoError(t, q.Load(context.Background()))
			assert.Equal(t, 0, q.Len())
		})
	}
}

func TestOperationQueue_Load_StoreErrorIsReturned(t *testing.T) {
	q := newTestQueue(t, &memQueueStore{loadErr: errors.New("disk gone")})

	err := q.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestOperationQueue_Load_DropsDuplicatesAndClampsRetries(t *testing.T) {
	s := &memQueueStore{ops: []models.QueuedOperation{
		{ID: "a", Kind: models.KindNote, Payload: json.RawMessage(`{}`), RetryCount: -2},
		{ID: "b", Kind: models.KindNote, Payload: json.RawMessage(`{}`), RetryCount: 1},
		{ID: "a", Kind: models.KindNote, Payload: json.RawMessage(`{}`)},
		{ID: "", Kind: models.KindNote, Payload: json.RawMessage(`{}`)},
	}}
	q := newTestQueue(t, s)

	require.NoError(t, q.Load(context.Background()))

	all := q.All()
	assert.Equal(t, []string{"a", "b"}, ids(all))
	assert.Equal(t, 0, all[0].RetryCount)
	assert.Equal(t, 1, q.RetryingCount())
}

// ── Remove / IncrementRetry / Clear ─────────────────────────────────────────

func TestOperationQueue_Remove_AbsentIsNoop(t *testing.T) {
	s := &memQueueStore{}
	q := newTestQueue(t, s)

	require.NoError(t, q.Remove(context.Background(), "missing"))
	assert.Equal(t, 0, s.saves)
}

func TestOperationQueue_Remove_KeepsOrder(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, &memQueueStore{})

	var all []string
	for _, site := range []string{"a", "b", "c"} {
		op, err := q.Enqueue(ctx, models.KindCheckIn, checkIn(site))
		require.NoError(t, err)
		all = append(all, op.ID)
	}

	require.NoError(t, q.Remove(ctx, all[1]))
	assert.Equal(t, []string{all[0], all[2]}, ids(q.All()))
	assert.False(t, q.Contains(all[1]))
}

func TestOperationQueue_IncrementRetry(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, &memQueueStore{})
	op, err := q.Enqueue(ctx, models.KindCheckIn, checkIn("a"))
	require.NoError(t, err)

	n, err := q.IncrementRetry(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = q.IncrementRetry(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, q.RetryingCount())

	_, err = q.IncrementRetry(ctx, "missing")
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestOperationQueue_Clear_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := &memQueueStore{}
	q := newTestQueue(t, s)
	_, err := q.Enqueue(ctx, models.KindCheckIn, checkIn("a"))
	require.NoError(t, err)

	require.NoError(t, q.Clear(ctx))
	assert.Equal(t, 0, q.Len())
	require.NoError(t, q.Clear(ctx))
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, s.stored())
}

// ── Snapshots and listeners ─────────────────────────────────────────────────

func TestOperationQueue_All_ReturnsDeepCopy(t *testing.T) {
	q := newTestQueue(t, &memQueueStore{})
	_, err := q.Enqueue(context.Background(), models.KindNote, json.RawMessage(`{"text":"a"}`))
	require.NoError(t, err)

	snapshot := q.All()
	snapshot[0].Payload[9] = 'z'
	snapshot[0].RetryCount = 7

	fresh := q.All()[0]
	assert.JSONEq(t, `{"text":"a"}`, string(fresh.Payload))
	assert.Equal(t, 0, fresh.RetryCount)
}

func TestOperationQueue_OnChange(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, &memQueueStore{})

	var got []int
	remove := q.OnChange(func(pending int) { got = append(got, pending) })

	op, err := q.Enqueue(ctx, models.KindCheckIn, checkIn("a"))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, models.KindCheckIn, checkIn("b"))
	require.NoError(t, err)
	require.NoError(t, q.Remove(ctx, op.ID))

	remove()
	require.NoError(t, q.Clear(ctx))

	assert.Equal(t, []int{1, 2, 1}, got)
}

// ── Persistence failures ────────────────────────────────────────────────────

func TestOperationQueue_SaveFailure_KeepsOperationInMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mock.NewMockQueueStore(ctrl)
	q := newTestQueue(t, mockStore)
	ctx := context.Background()

	mockStore.EXPECT().Save(ctx, gomock.Any()).Return(errors.New("quota exceeded"))

	op, err := q.Enqueue(ctx, models.KindCheckIn, checkIn("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotDurable)
	assert.True(t, q.Contains(op.ID))
	assert.False(t, q.StorageDegraded())
}

func TestOperationQueue_SaveFailure_DegradesAndRecovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mock.NewMockQueueStore(ctrl)
	q := newTestQueue(t, mockStore)
	ctx := context.Background()

	gomock.InOrder(
		mockStore.EXPECT().Save(ctx, gomock.Any()).Return(errors.New("io")).Times(3),
		// Flush повторяет запись последнего состояния
		mockStore.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, ops []models.QueuedOperation) error {
				assert.Len(t, ops, 3)
				return nil
			}),
	)

	for _, site := range []string{"a", "b", "c"} {
		_, err := q.Enqueue(ctx, models.KindCheckIn, checkIn(site))
		require.ErrorIs(t, err, ErrNotDurable)
	}
	assert.True(t, q.StorageDegraded())

	require.NoError(t, q.Flush(ctx))
	assert.False(t, q.StorageDegraded())

	// состояние чистое: Flush больше ничего не пишет
	require.NoError(t, q.Flush(ctx))
}

func TestOperationQueue_Flush_CleanIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mock.NewMockQueueStore(ctrl)
	q := newTestQueue(t, mockStore)

	require.NoError(t, q.Flush(context.Background()))
}

func TestOperationQueue_Flush_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := &memQueueStore{saveErr: errors.New("disk full")}
	q := newTestQueue(t, s)

	_, err := q.Enqueue(ctx, models.KindCheckIn, checkIn("a"))
	require.ErrorIs(t, err, ErrNotDurable)

	s.mu.Lock()
	s.saveErr = nil
	s.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Flush(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, ids(q.All()), ids(s.stored()))
	assert.NoError(t, q.Flush(ctx))
}
