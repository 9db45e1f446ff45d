package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/entry"
	"github.com/nezhar/voicevault/internal/logger"
)

type fakeEntryStore struct {
	mu        sync.Mutex
	created   []entry.Entry
	createErr error
	notify    chan struct{}
}

func (f *fakeEntryStore) Create(ctx context.Context, e *entry.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *e)
	if f.notify != nil {
		select {
		case f.notify <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *fakeEntryStore) FetchNewDownloads(ctx context.Context, limit int) ([]entry.Entry, error) {
	return nil, nil
}

func (f *fakeEntryStore) StageUploads(ctx context.Context, limit int) ([]entry.Entry, error) {
	return nil, nil
}

func (f *fakeEntryStore) FetchInProgress(ctx context.Context, limit int) ([]entry.Entry, error) {
	return nil, nil
}

func (f *fakeEntryStore) ClaimForProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeEntryStore) SetFileReference(ctx context.Context, id uuid.UUID, fileRef, filename string) error {
	return nil
}

func (f *fakeEntryStore) MarkReady(ctx context.Context, id uuid.UUID, transcript string) (bool, error) {
	return false, nil
}

func (f *fakeEntryStore) Requeue(ctx context.Context, id uuid.UUID, errorMessage string) (bool, error) {
	return false, nil
}

func (f *fakeEntryStore) Fail(ctx context.Context, id uuid.UUID, errorMessage string) (bool, error) {
	return false, nil
}

type fakeBlobStore struct {
	mu             sync.Mutex
	putKey         string
	putContentType string
	putErr         error
	deleted        []string
}

func (f *fakeBlobStore) Exists(ctx context.Context, key string) (bool, error) { return true, nil }

func (f *fakeBlobStore) Info(ctx context.Context, key string) (*blob.Info, error) {
	return &blob.Info{}, nil
}

func (f *fakeBlobStore) FetchToLocal(ctx context.Context, key, dir string) (string, error) {
	return "", nil
}

func (f *fakeBlobStore) Put(ctx context.Context, localPath, key, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.putKey = key
	f.putContentType = contentType
	return nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestWatcher(store *fakeEntryStore, bs *fakeBlobStore) *implWatcher {
	return &implWatcher{
		store:  store,
		blob:   bs,
		logger: logger.New("error"),
	}
}

func writeInboxFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("media-bytes"), 0o644); err != nil {
		t.Fatalf("write inbox file: %v", err)
	}
	return path
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	path := writeInboxFile(t, dir, "Standup Notes.mp3")

	store := &fakeEntryStore{}
	bs := &fakeBlobStore{}
	w := newTestWatcher(store, bs)

	if err := w.ingest(context.Background(), path); err != nil {
		t.Fatalf("ingest() error = %v", err)
	}

	parts := strings.Split(bs.putKey, "/")
	if len(parts) != 3 || parts[0] != "files" || parts[2] != "Standup Notes.mp3" {
		t.Fatalf("staged key = %q, want files/<id>/Standup Notes.mp3", bs.putKey)
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		t.Errorf("staged key %q does not embed an entry id", bs.putKey)
	}
	if bs.putContentType != "audio/mpeg" {
		t.Errorf("content type = %q, want audio/mpeg", bs.putContentType)
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d entries, want 1", len(store.created))
	}
	e := store.created[0]
	if e.Title != "Standup Notes" {
		t.Errorf("Title = %q, want extension stripped", e.Title)
	}
	if e.SourceType != entry.SourceUpload || e.Status != entry.StatusNew {
		t.Errorf("entry = %s/%s, want upload/new", e.SourceType, e.Status)
	}
	if e.FileRef == nil || *e.FileRef != bs.putKey {
		t.Errorf("FileRef = %v, want the staged key", e.FileRef)
	}
	if e.Filename == nil || *e.Filename != "Standup Notes.mp3" {
		t.Errorf("Filename = %v", e.Filename)
	}
	if e.ID.String() != parts[1] {
		t.Errorf("entry id %s does not match the staged key %q", e.ID, bs.putKey)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("ingested file should be removed from the inbox")
	}
}

func TestIngestStagingFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeInboxFile(t, dir, "talk.mp3")

	store := &fakeEntryStore{}
	bs := &fakeBlobStore{putErr: errors.New("connection refused")}
	w := newTestWatcher(store, bs)

	if err := w.ingest(context.Background(), path); err == nil {
		t.Fatal("ingest() should surface the staging failure")
	}
	if len(store.created) != 0 {
		t.Error("no entry may be created when staging fails")
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("the inbox file should stay in place after a staging failure")
	}
}

func TestIngestCreateFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeInboxFile(t, dir, "talk.mp3")

	store := &fakeEntryStore{createErr: errors.New("connection refused")}
	bs := &fakeBlobStore{}
	w := newTestWatcher(store, bs)

	if err := w.ingest(context.Background(), path); err == nil {
		t.Fatal("ingest() should surface the insert failure")
	}
	if len(bs.deleted) != 1 || bs.deleted[0] != bs.putKey {
		t.Errorf("staged object should be removed again, deleted = %v", bs.deleted)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("the inbox file should stay in place after an insert failure")
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "talk.mp3", want: true},
		{path: "TALK.MP4", want: true},
		{path: "recording.ogg", want: true},
		{path: "notes.txt", want: false},
		{path: "noextension", want: false},
	}

	w := newTestWatcher(&fakeEntryStore{}, &fakeBlobStore{})

	for _, tt := range tests {
		if got := w.isMediaFile(tt.path); got != tt.want {
			t.Errorf("isMediaFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherIngestsDroppedFile(t *testing.T) {
	inbox := t.TempDir()
	store := &fakeEntryStore{notify: make(chan struct{}, 1)}
	bs := &fakeBlobStore{}

	wi, err := New(inbox, store, bs, logger.New("error"), 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w := wi.(*implWatcher)
	w.settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	writeInboxFile(t, inbox, "notes.txt")
	writeInboxFile(t, inbox, "drop.mp3")

	select {
	case <-store.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("dropped file was never ingested")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() = %v, want context.Canceled", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.created) != 1 {
		t.Fatalf("created %d entries, want only the media file", len(store.created))
	}
	if store.created[0].Title != "drop" {
		t.Errorf("Title = %q, want %q", store.created[0].Title, "drop")
	}

	if _, err := os.Stat(filepath.Join(inbox, "drop.mp3")); !os.IsNotExist(err) {
		t.Error("ingested file should be removed from the inbox")
	}
}
