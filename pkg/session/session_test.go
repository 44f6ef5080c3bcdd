package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/panelctl/panelctl/pkg/events"
	"github.com/panelctl/panelctl/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), util.SessionFile))
	require.NoError(t, err)
	return s
}

func TestStores(t *testing.T) {
	cases := map[string]func(t *testing.T) Store{
		"Memory": func(t *testing.T) Store { return NewMemoryStore() },
		"File":   func(t *testing.T) Store { return newFileStore(t) },
	}

	for name, newStore := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			var seen []events.Event
			unsubscribe := s.Subscribe(func(ctx context.Context, ev events.Event) error {
				seen = append(seen, ev)
				return nil
			})
			defer unsubscribe()

			_, ok, err := s.Get(util.TokenKey)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, util.TokenKey, "abc123"))
			v, ok, err := s.Get(util.TokenKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "abc123", v)

			require.NoError(t, s.Delete(ctx, util.TokenKey))
			// Deleting a missing key is silent.
			require.NoError(t, s.Delete(ctx, util.TokenKey))

			want := []events.Event{
				{Key: util.TokenKey, Value: "abc123", Source: events.SourceLocal},
				{Key: util.TokenKey, Deleted: true, Source: events.SourceLocal},
			}
			if diff := cmp.Diff(want, seen, cmpopts.IgnoreFields(events.Event{}, "Time")); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}

			assert.ErrorIs(t, s.Set(ctx, "", "x"), ErrEmptyKey)
		})
	}
}

func TestSetReportsSubscriberFailure(t *testing.T) {
	s := NewMemoryStore()
	boom := errors.New("observer failed")
	s.Subscribe(func(ctx context.Context, ev events.Event) error { return boom })

	err := s.Set(context.Background(), util.TokenKey, "abc123")

	var nerr *NotifyError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, util.TokenKey, nerr.Key)
	assert.ErrorIs(t, err, boom)

	// The value is stored regardless.
	v, _, _ := s.Get(util.TokenKey)
	assert.Equal(t, "abc123", v)
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), util.SessionFile)

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), util.TokenKey, "abc123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(util.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", v)
}

func TestFileStoreRecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), util.SessionFile)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = s.Get(util.TokenKey)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, s.Set(context.Background(), util.TokenKey, "abc123"))
	v, ok, err := s.Get(util.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", v)
}

func TestFileStoreDeleteOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), util.SessionFile)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Delete(context.Background(), util.TokenKey))

	// Nothing was there to remove, so the file is left as is.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{", string(data))
}

func TestFileStoreWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), util.SessionFile)
	s, err := NewFileStore(path)
	require.NoError(t, err)

	got := make(chan events.Event, 4)
	s.Subscribe(func(ctx context.Context, ev events.Event) error {
		got <- ev
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, ready) }()
	<-ready

	// Another process writes the file.
	other, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, other.Set(context.Background(), util.TokenKey, "from-elsewhere"))

	select {
	case ev := <-got:
		assert.Equal(t, util.TokenKey, ev.Key)
		assert.Equal(t, "from-elsewhere", ev.Value)
		assert.Equal(t, events.SourceExternal, ev.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("no external change event received")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestDiff(t *testing.T) {
	changes := diff(
		map[string]string{"token": "a", "gone": "x"},
		map[string]string{"token": "b", "same": ""},
	)
	sortEvents := cmpopts.SortSlices(func(a, b events.Event) bool { return a.Key < b.Key })

	want := []events.Event{
		{Key: "gone", Deleted: true},
		{Key: "same"},
		{Key: "token", Value: "b"},
	}
	if d := cmp.Diff(want, changes, sortEvents); d != "" {
		t.Errorf("diff mismatch (-want +got):\n%s", d)
	}
}
