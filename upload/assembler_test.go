package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls    []fakeCall
	failures int
}

type fakeCall struct {
	folder string
	name   string
	size   int64
}

func (f *fakeUploader) Upload(_ context.Context, localPath, folder, name string) (string, error) {
	if f.failures > 0 {
		f.failures--
		return "", assert.AnError
	}
	info, err := os.Stat(localPath)
	if err != nil {
		return "", err
	}
	f.calls = append(f.calls, fakeCall{folder: folder, name: name, size: info.Size()})
	return "https://store.example/" + folder + name, nil
}

func chunk(s string) *strings.Reader { return strings.NewReader(s) }

func TestAppendInOrder(t *testing.T) {
	fake := &fakeUploader{}
	a := NewAssembler(fake, t.TempDir())
	ctx := context.Background()

	chunks := []string{"hello ", "chunked ", "world"}
	var declared int64
	for _, c := range chunks {
		declared += int64(len(c))
	}

	for i, c := range chunks {
		url, done, err := a.Append(ctx, "img.png", declared, i, len(chunks), chunk(c), "Tool_Images/")
		require.NoError(t, err)
		if i < len(chunks)-1 {
			assert.False(t, done)
			assert.Empty(t, url)
		} else {
			assert.True(t, done)
			assert.Equal(t, "https://store.example/Tool_Images/img.png", url)
		}
	}

	// Exactly one gateway call, with the summed byte length.
	require.Len(t, fake.calls, 1)
	assert.Equal(t, declared, fake.calls[0].size)
	assert.Equal(t, "img.png", fake.calls[0].name)

	// Local file and session are gone.
	_, err := os.Stat(filepath.Join(a.dir, "img.png"))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, a.sessions)
}

func TestAppendOutOfOrder(t *testing.T) {
	a := NewAssembler(&fakeUploader{}, t.TempDir())
	ctx := context.Background()

	_, _, err := a.Append(ctx, "f.bin", 0, 0, 3, chunk("aa"), "Tool_Images/")
	require.NoError(t, err)

	// Skipping ahead is rejected.
	_, _, err = a.Append(ctx, "f.bin", 0, 2, 3, chunk("cc"), "Tool_Images/")
	assert.ErrorIs(t, err, ErrOutOfOrder)

	// Replaying the same index is rejected too.
	_, _, err = a.Append(ctx, "f.bin", 0, 0, 3, chunk("aa"), "Tool_Images/")
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestAppendRejectsBadIndexes(t *testing.T) {
	a := NewAssembler(&fakeUploader{}, t.TempDir())
	ctx := context.Background()

	cases := []struct {
		name  string
		index int
		total int
	}{
		{"negative index", -1, 3},
		{"index past total", 3, 3},
		{"zero total", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := a.Append(ctx, "x", 0, tc.index, tc.total, chunk("a"), "Tool_Images/")
			assert.ErrorIs(t, err, ErrOutOfOrder)
		})
	}
}

func TestFinalChunkSizeMismatch(t *testing.T) {
	fake := &fakeUploader{}
	a := NewAssembler(fake, t.TempDir())
	ctx := context.Background()

	_, _, err := a.Append(ctx, "g.bin", 100, 0, 2, chunk("12345"), "Tool_Images/")
	require.NoError(t, err)
	_, _, err = a.Append(ctx, "g.bin", 100, 1, 2, chunk("67890"), "Tool_Images/")
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Empty(t, fake.calls, "nothing should reach the gateway on a mismatch")
}

func TestFinalChunkUploadRetry(t *testing.T) {
	fake := &fakeUploader{failures: 1}
	a := NewAssembler(fake, t.TempDir())
	ctx := context.Background()

	_, _, err := a.Append(ctx, "r.bin", 10, 0, 2, chunk("12345"), "Tool_Images/")
	require.NoError(t, err)

	_, _, err = a.Append(ctx, "r.bin", 10, 1, 2, chunk("67890"), "Tool_Images/")
	require.Error(t, err)

	// The same final chunk can be re-sent once storage recovers, without
	// double-counting its bytes.
	url, done, err := a.Append(ctx, "r.bin", 10, 1, 2, chunk("67890"), "Tool_Images/")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "https://store.example/Tool_Images/r.bin", url)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, int64(10), fake.calls[0].size)
}

func TestStaleSessionsSwept(t *testing.T) {
	a := NewAssembler(&fakeUploader{}, t.TempDir())
	ctx := context.Background()

	_, _, err := a.Append(ctx, "stale.bin", 0, 0, 3, chunk("old"), "Tool_Images/")
	require.NoError(t, err)
	a.sessions["stale.bin"].touched.Store(time.Now().Add(-2 * time.Hour).UnixNano())

	// Any later upload activity reaps the abandoned session and its file.
	_, _, err = a.Append(ctx, "fresh.bin", 1, 0, 1, chunk("x"), "Tool_Images/")
	require.NoError(t, err)

	assert.NotContains(t, a.sessions, "stale.bin")
	_, statErr := os.Stat(filepath.Join(a.dir, "stale.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAbort(t *testing.T) {
	a := NewAssembler(&fakeUploader{}, t.TempDir())
	ctx := context.Background()

	_, _, err := a.Append(ctx, "h.bin", 0, 0, 3, chunk("partial"), "Tool_Images/")
	require.NoError(t, err)

	require.NoError(t, a.Abort("h.bin"))
	_, err = os.Stat(filepath.Join(a.dir, "h.bin"))
	assert.True(t, os.IsNotExist(err))

	// The session is forgotten, so a fresh upload under the same name
	// starts from chunk zero again.
	_, _, err = a.Append(ctx, "h.bin", 0, 0, 3, chunk("fresh"), "Tool_Images/")
	assert.NoError(t, err)
}

func TestAbortUnknown(t *testing.T) {
	a := NewAssembler(&fakeUploader{}, t.TempDir())
	assert.ErrorIs(t, a.Abort("never-seen"), ErrUnknownUpload)
}

func TestSeparateUploadsDontShareState(t *testing.T) {
	fake := &fakeUploader{}
	a := NewAssembler(fake, t.TempDir())
	ctx := context.Background()

	_, _, err := a.Append(ctx, "a.png", 1, 0, 1, chunk("a"), "Tool_Images/")
	require.NoError(t, err)
	_, _, err = a.Append(ctx, "b.png", 1, 0, 1, chunk("b"), "QR_Images/")
	require.NoError(t, err)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "Tool_Images/", fake.calls[0].folder)
	assert.Equal(t, "QR_Images/", fake.calls[1].folder)
}
