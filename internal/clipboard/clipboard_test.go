package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemProbeAndGet(t *testing.T) {
	item := NewItem(MIMEPNG, []byte{1, 2, 3}).With(MIMEText, []byte("caption"))

	assert.Equal(t, []string{MIMEPNG, MIMEText}, item.Types())
	assert.True(t, item.HasType(MIMEPNG))
	assert.False(t, item.HasType("image/jpeg"))

	data, err := item.Get(MIMEPNG)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = item.Get("image/jpeg")
	assert.ErrorIs(t, err, ErrTypeNotPresent)
}

func TestItemGetReturnsCopy(t *testing.T) {
	src := []byte{9, 9}
	item := NewItem(MIMEPNG, src)
	src[0] = 0

	data, err := item.Get(MIMEPNG)
	require.NoError(t, err)
	data[1] = 0

	again, err := item.Get(MIMEPNG)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, again)
}

func TestMemoryTextAndItemsAreExclusive(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	mem.SetText("hello")
	items, err := mem.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	mem.SetItems(NewItem(MIMEPNG, []byte{1}))
	text, err := mem.ReadText(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, mem.WriteText(ctx, "copied"))
	text, err = mem.ReadText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "copied", text)
	items, err = mem.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryErrorsAndCancellation(t *testing.T) {
	mem := NewMemory()
	denied := errors.New("permission denied")
	mem.TextErr = denied
	mem.ReadErr = denied
	mem.WriteErr = denied

	_, err := mem.ReadText(context.Background())
	assert.ErrorIs(t, err, denied)
	_, err = mem.Read(context.Background())
	assert.ErrorIs(t, err, denied)
	assert.ErrorIs(t, mem.WriteText(context.Background(), "x"), denied)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewMemory().ReadText(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryWriteImageReplacesText(t *testing.T) {
	mem := NewMemory()
	mem.SetText("before")

	require.NoError(t, mem.WriteImage(context.Background(), []byte{9, 9}))

	text, err := mem.ReadText(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
	items, err := mem.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	data, err := items[0].Get(MIMEPNG)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, data)
}

func TestSystemReadReportsPNGItem(t *testing.T) {
	sys := NewSystemForTests(
		func() (string, error) { return "", nil },
		func(string) error { return nil },
		func() error { return nil },
		func() []byte { return []byte{0x89, 'P', 'N', 'G'} },
		nil,
	)

	items, err := sys.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].HasType(MIMEPNG))
}

func TestSystemReadEmptyImage(t *testing.T) {
	sys := NewSystemForTests(nil, nil, func() error { return nil }, func() []byte { return nil }, nil)

	items, err := sys.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestSystemImageInitFailureIsSticky(t *testing.T) {
	calls := 0
	sys := NewSystemForTests(nil, nil,
		func() error {
			calls++
			return errors.New("no display")
		},
		func() []byte { t.Fatal("readImage must not run without a backend"); return nil },
		nil,
	)

	_, err := sys.Read(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = sys.Read(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, calls)
}

func TestSystemTextWrapsErrors(t *testing.T) {
	boom := errors.New("xclip missing")
	var written string
	sys := NewSystemForTests(
		func() (string, error) { return "", boom },
		func(s string) error { written = s; return nil },
		func() error { return nil },
		nil,
		nil,
	)

	_, err := sys.ReadText(context.Background())
	assert.ErrorIs(t, err, boom)

	require.NoError(t, sys.WriteText(context.Background(), "decoded"))
	assert.Equal(t, "decoded", written)
}

func TestSystemWriteImage(t *testing.T) {
	var got []byte
	sys := NewSystemForTests(nil, nil,
		func() error { return nil },
		nil,
		func(b []byte) <-chan struct{} {
			got = b
			return make(chan struct{})
		},
	)

	require.NoError(t, sys.WriteImage(context.Background(), []byte{1, 2}))
	assert.Equal(t, []byte{1, 2}, got)
}
