package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	text        string
	supported   bool
	readErr     error
	writeErr    error
	writeCalled int
}

func (m *memoryBackend) ReadAll() (string, error) { return m.text, m.readErr }
func (m *memoryBackend) WriteAll(text string) error {
	m.writeCalled++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = text
	return nil
}
func (m *memoryBackend) Supported() bool { return m.supported }

func TestAdapter_WriteAndRead(t *testing.T) {
	b := &memoryBackend{supported: true}
	a := &Adapter{backend: b}
	ctx := context.Background()

	require.NoError(t, a.WriteText(ctx, "Summarize:\n\nhello"))
	text, err := a.ReadText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Summarize:\n\nhello", text)

	has, err := a.HasText(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, a.Clear(ctx))
	has, err = a.HasText(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAdapter_Unsupported(t *testing.T) {
	b := &memoryBackend{supported: false}
	a := &Adapter{backend: b}

	err := a.WriteText(context.Background(), "x")
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Zero(t, b.writeCalled)

	has, err := a.HasText(context.Background())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAdapter_CanceledContext(t *testing.T) {
	a := &Adapter{backend: &memoryBackend{supported: true}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, a.WriteText(ctx, "x"), context.Canceled)
	_, err := a.ReadText(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdapter_BackendErrorsAreWrapped(t *testing.T) {
	boom := errors.New("xclip exited 1")
	a := &Adapter{backend: &memoryBackend{supported: true, writeErr: boom, readErr: boom}}

	assert.ErrorIs(t, a.WriteText(context.Background(), "x"), boom)
	_, err := a.ReadText(context.Background())
	assert.ErrorIs(t, err, boom)
}
