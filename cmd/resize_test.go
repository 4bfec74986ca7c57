package cmd

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-imsto/smol/batch"
	"github.com/go-imsto/smol/pool"
)

func TestWaitBatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg"} {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 64, 48)), nil))
		require.NoError(t, f.Close())
	}

	resizer, err := newResizer(32, 80, "bicubic")
	require.NoError(t, err)
	p := pool.New(2)
	defer p.Close()

	var buf bytes.Buffer
	d := batch.NewDispatcher(p, resizer, batch.WithDisplay(progressBar{w: &buf}))
	require.NoError(t, d.SelectDirectory(dir))
	_, err = d.Start()
	require.NoError(t, err)

	st := waitBatch(context.Background(), d, 5*time.Millisecond)
	assert.Equal(t, batch.Idle, st.State)
	assert.Equal(t, 2, st.Batch.Succeeded)
	assert.Contains(t, buf.String(), "[2/2]")
	assert.FileExists(t, filepath.Join(dir, "smol", "a.jpg"))
}

func TestWaitBatchCancelled(t *testing.T) {
	p := pool.New(1)
	defer p.Close()
	resizer, err := newResizer(32, 80, "lanczos3")
	require.NoError(t, err)
	d := batch.NewDispatcher(p, resizer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := waitBatch(ctx, d, time.Millisecond)
	assert.Equal(t, batch.Idle, st.State)
}

func TestNewResizerBadFilter(t *testing.T) {
	_, err := newResizer(32, 80, "box")
	assert.Error(t, err)
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "resize", cmdResize.Name())
	assert.Equal(t, "serve", cmdServe.Name())
	assert.Equal(t, "env", cmdEnv.Name())
}
