package assets_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
)

func TestDiskStore_RoundTrip(t *testing.T) {
	store, err := assets.NewDiskStore(t.TempDir(), "/api/v1/assets/")
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), []byte("audio-bytes"), "audio/mpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".mp3"))

	f, contentType, err := store.Open(ref)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
	assert.Equal(t, "audio/mpeg", contentType)

	assert.Equal(t, "/api/v1/assets/"+ref, store.URLFor(ref))
}

func TestDiskStore_UnknownContentType(t *testing.T) {
	store, err := assets.NewDiskStore(t.TempDir(), "/assets")
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), []byte{0x01}, "application/weird")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".bin"))

	f, contentType, err := store.Open(ref)
	require.NoError(t, err)
	f.Close()
	assert.Equal(t, "application/octet-stream", contentType)
}

func TestDiskStore_RejectsPathEscape(t *testing.T) {
	store, err := assets.NewDiskStore(t.TempDir(), "/assets")
	require.NoError(t, err)

	_, _, err = store.Open("../../../etc/passwd")
	assert.Error(t, err)
}
