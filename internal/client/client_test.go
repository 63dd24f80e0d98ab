package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icco/genstaff/internal/notation"
	"github.com/icco/genstaff/internal/server"
	"github.com/icco/genstaff/internal/song"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	store, err := song.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(store, nil).Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL + "/").WithHTTPClient(ts.Client())
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	s := song.New("remote")
	tr := s.AddTrack()
	tr.Notes.Note(0).Increment()
	tr.Flats = notation.Accidentals{notation.B}

	id, err := c.Create(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []song.Summary{{ID: id, Name: "remote"}}, list)

	loaded, err := c.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.ID)
	assert.Equal(t, "D4", loaded.Tracks[0].Notes.Note(0).Name())
	assert.Equal(t, notation.Accidentals{notation.B}, loaded.Tracks[0].Flats)

	loaded.SetBPM(150)
	require.NoError(t, c.Save(ctx, loaded))
	require.NoError(t, c.Rename(ctx, id, "renamed"))

	again, err := c.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 150, again.BPM)
	assert.Equal(t, "renamed", again.Name)

	require.NoError(t, c.Delete(ctx, id))
	_, err = c.Load(ctx, id)
	assert.ErrorIs(t, err, song.ErrNotFound)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	assert.ErrorIs(t, c.Rename(ctx, "6f1c2d3e-0000-4000-8000-000000000000", " "), song.ErrInvalidSong)

	bad := song.New("bad")
	bad.AddTrack()
	bad.BPM = 1
	_, err := c.Create(ctx, bad)
	assert.ErrorIs(t, err, song.ErrInvalidSong)
}

func TestResponseError(t *testing.T) {
	err := responseError(http.StatusTeapot, []byte("short and stout"))
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "short and stout")

	err = responseError(http.StatusNotFound, []byte(`{"detail":"gone"}`))
	assert.ErrorIs(t, err, song.ErrNotFound)
	assert.Contains(t, err.Error(), "gone")
}
