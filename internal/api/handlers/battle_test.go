package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/testutil"
)

func authedPost(t *testing.T, url, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestBattleEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ts := testutil.NewTestServer(t)

	theme := testutil.NewThemeBuilder().WithSides("Python", "Javascript").Build(t, ts.DB.DB)
	_, creatorToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, joinerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, spectatorToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	var battle domain.Battle

	t.Run("create requires auth", func(t *testing.T) {
		resp, err := http.Post(ts.APIURL("/battles/"), "application/json", bytes.NewReader([]byte("{}")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("create battle", func(t *testing.T) {
		resp := authedPost(t, ts.APIURL("/battles/"), creatorToken, map[string]any{
			"themeId":   theme.ID.String(),
			"maxRounds": 3,
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&battle))
		assert.Equal(t, domain.BattleStateAwaitingPartner, battle.State)
	})

	t.Run("battle appears in public listings", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/battles/"))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var battles []domain.Battle
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&battles))
		require.NotEmpty(t, battles)

		resp, err = http.Get(ts.APIURL("/themes/" + theme.ID.String() + "/battles"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("join battle", func(t *testing.T) {
		resp := authedPost(t, ts.APIURL(fmt.Sprintf("/battles/%s/join", battle.ID)), joinerToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var joined domain.Battle
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&joined))
		assert.Equal(t, domain.BattleStatePreparing, joined.State)
	})

	t.Run("double join conflicts", func(t *testing.T) {
		resp := authedPost(t, ts.APIURL(fmt.Sprintf("/battles/%s/join", battle.ID)), spectatorToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("turn info and playback are public", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL(fmt.Sprintf("/battles/%s/turn-info", battle.ID)))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get(ts.APIURL(fmt.Sprintf("/battles/%s/playback", battle.ID)))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("spectator cheers over http", func(t *testing.T) {
		resp := authedPost(t, ts.APIURL(fmt.Sprintf("/battles/%s/cheers", battle.ID)), spectatorToken, map[string]string{
			"agentName": "Python",
			"cheerType": "fire",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp2, err := http.Get(ts.APIURL(fmt.Sprintf("/battles/%s/cheers/tally", battle.ID)))
		require.NoError(t, err)
		defer resp2.Body.Close()
		assert.Equal(t, http.StatusOK, resp2.StatusCode)
	})

	t.Run("partner cheer is forbidden", func(t *testing.T) {
		resp := authedPost(t, ts.APIURL(fmt.Sprintf("/battles/%s/cheers", battle.ID)), creatorToken, map[string]string{
			"agentName": "Python",
			"cheerType": "applause",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown battle is 404", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/battles/00000000-0000-0000-0000-000000000001"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
