package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/testutil"
)

func TestBattleService_CreateBattle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().WithSides("GPT", "Grok").Build(t, ts.DB.DB)
	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	t.Run("assigns the creator one of the theme sides", func(t *testing.T) {
		b, err := ts.Services.Battle.CreateBattle(ctx, service.CreateBattleInput{
			CreatedBy: user.ID,
			ThemeID:   theme.ID,
			MaxRounds: domain.DefaultMaxRounds,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.BattleStateAwaitingPartner, b.State)
		assert.Equal(t, "GPT", b.AgentAName)
		assert.Equal(t, "Grok", b.AgentBName)
		assert.Contains(t, []string{"GPT", "Grok"}, b.PartnerAAgent)
		assert.NotEqual(t, b.PartnerAAgent, b.PartnerBAgent)
		assert.Equal(t, 1, b.CurrentRound)
		assert.Equal(t, domain.PlaybackIdle, b.PlaybackStatus)
	})

	t.Run("rejects unknown theme", func(t *testing.T) {
		_, err := ts.Services.Battle.CreateBattle(ctx, service.CreateBattleInput{
			CreatedBy: user.ID,
			ThemeID:   uuid.New(),
		})
		assert.ErrorIs(t, err, domain.ErrThemeNotFound)
	})

	t.Run("normalizes invalid round counts", func(t *testing.T) {
		b, err := ts.Services.Battle.CreateBattle(ctx, service.CreateBattleInput{
			CreatedBy: user.ID,
			ThemeID:   theme.ID,
			MaxRounds: 17,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultMaxRounds, b.MaxRounds)

		b, err = ts.Services.Battle.CreateBattle(ctx, service.CreateBattleInput{
			CreatedBy: user.ID,
			ThemeID:   theme.ID,
			MaxRounds: domain.ExtendedMaxRounds,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ExtendedMaxRounds, b.MaxRounds)
	})
}

func TestBattleService_JoinBattle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, ts.DB.DB)
	creator, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	joiner, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	third, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	b, err := ts.Services.Battle.CreateBattle(ctx, service.CreateBattleInput{
		CreatedBy: creator.ID,
		ThemeID:   theme.ID,
	})
	require.NoError(t, err)

	t.Run("creator cannot join own battle", func(t *testing.T) {
		_, err := ts.Services.Battle.JoinBattle(ctx, b.ID, creator.ID)
		assert.ErrorIs(t, err, domain.ErrOwnBattle)
	})

	t.Run("join seats partner and starts the workflow", func(t *testing.T) {
		joined, err := ts.Services.Battle.JoinBattle(ctx, b.ID, joiner.ID)
		require.NoError(t, err)

		require.NotNil(t, joined.PartnerBUserID)
		assert.Equal(t, joiner.ID, *joined.PartnerBUserID)
		assert.Equal(t, domain.BattleStatePreparing, joined.State)
		assert.NotEmpty(t, joined.AgentAThreadID)
		assert.NotEmpty(t, joined.AgentBThreadID)
		assert.NotEqual(t, joined.AgentAThreadID, joined.AgentBThreadID)
	})

	t.Run("third user cannot join a full battle", func(t *testing.T) {
		_, err := ts.Services.Battle.JoinBattle(ctx, b.ID, third.ID)
		assert.ErrorIs(t, err, domain.ErrNotAwaitingPartner)
	})

	t.Run("unknown battle", func(t *testing.T) {
		_, err := ts.Services.Battle.JoinBattle(ctx, uuid.New(), joiner.ID)
		assert.ErrorIs(t, err, domain.ErrBattleNotFound)
	})
}

func TestBattleService_SubmitInstructions(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, ts.DB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	b := testutil.NewBattleBuilder(theme, userA).
		WithPartnerB(userB).
		WithState(domain.BattleStateInProgress).
		Build(t, ts.DB.DB)

	t.Run("rejected when no window is open", func(t *testing.T) {
		err := ts.Services.Battle.SubmitInstructions(ctx, b.ID, userA.ID, "too early")
		assert.ErrorIs(t, err, domain.ErrNotYourTurn)
	})

	openWindow := func(t *testing.T, holder uuid.UUID, deadline time.Time) {
		t.Helper()
		stored, err := ts.Repos.Battle.GetByID(ctx, b.ID)
		require.NoError(t, err)
		now := time.Now()
		stored.PendingTurnUserID = &holder
		stored.TurnOpenedAt = &now
		stored.TurnDeadline = &deadline
		stored.PendingInstructions = nil
		stored.PendingPartnerID = nil
		require.NoError(t, ts.Repos.Battle.Update(ctx, stored))
	}

	t.Run("rejected for the wrong partner", func(t *testing.T) {
		openWindow(t, userA.ID, time.Now().Add(time.Minute))
		err := ts.Services.Battle.SubmitInstructions(ctx, b.ID, userB.ID, "not mine")
		assert.ErrorIs(t, err, domain.ErrNotYourTurn)

		// The rejection leaves the open window untouched.
		stored, err := ts.Repos.Battle.GetByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.PendingTurnUserID)
		assert.Equal(t, userA.ID, *stored.PendingTurnUserID)
		assert.Nil(t, stored.PendingInstructions)
	})

	t.Run("rejected after the deadline", func(t *testing.T) {
		openWindow(t, userA.ID, time.Now().Add(-time.Second))
		err := ts.Services.Battle.SubmitInstructions(ctx, b.ID, userA.ID, "too late")
		assert.ErrorIs(t, err, domain.ErrDeadlineExpired)
	})

	t.Run("accepted submission fills the mailbox and closes the window", func(t *testing.T) {
		openWindow(t, userA.ID, time.Now().Add(time.Minute))
		err := ts.Services.Battle.SubmitInstructions(ctx, b.ID, userA.ID, "open with a haiku diss")
		require.NoError(t, err)

		stored, err := ts.Repos.Battle.GetByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.PendingInstructions)
		assert.Equal(t, "open with a haiku diss", *stored.PendingInstructions)
		require.NotNil(t, stored.PendingPartnerID)
		assert.Equal(t, userA.ID, *stored.PendingPartnerID)
		assert.Nil(t, stored.PendingTurnUserID)
		assert.Nil(t, stored.TurnDeadline)
	})
}

func TestBattleService_GetTurnInfo(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, ts.DB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	b := testutil.NewBattleBuilder(theme, userA).Build(t, ts.DB.DB)

	info, err := ts.Services.Battle.GetTurnInfo(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, info.PendingTurnUserID)
	assert.Zero(t, info.RemainingMs)

	stored, err := ts.Repos.Battle.GetByID(ctx, b.ID)
	require.NoError(t, err)
	deadline := time.Now().Add(5 * time.Second)
	stored.PendingTurnUserID = &userA.ID
	stored.TurnDeadline = &deadline
	require.NoError(t, ts.Repos.Battle.Update(ctx, stored))

	info, err = ts.Services.Battle.GetTurnInfo(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, info.PendingTurnUserID)
	assert.Positive(t, info.RemainingMs)
	assert.LessOrEqual(t, info.RemainingMs, int64(5000))
}
