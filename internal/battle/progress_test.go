package battle_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/battle"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository/postgres"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/testutil"
)

func TestProgress_Advance(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	progress := battle.NewProgress(repos.Battle, repos.Turn)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, testDB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("incomplete round does not advance", func(t *testing.T) {
		b := testutil.NewBattleBuilder(theme, userA).
			WithPartnerB(userB).
			WithState(domain.BattleStateInProgress).
			Build(t, testDB.DB)
		testutil.CreateTurn(t, testDB.DB, b, 1, 1, b.AgentAName, 100)

		updated, err := progress.Advance(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.CurrentRound)
		assert.Equal(t, domain.BattleStateInProgress, updated.State)
	})

	t.Run("complete round advances once", func(t *testing.T) {
		b := testutil.NewBattleBuilder(theme, userA).
			WithPartnerB(userB).
			WithState(domain.BattleStateInProgress).
			Build(t, testDB.DB)
		testutil.CreateTurn(t, testDB.DB, b, 1, 1, b.AgentAName, 100)
		testutil.CreateTurn(t, testDB.DB, b, 1, 2, b.AgentBName, 100)

		updated, err := progress.Advance(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.CurrentRound)

		// Re-running against the now-empty round 2 is a no-op.
		updated, err = progress.Advance(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.CurrentRound)
		assert.Equal(t, domain.BattleStateInProgress, updated.State)
	})

	t.Run("final round finishes the battle and clears the gate", func(t *testing.T) {
		b := testutil.NewBattleBuilder(theme, userA).
			WithPartnerB(userB).
			WithState(domain.BattleStateInProgress).
			Build(t, testDB.DB)

		// Fast-forward to the last round with a stale gate left open.
		stored, err := repos.Battle.GetByID(ctx, b.ID)
		require.NoError(t, err)
		stored.CurrentRound = stored.MaxRounds
		stored.PendingTurnUserID = &userA.ID
		require.NoError(t, repos.Battle.Update(ctx, stored))

		testutil.CreateTurn(t, testDB.DB, b, stored.MaxRounds, 1, b.AgentAName, 100)
		testutil.CreateTurn(t, testDB.DB, b, stored.MaxRounds, 2, b.AgentBName, 100)

		updated, err := progress.Advance(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BattleStateDone, updated.State)
		assert.Nil(t, updated.PendingTurnUserID)
		assert.Nil(t, updated.TurnDeadline)

		// A done battle never advances further.
		again, err := progress.Advance(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.CurrentRound, again.CurrentRound)
	})
}

func TestProgress_NextAgent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	progress := battle.NewProgress(repos.Battle, repos.Turn)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().WithSides("Python", "Javascript").Build(t, testDB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b := testutil.NewBattleBuilder(theme, userA).
		WithPartnerB(userB).
		WithState(domain.BattleStateInProgress).
		Build(t, testDB.DB)

	// Fresh round opens with the first-seated agent.
	next, err := progress.NextAgent(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "Python", next)

	testutil.CreateTurn(t, testDB.DB, b, 1, 1, "Python", 100)

	next, err = progress.NextAgent(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "Javascript", next)
}

func TestBattleState_CanTransitionTo(t *testing.T) {
	assert.True(t, domain.BattleStateAwaitingPartner.CanTransitionTo(domain.BattleStatePreparing))
	assert.True(t, domain.BattleStatePreparing.CanTransitionTo(domain.BattleStateInProgress))
	assert.True(t, domain.BattleStateInProgress.CanTransitionTo(domain.BattleStateDone))
	assert.True(t, domain.BattleStateInProgress.CanTransitionTo(domain.BattleStateInProgress))

	assert.False(t, domain.BattleStateDone.CanTransitionTo(domain.BattleStateInProgress))
	assert.False(t, domain.BattleStateInProgress.CanTransitionTo(domain.BattleStatePreparing))
	assert.False(t, domain.BattleStatePreparing.CanTransitionTo(domain.BattleStateAwaitingPartner))
}

func TestBattle_TransitionTo(t *testing.T) {
	b := &domain.Battle{State: domain.BattleStatePreparing}
	require.NoError(t, b.TransitionTo(domain.BattleStateInProgress))
	assert.Equal(t, domain.BattleStateInProgress, b.State)

	// A backward move is rejected and leaves the state untouched.
	b = &domain.Battle{State: domain.BattleStateDone}
	assert.ErrorIs(t, b.TransitionTo(domain.BattleStateInProgress), domain.ErrStateRegression)
	assert.Equal(t, domain.BattleStateDone, b.State)
}

func TestTurn_SlotUniquePerBattle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, testDB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b := testutil.NewBattleBuilder(theme, userA).
		WithPartnerB(userB).
		WithState(domain.BattleStateInProgress).
		Build(t, testDB.DB)

	existing := testutil.CreateTurn(t, testDB.DB, b, 1, 1, b.AgentAName, 100)

	dup := &domain.Turn{
		ID:           uuid.New(),
		BattleID:     b.ID,
		RoundNumber:  1,
		TurnNumber:   1,
		AgentName:    b.AgentAName,
		PartnerID:    userA.ID,
		Lyrics:       "same slot twice",
		MusicTrackID: existing.MusicTrackID,
		CreatedAt:    time.Now(),
	}
	assert.Error(t, repos.Turn.Create(ctx, dup))
}
