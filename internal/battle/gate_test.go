package battle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/battle"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository/postgres"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/testutil"
)

func TestGate_OpenAndTimeout(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	gate := battle.NewGate(repos.Battle, 10*time.Millisecond)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, testDB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b := testutil.NewBattleBuilder(theme, userA).
		WithPartnerB(userB).
		WithState(domain.BattleStateInProgress).
		Build(t, testDB.DB)

	deadline, err := gate.Open(ctx, b.ID, userA.ID, 100*time.Millisecond)
	require.NoError(t, err)

	stored, err := repos.Battle.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PendingTurnUserID)
	assert.Equal(t, userA.ID, *stored.PendingTurnUserID)
	require.NotNil(t, stored.TurnDeadline)
	assert.WithinDuration(t, deadline, *stored.TurnDeadline, time.Millisecond)

	// No submission arrives; Await resolves to the empty string at the
	// deadline, never earlier.
	start := time.Now()
	instructions, err := gate.Await(ctx, b.ID, userA.ID, deadline)
	require.NoError(t, err)
	assert.Empty(t, instructions)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)

	// The gate is cleared after resolution.
	stored, err = repos.Battle.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PendingTurnUserID)
	assert.Nil(t, stored.TurnOpenedAt)
	assert.Nil(t, stored.TurnDeadline)
}

func TestGate_SubmittedInstructions(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	gate := battle.NewGate(repos.Battle, 10*time.Millisecond)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, testDB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b := testutil.NewBattleBuilder(theme, userA).
		WithPartnerB(userB).
		WithState(domain.BattleStateInProgress).
		Build(t, testDB.DB)

	deadline, err := gate.Open(ctx, b.ID, userA.ID, 2*time.Second)
	require.NoError(t, err)

	// Simulate a partner submission landing in the mailbox mid-window.
	go func() {
		time.Sleep(50 * time.Millisecond)
		stored, err := repos.Battle.GetByID(ctx, b.ID)
		if err != nil {
			return
		}
		text := "go hard on latency jokes"
		stored.PendingInstructions = &text
		stored.PendingPartnerID = &userA.ID
		repos.Battle.Update(ctx, stored)
	}()

	instructions, err := gate.Await(ctx, b.ID, userA.ID, deadline)
	require.NoError(t, err)
	assert.Equal(t, "go hard on latency jokes", instructions)

	// Mailbox is consumed along with the gate fields.
	stored, err := repos.Battle.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PendingInstructions)
	assert.Nil(t, stored.PendingPartnerID)
}

func TestGate_IgnoresWrongPartnerSubmission(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	gate := battle.NewGate(repos.Battle, 10*time.Millisecond)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, testDB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b := testutil.NewBattleBuilder(theme, userA).
		WithPartnerB(userB).
		WithState(domain.BattleStateInProgress).
		Build(t, testDB.DB)

	deadline, err := gate.Open(ctx, b.ID, userA.ID, 150*time.Millisecond)
	require.NoError(t, err)

	// A mailbox entry attributed to the other partner must not resolve
	// userA's window.
	stored, err := repos.Battle.GetByID(ctx, b.ID)
	require.NoError(t, err)
	text := "not my turn"
	stored.PendingInstructions = &text
	stored.PendingPartnerID = &userB.ID
	require.NoError(t, repos.Battle.Update(ctx, stored))

	instructions, err := gate.Await(ctx, b.ID, userA.ID, deadline)
	require.NoError(t, err)
	assert.Empty(t, instructions)
}

func TestGate_ClearIsIdempotent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	gate := battle.NewGate(repos.Battle, 10*time.Millisecond)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().Build(t, testDB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b := testutil.NewBattleBuilder(theme, userA).Build(t, testDB.DB)

	require.NoError(t, gate.Clear(ctx, b.ID))
	require.NoError(t, gate.Clear(ctx, b.ID))
}
