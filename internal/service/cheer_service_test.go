package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/testutil"
)

func TestCheerService_SendCheer(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	theme := testutil.NewThemeBuilder().WithSides("Supabase", "Convex").Build(t, ts.DB.DB)
	userA, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	userB, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	spectator, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	b := testutil.NewBattleBuilder(theme, userA).
		WithPartnerB(userB).
		WithState(domain.BattleStateInProgress).
		Build(t, ts.DB.DB)

	t.Run("spectator cheer lands on the current round", func(t *testing.T) {
		cheer, err := ts.Services.Cheer.SendCheer(ctx, service.SendCheerInput{
			BattleID:  b.ID,
			UserID:    spectator.ID,
			AgentName: "Supabase",
			CheerType: domain.CheerFire,
		})
		require.NoError(t, err)
		assert.Equal(t, b.CurrentRound, cheer.RoundNumber)
		assert.Equal(t, domain.CheerFire, cheer.CheerType)
	})

	t.Run("partners cannot cheer their own battle", func(t *testing.T) {
		_, err := ts.Services.Cheer.SendCheer(ctx, service.SendCheerInput{
			BattleID:  b.ID,
			UserID:    userA.ID,
			AgentName: "Supabase",
			CheerType: domain.CheerApplause,
		})
		assert.ErrorIs(t, err, domain.ErrPartnerCannotCheer)

		_, err = ts.Services.Cheer.SendCheer(ctx, service.SendCheerInput{
			BattleID:  b.ID,
			UserID:    userB.ID,
			AgentName: "Convex",
			CheerType: domain.CheerBoo,
		})
		assert.ErrorIs(t, err, domain.ErrPartnerCannotCheer)
	})

	t.Run("rejects unknown agent and cheer type", func(t *testing.T) {
		_, err := ts.Services.Cheer.SendCheer(ctx, service.SendCheerInput{
			BattleID:  b.ID,
			UserID:    spectator.ID,
			AgentName: "Oracle",
			CheerType: domain.CheerFire,
		})
		assert.ErrorIs(t, err, domain.ErrUnknownAgent)

		_, err = ts.Services.Cheer.SendCheer(ctx, service.SendCheerInput{
			BattleID:  b.ID,
			UserID:    spectator.ID,
			AgentName: "Supabase",
			CheerType: domain.CheerType("confetti"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCheerType)
	})

	t.Run("tally aggregates per agent and type", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := ts.Services.Cheer.SendCheer(ctx, service.SendCheerInput{
				BattleID:  b.ID,
				UserID:    spectator.ID,
				AgentName: "Convex",
				CheerType: domain.CheerApplause,
			})
			require.NoError(t, err)
		}

		tally, err := ts.Services.Cheer.Tally(ctx, b.ID)
		require.NoError(t, err)

		var convexApplause int64
		for _, entry := range tally {
			if entry.AgentName == "Convex" && entry.CheerType == domain.CheerApplause {
				convexApplause = entry.Count
			}
		}
		assert.Equal(t, int64(3), convexApplause)
	})
}

func TestThemeService_Seed(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.Services.Theme.Seed(ctx))

	themes, err := ts.Services.Theme.List(ctx)
	require.NoError(t, err)
	require.Len(t, themes, 4)
	assert.Equal(t, "Claude vs Gemini", themes[0].Name)
	assert.Equal(t, "Claude", themes[0].Side1Name)
	assert.Equal(t, "Gemini", themes[0].Side2Name)

	// Seeding a non-empty catalog is refused.
	assert.ErrorIs(t, ts.Services.Theme.Seed(ctx), service.ErrThemesAlreadySeeded)
}
