package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// ThemeBuilder creates test themes with a builder pattern
type ThemeBuilder struct {
	name      string
	side1     string
	side2     string
	sortOrder int
}

func NewThemeBuilder() *ThemeBuilder {
	return &ThemeBuilder{
		name:  fmt.Sprintf("theme_%s", uuid.New().String()[:8]),
		side1: "Claude",
		side2: "Gemini",
	}
}

func (b *ThemeBuilder) WithName(name string) *ThemeBuilder {
	b.name = name
	return b
}

func (b *ThemeBuilder) WithSides(side1, side2 string) *ThemeBuilder {
	b.side1 = side1
	b.side2 = side2
	return b
}

func (b *ThemeBuilder) Build(t *testing.T, db *gorm.DB) *domain.Theme {
	t.Helper()

	theme := &domain.Theme{
		ID:        uuid.New(),
		Name:      b.name,
		Side1Name: b.side1,
		Side2Name: b.side2,
		SortOrder: b.sortOrder,
		CreatedAt: time.Now(),
	}

	if err := db.Create(theme).Error; err != nil {
		t.Fatalf("failed to create theme: %v", err)
	}

	return theme
}

// BattleBuilder creates battle records directly in the database, bypassing
// the service layer, for tests that exercise the orchestration core.
type BattleBuilder struct {
	theme     *domain.Theme
	partnerA  *domain.User
	partnerB  *domain.User
	state     domain.BattleState
	maxRounds int
}

func NewBattleBuilder(theme *domain.Theme, partnerA *domain.User) *BattleBuilder {
	return &BattleBuilder{
		theme:     theme,
		partnerA:  partnerA,
		state:     domain.BattleStateAwaitingPartner,
		maxRounds: domain.DefaultMaxRounds,
	}
}

func (b *BattleBuilder) WithPartnerB(user *domain.User) *BattleBuilder {
	b.partnerB = user
	return b
}

func (b *BattleBuilder) WithState(state domain.BattleState) *BattleBuilder {
	b.state = state
	return b
}

func (b *BattleBuilder) WithMaxRounds(maxRounds int) *BattleBuilder {
	b.maxRounds = maxRounds
	return b
}

// CreateTurn records a finished turn plus its backing track directly in the
// database, for tests that drive progression and playback by hand.
func CreateTurn(t *testing.T, db *gorm.DB, battle *domain.Battle, roundNumber, turnNumber int, agentName string, durationMs int) *domain.Turn {
	t.Helper()

	partnerID := battle.PartnerForAgent(agentName)
	if partnerID == nil {
		t.Fatalf("no partner seated for agent %s", agentName)
	}

	track := &domain.MusicTrack{
		ID:         uuid.New(),
		AgentName:  agentName,
		AssetRef:   uuid.New().String() + ".mp3",
		DurationMs: durationMs,
		CreatedAt:  time.Now(),
	}
	if err := db.Create(track).Error; err != nil {
		t.Fatalf("failed to create track: %v", err)
	}

	turn := &domain.Turn{
		ID:           uuid.New(),
		BattleID:     battle.ID,
		RoundNumber:  roundNumber,
		TurnNumber:   turnNumber,
		AgentName:    agentName,
		PartnerID:    *partnerID,
		Lyrics:       fmt.Sprintf("%s round %d bars", agentName, roundNumber),
		MusicTrackID: track.ID,
		CreatedAt:    time.Now(),
	}
	if err := db.Create(turn).Error; err != nil {
		t.Fatalf("failed to create turn: %v", err)
	}

	return turn
}

func (b *BattleBuilder) Build(t *testing.T, db *gorm.DB) *domain.Battle {
	t.Helper()

	battle := &domain.Battle{
		ID:             uuid.New(),
		ThemeID:        b.theme.ID,
		ThemeName:      b.theme.Name,
		AgentAName:     b.theme.Side1Name,
		AgentBName:     b.theme.Side2Name,
		PartnerAUserID: b.partnerA.ID,
		PartnerAAgent:  b.theme.Side1Name,
		PartnerBAgent:  b.theme.Side2Name,
		State:          b.state,
		MaxRounds:      b.maxRounds,
		CurrentRound:   1,
		PlaybackStatus: domain.PlaybackIdle,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if b.partnerB != nil {
		id := b.partnerB.ID
		battle.PartnerBUserID = &id
		battle.AgentAThreadID = uuid.New().String()
		battle.AgentBThreadID = uuid.New().String()
	}

	if err := db.Create(battle).Error; err != nil {
		t.Fatalf("failed to create battle: %v", err)
	}

	return battle
}
