package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	userdomain "github.com/claytondb/salestaxjar-sub000/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userRepoStub struct {
	user *userdomain.User
	err  error
}

func (s *userRepoStub) FindByID(ctx context.Context, id snowflake.ID) (*userdomain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type alertRepoStub struct {
	mu        sync.Mutex
	emailSent []snowflake.ID
}

func (s *alertRepoStub) InsertIgnoreDuplicate(ctx context.Context, alert *alertdomain.Alert) (bool, error) {
	return false, nil
}

func (s *alertRepoStub) ExistingLevels(ctx context.Context, userID snowflake.ID) (map[alertdomain.LevelKey]struct{}, error) {
	return nil, nil
}

func (s *alertRepoStub) List(ctx context.Context, userID snowflake.ID, unreadOnly bool, limit int) ([]alertdomain.Alert, error) {
	return nil, nil
}

func (s *alertRepoStub) UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error) {
	return 0, nil
}

func (s *alertRepoStub) MarkRead(ctx context.Context, userID snowflake.ID, alertIDs []snowflake.ID) (int64, error) {
	return 0, nil
}

func (s *alertRepoStub) MarkEmailSent(ctx context.Context, alertID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emailSent = append(s.emailSent, alertID)
	return nil
}

func (s *alertRepoStub) EmailSent() []snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]snowflake.ID(nil), s.emailSent...)
}

type providerStub struct {
	mu    sync.Mutex
	sent  [][]string
	fails int
}

func (s *providerStub) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails > 0 {
		s.fails--
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, to)
	return nil
}

func (s *providerStub) Sent() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.sent...)
}

func testConfig() config.Config {
	return config.Config{NotificationsOn: true, NotifyTimeout: time.Second}
}

func testAlerts(node *snowflake.Node, userID snowflake.ID) []alertdomain.Alert {
	return []alertdomain.Alert{
		{ID: node.Generate(), UserID: userID, StateCode: "CA", Level: alertdomain.LevelWarning, Message: "m1"},
		{ID: node.Generate(), UserID: userID, StateCode: "TX", Level: alertdomain.LevelExceeded, Message: "m2"},
	}
}

func TestDispatchSendsAndMarksEmailSent(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	userID := node.Generate()

	alerts := &alertRepoStub{}
	provider := &providerStub{}
	d := NewDispatcher(Params{
		Log:       zap.NewNop(),
		Config:    testConfig(),
		UserRepo:  &userRepoStub{user: &userdomain.User{ID: userID, Email: "m@example.com", Name: "M", NotifyThresholdAlerts: true}},
		AlertRepo: alerts,
		Provider:  provider,
	})

	d.Dispatch(context.Background(), userID, testAlerts(node, userID))

	require.Len(t, provider.Sent(), 2)
	assert.Equal(t, []string{"m@example.com"}, provider.Sent()[0])
	assert.Len(t, alerts.EmailSent(), 2)
}

func TestDispatchHonorsUserPreference(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	userID := node.Generate()

	provider := &providerStub{}
	d := NewDispatcher(Params{
		Log:       zap.NewNop(),
		Config:    testConfig(),
		UserRepo:  &userRepoStub{user: &userdomain.User{ID: userID, Email: "m@example.com", NotifyThresholdAlerts: false}},
		AlertRepo: &alertRepoStub{},
		Provider:  provider,
	})

	d.Dispatch(context.Background(), userID, testAlerts(node, userID))
	assert.Empty(t, provider.Sent())
}

func TestDispatchSwallowsProviderFailures(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	userID := node.Generate()

	alerts := &alertRepoStub{}
	provider := &providerStub{fails: 1}
	d := NewDispatcher(Params{
		Log:       zap.NewNop(),
		Config:    testConfig(),
		UserRepo:  &userRepoStub{user: &userdomain.User{ID: userID, Email: "m@example.com", NotifyThresholdAlerts: true}},
		AlertRepo: alerts,
		Provider:  provider,
	})

	// First send fails, second succeeds; neither failure escapes Dispatch.
	d.Dispatch(context.Background(), userID, testAlerts(node, userID))

	assert.Len(t, provider.Sent(), 1)
	assert.Len(t, alerts.EmailSent(), 1)
}

func TestDispatchSkipsWhenUserLookupFails(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	userID := node.Generate()

	provider := &providerStub{}
	d := NewDispatcher(Params{
		Log:       zap.NewNop(),
		Config:    testConfig(),
		UserRepo:  &userRepoStub{err: userdomain.ErrNotFound},
		AlertRepo: &alertRepoStub{},
		Provider:  provider,
	})

	d.Dispatch(context.Background(), userID, testAlerts(node, userID))
	assert.Empty(t, provider.Sent())
}
