package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/internal/client"
	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

type backendMock struct{ mock.Mock }

var _ Backend = (*backendMock)(nil)

func (m *backendMock) ListActivities(ctx context.Context) (model.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Snapshot), args.Error(1)
}

func (m *backendMock) Signup(ctx context.Context, activity, email string) (string, error) {
	args := m.Called(ctx, activity, email)
	return args.String(0), args.Error(1)
}

func (m *backendMock) Unregister(ctx context.Context, activity, email string) (string, error) {
	args := m.Called(ctx, activity, email)
	return args.String(0), args.Error(1)
}

func testBoard(m *backendMock) *Board {
	return New(m, zap.NewNop().Sugar(), Options{
		SignupMessageTTL:     5 * time.Second,
		UnregisterMessageTTL: 4 * time.Second,
	})
}

func seedSnapshot() model.Snapshot {
	return model.Snapshot{
		{Name: "Chess Club", Activity: model.Activity{
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		}},
		{Name: "Gym Class", Activity: model.Activity{
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{},
		}},
	}
}

func TestLoadActivities(t *testing.T) {
	ctx := context.Background()
	m := &backendMock{}
	m.On("ListActivities", ctx).Return(seedSnapshot(), nil).Once()

	st := testBoard(m).LoadActivities(ctx, NewSurface())

	require.Empty(t, st.View.LoadError)
	require.Equal(t, []Option{
		{Value: "", Label: PlaceholderLabel},
		{Value: "Chess Club", Label: "Chess Club"},
		{Value: "Gym Class", Label: "Gym Class"},
	}, st.View.Options)

	require.Len(t, st.View.Cards, 2)
	chess := st.View.Cards[0]
	require.Equal(t, "Chess Club", chess.Name)
	require.Equal(t, 10, chess.SpotsLeft)
	require.Equal(t, "Participants (2)", chess.ParticipantsHeader())
	require.Equal(t, []Participant{
		{Activity: "Chess Club", Email: "michael@mergington.edu"},
		{Activity: "Chess Club", Email: "daniel@mergington.edu"},
	}, chess.Participants)

	gym := st.View.Cards[1]
	require.Equal(t, 30, gym.SpotsLeft)
	require.Empty(t, gym.Participants)
	m.AssertExpectations(t)
}

func TestLoadActivitiesSpotsLeftNotClamped(t *testing.T) {
	ctx := context.Background()
	m := &backendMock{}
	m.On("ListActivities", ctx).Return(model.Snapshot{
		{Name: "Tiny", Activity: model.Activity{MaxParticipants: 1, Participants: []string{"a@b.com", "c@d.com"}}},
	}, nil)

	st := testBoard(m).LoadActivities(ctx, NewSurface())

	// Over-subscription is shown as is.
	require.Equal(t, -1, st.View.Cards[0].SpotsLeft)
}

func TestLoadActivitiesFailureKeepsOptions(t *testing.T) {
	ctx := context.Background()
	m := &backendMock{}
	m.On("ListActivities", ctx).Return(seedSnapshot(), nil).Once()
	m.On("ListActivities", ctx).Return(nil, fmt.Errorf("%w: dial tcp", client.ErrNetwork)).Once()

	b := testBoard(m)
	s := NewSurface()
	b.LoadActivities(ctx, s)
	st := b.LoadActivities(ctx, s)

	require.Equal(t, LoadFailedText, st.View.LoadError)
	require.Empty(t, st.View.Cards)
	require.Len(t, st.View.Options, 3)
}

func TestLoadActivitiesFailureOnFreshSurface(t *testing.T) {
	ctx := context.Background()
	m := &backendMock{}
	m.On("ListActivities", ctx).Return(nil, &client.APIError{StatusCode: 500})

	st := testBoard(m).LoadActivities(ctx, NewSurface())

	require.Equal(t, LoadFailedText, st.View.LoadError)
	require.Equal(t, []Option{{Value: "", Label: PlaceholderLabel}}, st.View.Options)
}

type ctxKey string

func TestLoadActivitiesDiscardsStaleResult(t *testing.T) {
	slowCtx := context.WithValue(context.Background(), ctxKey("load"), "slow")
	fastCtx := context.WithValue(context.Background(), ctxKey("load"), "fast")

	started := make(chan struct{})
	release := make(chan struct{})

	stale := model.Snapshot{{Name: "Old", Activity: model.Activity{MaxParticipants: 1}}}
	fresh := model.Snapshot{{Name: "New", Activity: model.Activity{MaxParticipants: 1}}}

	m := &backendMock{}
	m.On("ListActivities", slowCtx).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(stale, nil)
	m.On("ListActivities", fastCtx).Return(fresh, nil)

	b := testBoard(m)
	s := NewSurface()

	done := make(chan State)
	go func() { done <- b.LoadActivities(slowCtx, s) }()
	<-started

	st := b.LoadActivities(fastCtx, s)
	require.Equal(t, "New", st.View.Cards[0].Name)

	close(release)
	late := <-done
	require.Equal(t, "New", late.View.Cards[0].Name)
	require.Equal(t, "New", s.State().View.Cards[0].Name)
}

func TestSignupSuccess(t *testing.T) {
	ctx := context.Background()
	m := &backendMock{}
	m.On("Signup", ctx, "Chess Club", "a@b.com").Return("Signed up", nil)

	s := NewSurface()
	s.keepForm("Chess Club", "a@b.com")
	out := testBoard(m).Signup(ctx, s, "Chess Club", "a@b.com")

	require.True(t, out.Reload)
	require.Equal(t, "Signed up", out.Message.Text)
	require.Equal(t, model.KindSuccess, out.Message.Kind)
	require.True(t, out.Message.Visible)

	st := s.State()
	require.Equal(t, SignupForm{}, st.Form)
	require.Equal(t, out.Message, st.Message)
	s.Close()
}

func TestSignupFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail", &client.APIError{StatusCode: 400, Detail: "Already registered"}, "Already registered"},
		{"no detail", &client.APIError{StatusCode: 400}, SignupFallbackError},
		{"network", fmt.Errorf("%w: connection refused", client.ErrNetwork), SignupNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := &backendMock{}
			m.On("Signup", ctx, "Chess Club", "a@b.com").Return("", tt.err)

			s := NewSurface()
			defer s.Close()
			out := testBoard(m).Signup(ctx, s, "Chess Club", "a@b.com")

			require.False(t, out.Reload)
			require.Equal(t, tt.want, out.Message.Text)
			require.Equal(t, model.KindError, out.Message.Kind)
			require.Equal(t, SignupForm{Activity: "Chess Club", Email: "a@b.com"}, s.State().Form)
		})
	}
}

func TestUnregister(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		err    error
		want   string
		kind   model.MessageKind
		reload bool
	}{
		{"message", "Unregistered x@y.com from Chess Club", nil, "Unregistered x@y.com from Chess Club", model.KindSuccess, true},
		{"empty message", "", nil, UnregisterFallbackOK, model.KindSuccess, true},
		{"detail", "", &client.APIError{StatusCode: 404, Detail: "Participant not found"}, "Participant not found", model.KindError, false},
		{"no detail", "", &client.APIError{StatusCode: 500}, UnregisterFallbackError, model.KindError, false},
		{"network", "", errors.New("connection reset"), UnregisterNetworkError, model.KindError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := &backendMock{}
			m.On("Unregister", ctx, "Chess Club", "x@y.com").Return(tt.msg, tt.err)

			s := NewSurface()
			defer s.Close()
			out := testBoard(m).Unregister(ctx, s, "Chess Club", "x@y.com")

			require.Equal(t, tt.reload, out.Reload)
			require.Equal(t, tt.want, out.Message.Text)
			require.Equal(t, tt.kind, out.Message.Kind)
		})
	}
}

func TestMessageHidesAfterTTL(t *testing.T) {
	ctx := context.Background()
	m := &backendMock{}
	m.On("Unregister", ctx, "Chess Club", "x@y.com").Return("", &client.APIError{StatusCode: 404})

	b := New(m, zap.NewNop().Sugar(), Options{SignupMessageTTL: time.Second, UnregisterMessageTTL: 20 * time.Millisecond})
	s := NewSurface()
	b.Unregister(ctx, s, "Chess Club", "x@y.com")
	require.True(t, s.State().Message.Visible)

	require.Eventually(t, func() bool {
		return !s.State().Message.Visible
	}, time.Second, 5*time.Millisecond)
}

func TestNewMessageCancelsPendingHide(t *testing.T) {
	s := NewSurface()
	defer s.Close()

	s.show("first", model.KindError, 10*time.Millisecond)
	s.show("second", model.KindSuccess, time.Minute)

	require.Never(t, func() bool {
		return !s.State().Message.Visible
	}, 100*time.Millisecond, 5*time.Millisecond)
	require.Equal(t, "second", s.State().Message.Text)
}

// Overlapping mutations for the same participant are not de-duplicated:
// both requests reach the backend.
func TestOverlappingUnregistersAreNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	m := &backendMock{}
	m.On("Unregister", ctx, "Chess Club", "x@y.com").Return("Unregistered", nil)

	b := testBoard(m)
	s := NewSurface()
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Unregister(ctx, s, "Chess Club", "x@y.com")
		}()
	}
	wg.Wait()

	m.AssertNumberOfCalls(t, "Unregister", 2)
}
