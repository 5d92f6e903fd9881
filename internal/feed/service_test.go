package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"agentzone/internal/blog"
	"agentzone/internal/config"
	"agentzone/internal/ranking"
	"agentzone/internal/snapshot"
	"agentzone/internal/telemetry"
	"agentzone/internal/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSections struct {
	mock.Mock
}

func (m *mockSections) Trending(ctx context.Context) (snapshot.Result[[]ranking.Ranked], error) {
	args := m.Called(ctx)
	return args.Get(0).(snapshot.Result[[]ranking.Ranked]), args.Error(1)
}

func (m *mockSections) Recent(ctx context.Context) (snapshot.Result[[]tool.Tool], error) {
	args := m.Called(ctx)
	return args.Get(0).(snapshot.Result[[]tool.Tool]), args.Error(1)
}

func (m *mockSections) Featured(ctx context.Context) (snapshot.Result[[]ranking.CategoryGroup], error) {
	args := m.Called(ctx)
	return args.Get(0).(snapshot.Result[[]ranking.CategoryGroup]), args.Error(1)
}

type mockPosts struct {
	mock.Mock
}

func (m *mockPosts) ListLatest(ctx context.Context, limit int) (snapshot.Result[[]blog.Summary], error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(snapshot.Result[[]blog.Summary]), args.Error(1)
}

func postsResult(ids ...string) snapshot.Result[[]blog.Summary] {
	out := make([]blog.Summary, len(ids))
	for i, id := range ids {
		out[i] = blog.Summary{ID: id}
	}
	return snapshot.Result[[]blog.Summary]{Value: out}
}

func newTestService() (*Service, *mockSections, *mockPosts) {
	sec := &mockSections{}
	posts := &mockPosts{}
	return NewService(sec, posts, config.DefaultLimits(), telemetry.NoopMetrics{}, zap.NewNop()), sec, posts
}

func TestService_Home(t *testing.T) {
	svc, sec, posts := newTestService()
	recent := []tool.Tool{{ID: "r1", Tags: []string{"a", "b", "c", "d"}}}

	sec.On("Trending", mock.Anything).Return(snapshot.Result[[]ranking.Ranked]{
		Value: []ranking.Ranked{{Tool: tool.Tool{ID: "t1"}, HotTrending: true}},
	}, nil)
	sec.On("Recent", mock.Anything).Return(snapshot.Result[[]tool.Tool]{Value: recent, Stale: true}, nil)
	sec.On("Featured", mock.Anything).Return(snapshot.Result[[]ranking.CategoryGroup]{}, errors.New("load featured: upstream unavailable"))
	posts.On("ListLatest", mock.Anything, 5).Return(postsResult("p1", "p2"), nil)

	home, rep := svc.Home(context.Background())

	require.Len(t, home.Trending, 1)
	assert.True(t, home.Trending[0].HotTrending)
	require.Len(t, home.Recent, 1)
	assert.Equal(t, []string{"a", "b", "c"}, home.Recent[0].Tags)
	assert.Len(t, recent[0].Tags, 4, "cached list must not be trimmed in place")
	assert.NotNil(t, home.Featured)
	assert.Empty(t, home.Featured)
	require.Len(t, home.Posts, 2)
	require.NotNil(t, home.Spotlight)
	assert.Equal(t, "p1", home.Spotlight.ID)

	assert.Equal(t, []string{"recent"}, rep.Stale)
	assert.Equal(t, []string{"featured"}, rep.Unavailable)
}

func TestService_Home_SpotlightRotates(t *testing.T) {
	svc, sec, posts := newTestService()
	sec.On("Trending", mock.Anything).Return(snapshot.Result[[]ranking.Ranked]{}, nil)
	sec.On("Recent", mock.Anything).Return(snapshot.Result[[]tool.Tool]{}, nil)
	sec.On("Featured", mock.Anything).Return(snapshot.Result[[]ranking.CategoryGroup]{}, nil)
	posts.On("ListLatest", mock.Anything, 5).Return(postsResult("p1", "p2"), nil)

	home, _ := svc.Home(context.Background())
	assert.Equal(t, "p1", home.Spotlight.ID)

	svc.spotlight.Step()
	home, _ = svc.Home(context.Background())
	assert.Equal(t, "p2", home.Spotlight.ID)

	svc.spotlight.Step()
	home, _ = svc.Home(context.Background())
	assert.Equal(t, "p1", home.Spotlight.ID)
}

func TestService_Home_StalePosts(t *testing.T) {
	svc, sec, posts := newTestService()
	sec.On("Trending", mock.Anything).Return(snapshot.Result[[]ranking.Ranked]{}, nil)
	sec.On("Recent", mock.Anything).Return(snapshot.Result[[]tool.Tool]{}, nil)
	sec.On("Featured", mock.Anything).Return(snapshot.Result[[]ranking.CategoryGroup]{}, nil)
	stale := postsResult("p1")
	stale.Stale = true
	posts.On("ListLatest", mock.Anything, 5).Return(stale, nil)

	home, rep := svc.Home(context.Background())
	require.Len(t, home.Posts, 1)
	assert.Equal(t, []string{SectionPosts}, rep.Stale)
	assert.Empty(t, rep.Unavailable)
}

func TestHTTPHandler_Home(t *testing.T) {
	svc, sec, posts := newTestService()
	sec.On("Trending", mock.Anything).Return(snapshot.Result[[]ranking.Ranked]{}, errors.New("down"))
	sec.On("Recent", mock.Anything).Return(snapshot.Result[[]tool.Tool]{}, errors.New("down"))
	sec.On("Featured", mock.Anything).Return(snapshot.Result[[]ranking.CategoryGroup]{}, errors.New("down"))
	posts.On("ListLatest", mock.Anything, 5).Return(snapshot.Result[[]blog.Summary]{}, errors.New("down"))

	w := httptest.NewRecorder()
	NewHTTPHandler(svc, zap.NewNop()).Home(w, httptest.NewRequest(http.MethodGet, "/v1/home", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"trending":[]`)
	assert.Contains(t, body, `"latest_posts":[]`)
	assert.Contains(t, body, `"unavailable_sections":["featured","posts","recent","trending"]`)
	assert.NotContains(t, body, "spotlight")
}
