package submission

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agentzone/internal/telemetry"
	"agentzone/internal/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, objectPath, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *mockUploader) Remove(ctx context.Context, objectPath string) error {
	args := m.Called(ctx, objectPath)
	return args.Error(0)
}

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) Create(ctx context.Context, t *tool.Tool) (string, error) {
	args := m.Called(ctx, t)
	return args.String(0), args.Error(1)
}

type submissionRecorder struct {
	telemetry.NoopMetrics
	outcomes []string
}

func (r *submissionRecorder) ObserveSubmission(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func validInput() Input {
	return Input{
		Name:        "Perplexity",
		Description: "AI-powered search engine that provides accurate answers with sources.",
		WebsiteURL:  "https://perplexity.ai",
		Category:    "chat",
		Pricing:     "Freemium",
		Tags:        []string{"Search", "Research"},
	}
}

func newTestService() (*Service, *mockUploader, *mockCreator, *submissionRecorder) {
	up := &mockUploader{}
	cr := &mockCreator{}
	rec := &submissionRecorder{}
	svc := NewService(up, cr, rec, zap.NewNop())
	svc.newID = func() string { return "fixed-id" }
	return svc, up, cr, rec
}

func TestSubmit_DescriptionBoundary(t *testing.T) {
	ctx := context.Background()

	t.Run("250 characters accepted", func(t *testing.T) {
		svc, _, cr, _ := newTestService()
		in := validInput()
		in.Description = strings.Repeat("a", 250)
		cr.On("Create", ctx, mock.AnythingOfType("*tool.Tool")).Return("t-1", nil)

		res, err := svc.Submit(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "t-1", res.ID)
		cr.AssertExpectations(t)
	})

	t.Run("250 multi-byte characters accepted", func(t *testing.T) {
		svc, _, cr, _ := newTestService()
		in := validInput()
		in.Description = strings.Repeat("é", 250)
		cr.On("Create", ctx, mock.AnythingOfType("*tool.Tool")).Return("t-1", nil)

		_, err := svc.Submit(ctx, in)
		require.NoError(t, err)
	})

	t.Run("251 characters rejected before any write", func(t *testing.T) {
		svc, up, cr, rec := newTestService()
		in := validInput()
		in.Description = strings.Repeat("a", 251)
		in.Image = &Image{Data: []byte("png"), ContentType: "image/png"}

		_, err := svc.Submit(ctx, in)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "description", verrs[0].Field)
		up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Equal(t, []string{telemetry.OutcomeInvalid}, rec.outcomes)
	})
}

func TestSubmit_ValidationReportsEveryField(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Submit(context.Background(), Input{
		Category: "Astrology",
		Pricing:  "cheap",
		Tags:     []string{""},
		Image:    &Image{Data: []byte("x"), ContentType: "application/pdf"},
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field
	}
	assert.ElementsMatch(t, []string{"name", "description", "website_url", "category", "pricing_type", "tags[0]", "image"}, fields)
}

func TestSubmit_BlankRequiredFieldsRejected(t *testing.T) {
	svc, up, cr, rec := newTestService()
	in := validInput()
	in.Name = "   "
	in.Description = "  \t "
	in.WebsiteURL = " "

	_, err := svc.Submit(context.Background(), in)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field
	}
	assert.ElementsMatch(t, []string{"name", "description", "website_url"}, fields)
	up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, []string{telemetry.OutcomeInvalid}, rec.outcomes)
}

func TestSubmit_TrimsStoredFields(t *testing.T) {
	ctx := context.Background()
	svc, _, cr, _ := newTestService()
	in := validInput()
	in.Name = "  Perplexity "
	in.Tags = []string{" Search ", "Research"}

	cr.On("Create", ctx, mock.MatchedBy(func(tl *tool.Tool) bool {
		return tl.Name == "Perplexity" && tl.Tags[0] == "Search"
	})).Return("t-1", nil)

	_, err := svc.Submit(ctx, in)
	require.NoError(t, err)
	cr.AssertExpectations(t)
}

func TestSubmit_UploadFailure(t *testing.T) {
	ctx := context.Background()
	svc, up, cr, rec := newTestService()
	in := validInput()
	in.Image = &Image{Data: []byte("png"), ContentType: "image/png", Filename: "logo.png"}

	up.On("Upload", ctx, "logos/fixed-id.png", "image/png", []byte("png")).Return("", errors.New("bucket not found"))

	res, err := svc.Submit(ctx, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "bucket not found")
	assert.Empty(t, res.ID)
	cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, []string{telemetry.OutcomeUpload}, rec.outcomes)
}

func TestSubmit_UploadWithoutURL(t *testing.T) {
	ctx := context.Background()
	svc, up, cr, _ := newTestService()
	in := validInput()
	in.Image = &Image{Data: []byte("png"), ContentType: "image/png"}

	up.On("Upload", ctx, "logos/fixed-id.png", "image/png", []byte("png")).Return("", nil)
	up.On("Remove", mock.Anything, "logos/fixed-id.png").Return(nil)

	_, err := svc.Submit(ctx, in)
	assert.ErrorIs(t, err, ErrUploadFailed)
	cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	up.AssertExpectations(t)
}

func TestSubmit_CreateFailureRemovesImage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, up, cr, rec := newTestService()
	in := validInput()
	in.Image = &Image{Data: []byte("jpg"), ContentType: "image/jpeg"}

	up.On("Upload", ctx, "logos/fixed-id.jpg", "image/jpeg", []byte("jpg")).Return("https://cdn.example/logos/fixed-id.jpg", nil)
	cr.On("Create", ctx, mock.AnythingOfType("*tool.Tool")).
		Run(func(mock.Arguments) { cancel() }).
		Return("", errors.New("unique violation"))
	up.On("Remove", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), "logos/fixed-id.jpg").Return(nil)

	_, err := svc.Submit(ctx, in)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUploadFailed)
	up.AssertExpectations(t)
	assert.Equal(t, []string{telemetry.OutcomeFailure}, rec.outcomes)
}

func TestSubmit_SuccessWithImage(t *testing.T) {
	ctx := context.Background()
	svc, up, cr, rec := newTestService()
	in := validInput()
	in.Image = &Image{Data: []byte("webp"), ContentType: "image/webp"}
	url := "https://cdn.example/logos/fixed-id.webp"

	up.On("Upload", ctx, "logos/fixed-id.webp", "image/webp", []byte("webp")).Return(url, nil)
	cr.On("Create", ctx, mock.MatchedBy(func(tl *tool.Tool) bool {
		return tl.ImageURL != nil && *tl.ImageURL == url &&
			tl.Category == tool.CategoryChat &&
			tl.Pricing == tool.PricingFreemium &&
			tl.ID == ""
	})).Return("t-9", nil)

	res, err := svc.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "t-9", res.ID)
	require.NotNil(t, res.ImageURL)
	assert.Equal(t, url, *res.ImageURL)
	up.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	assert.Equal(t, []string{telemetry.OutcomeSuccess}, rec.outcomes)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"Chat", "Writing"}, SplitTags(" Chat, ,Writing ,"))
	assert.Nil(t, SplitTags(""))
}
