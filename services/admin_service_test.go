package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
)

type adminFixture struct {
	svc       AdminService
	users     *fakeUserRepo
	progress  *fakeProgressRepo
	apps      *fakeApplicationRepo
	prizes    *fakePrizeRepo
	questions *fakeQuestionRepo
	settings  *fakeSettingsRepo
	notifier  *recordingNotifier
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:     newFakeUserRepo(),
		progress:  newFakeProgressRepo(),
		apps:      newFakeApplicationRepo(),
		prizes:    newFakePrizeRepo(),
		questions: &fakeQuestionRepo{},
		settings:  &fakeSettingsRepo{},
		notifier:  &recordingNotifier{},
	}
	resumeURL := func(key string) string { return "https://cdn.example.com/" + key }
	f.svc = NewAdminService(f.users, f.progress, f.apps, f.prizes, f.questions, f.settings, f.notifier, resumeURL, discardLogger())
	return f
}

func ptr[T any](v T) *T { return &v }

func TestAnalytics(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.users.users[1] = &models.User{ID: 1, Email: "admin@x5.ru", IsAdmin: true}
	f.users.users[2] = &models.User{ID: 2, Email: "a@example.com"}
	f.users.users[3] = &models.User{ID: 3, Email: "b@example.com"}
	f.progress.rows[2] = &models.Progress{UserID: 2, TestDone: true, GameDone: true}
	f.progress.rows[3] = &models.Progress{UserID: 3, TestDone: true}
	require.NoError(t, f.apps.Create(ctx, nil, &models.Application{UserID: 2}))

	a, err := f.svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Analytics{Registrations: 2, TestsCompleted: 2, GamesCompleted: 1, Applications: 1}, a)
}

type failingCounter struct {
	*fakeApplicationRepo
}

func (failingCounter) Count(context.Context) (int, error) {
	return 0, errors.New("db down")
}

func TestAnalytics_PropagatesError(t *testing.T) {
	f := newAdminFixture()
	svc := NewAdminService(f.users, f.progress, failingCounter{f.apps}, f.prizes, f.questions, f.settings, nil, nil, discardLogger())

	_, err := svc.Analytics(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestListApplications_ResolvesResumeURL(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	require.NoError(t, f.apps.Create(ctx, nil, &models.Application{UserID: 2, ResumePath: ptr("resumes/2_abc.pdf")}))

	apps, err := f.svc.ListApplications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "https://cdn.example.com/resumes/2_abc.pdf", *apps[0].ResumePath)
}

func TestSettings_CreatedOnFirstReadAndPatched(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	s, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEventName, s.EventName)

	_, err = f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.settings.creates)

	s, err = f.svc.UpdateSettings(ctx, SettingsUpdateInput{EventName: ptr("Career Day 2025")})
	require.NoError(t, err)
	assert.Equal(t, "Career Day 2025", s.EventName)
	assert.Equal(t, models.DefaultWelcomeText, *s.WelcomeText)

	_, err = f.svc.UpdateSettings(ctx, SettingsUpdateInput{EventName: ptr("")})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSettings_PatchCreatesMissingRow(t *testing.T) {
	f := newAdminFixture()

	s, err := f.svc.UpdateSettings(context.Background(), SettingsUpdateInput{WelcomeText: ptr("Привет")})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEventName, s.EventName)
	assert.Equal(t, "Привет", *s.WelcomeText)
	assert.Equal(t, 1, f.settings.creates)
}

func TestPrizeCRUD(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	p, err := f.svc.CreatePrize(ctx, PrizeInput{Name: " Худи ", Points: 50, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, "Худи", p.Name)
	assert.Equal(t, 5, f.notifier.updates[p.ID])

	updated, err := f.svc.UpdatePrize(ctx, p.ID, PrizeUpdateInput{Quantity: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, 50, updated.PointsCost)
	assert.Equal(t, "Худи", updated.Name)
	assert.Equal(t, 0, f.notifier.updates[p.ID])

	_, err = f.svc.UpdatePrize(ctx, 999, PrizeUpdateInput{Points: ptr(10)})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.svc.DeletePrize(ctx, p.ID))
	assert.ErrorIs(t, f.svc.DeletePrize(ctx, p.ID), ErrNotFound)
}

func TestPrizeInputValidation(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	tests := []PrizeInput{
		{Name: "", Points: 10, Quantity: 1},
		{Name: "Кружка", Points: 0, Quantity: 1},
		{Name: "Кружка", Points: 10, Quantity: -1},
	}
	for i, in := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, err := f.svc.CreatePrize(ctx, in)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}

	_, err := f.svc.UpdatePrize(ctx, 1, PrizeUpdateInput{Points: ptr(-3)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestQuestionCRUD(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	opts := []models.QuestionOption{
		{Text: "Код", Category: models.OutcomeDeveloper},
		{Text: "Макеты", Category: models.OutcomeDesigner},
	}

	q, err := f.svc.CreateQuestion(ctx, QuestionInput{Question: "Что ближе?", Options: opts, Order: 3})
	require.NoError(t, err)

	_, err = f.svc.CreateQuestion(ctx, QuestionInput{Question: "Один вариант", Options: opts[:1]})
	assert.ErrorIs(t, err, ErrValidationFailed)

	bad := []models.QuestionOption{{Text: "A", Category: "manager"}, {Text: "B", Category: models.OutcomeDesigner}}
	_, err = f.svc.CreateQuestion(ctx, QuestionInput{Question: "Кто?", Options: bad})
	assert.ErrorIs(t, err, ErrValidationFailed)

	updated, err := f.svc.UpdateQuestion(ctx, q.ID, QuestionUpdateInput{Order: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Order)
	assert.Equal(t, "Что ближе?", updated.Question)
	assert.Len(t, updated.Options, 2)

	require.NoError(t, f.svc.DeleteQuestion(ctx, q.ID))
	assert.ErrorIs(t, f.svc.DeleteQuestion(ctx, q.ID), ErrNotFound)

	_, err = f.svc.UpdateQuestion(ctx, q.ID, QuestionUpdateInput{Order: ptr(2)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeeder_IsIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	questions := &fakeQuestionRepo{}
	settings := &fakeSettingsRepo{}
	seeder := NewSeeder(users, questions, settings, discardLogger())
	ctx := context.Background()

	require.NoError(t, seeder.Run(ctx, "Admin@X5.ru", "admin"))
	require.NoError(t, seeder.Run(ctx, "admin@x5.ru", "admin"))

	admin, err := users.GetByEmail(ctx, "admin@x5.ru")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Len(t, users.users, 1)

	n, _ := questions.Count(ctx)
	assert.Equal(t, len(DefaultQuestions), n)
	assert.Equal(t, 1, settings.creates)

	list, err := questions.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Что вас больше привлекает в работе?", list[0].Question)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{fmt.Errorf("%w: need 50, have 10", ErrInsufficientFunds), KindInsufficientFunds},
		{fmt.Errorf("%w: 'Худи'", ErrOutOfStock), KindOutOfStock},
		{fmt.Errorf("%w: 'Худи'", ErrAlreadyClaimed), KindAlreadyClaimed},
		{fmt.Errorf("%w: game already completed", ErrAlreadyCompleted), KindAlreadyCompleted},
		{ErrAuthEmailTaken, KindAlreadyExists},
		{ErrAuthInvalidCredentials, KindAuth},
		{ErrUserInactive, KindForbidden},
		{fmt.Errorf("%w: x", ErrInvalidChoice), KindInvalidChoice},
		{ErrTransient, KindTransient},
		{repositories.ErrConcurrentUpdate, KindInternal},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
