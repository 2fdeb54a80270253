package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
)

// In-memory репозитории для сервисных тестов. Транзакции эмулирует sqlmock,
// поэтому exec игнорируется.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTxMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

type fakeProgressRepo struct {
	mu       sync.Mutex
	anyUser  bool
	users    map[int]bool
	rows     map[int]*models.Progress
	lockErrs []error
	// writeErrs отдаются по одной из ApplyMilestone и AddPoints
	writeErrs []error
}

func newFakeProgressRepo(userIDs ...int) *fakeProgressRepo {
	r := &fakeProgressRepo{users: map[int]bool{}, rows: map[int]*models.Progress{}}
	for _, id := range userIDs {
		r.users[id] = true
	}
	return r
}

func (r *fakeProgressRepo) set(userID, points int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = true
	r.rows[userID] = &models.Progress{ID: userID, UserID: userID, Points: points}
}

func (r *fakeProgressRepo) points(userID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.rows[userID]; p != nil {
		return p.Points
	}
	return 0
}

func (r *fakeProgressRepo) EnsureExists(_ context.Context, _ repositories.SQLExecutor, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.anyUser && !r.users[userID] {
		return repositories.ErrUserNotFound
	}
	if r.rows[userID] == nil {
		r.rows[userID] = &models.Progress{ID: userID, UserID: userID}
	}
	return nil
}

func (r *fakeProgressRepo) GetByUserID(_ context.Context, _ repositories.SQLExecutor, userID int) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.rows[userID]
	if p == nil {
		return nil, repositories.ErrProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) GetByUserIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.Progress, error) {
	r.mu.Lock()
	if len(r.lockErrs) > 0 {
		err := r.lockErrs[0]
		r.lockErrs = r.lockErrs[1:]
		r.mu.Unlock()
		return nil, err
	}
	r.mu.Unlock()
	return r.GetByUserID(ctx, exec, userID)
}

func (r *fakeProgressRepo) nextWriteErr() error {
	if len(r.writeErrs) == 0 {
		return nil
	}
	err := r.writeErrs[0]
	r.writeErrs = r.writeErrs[1:]
	return err
}

func (r *fakeProgressRepo) ApplyMilestone(_ context.Context, _ repositories.SQLExecutor, userID int, m models.Milestone, delta int, outcome *models.TestOutcome) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.nextWriteErr(); err != nil {
		return nil, err
	}
	p := r.rows[userID]
	if p == nil {
		return nil, repositories.ErrMilestoneAlreadySet
	}
	switch m {
	case models.MilestoneTest:
		if p.TestDone {
			return nil, repositories.ErrMilestoneAlreadySet
		}
		p.TestDone = true
	case models.MilestoneGame:
		if p.GameDone {
			return nil, repositories.ErrMilestoneAlreadySet
		}
		p.GameDone = true
	default:
		return nil, repositories.ErrUnknownMilestone
	}
	p.Points += delta
	if outcome != nil {
		o := *outcome
		p.TestOutcome = &o
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) AddPoints(_ context.Context, _ repositories.SQLExecutor, userID int, delta int) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.nextWriteErr(); err != nil {
		return nil, err
	}
	p := r.rows[userID]
	if p == nil {
		return nil, repositories.ErrProgressNotFound
	}
	p.Points += delta
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) Debit(_ context.Context, _ repositories.SQLExecutor, userID int, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.rows[userID]
	if p == nil || p.Points < amount {
		return 0, repositories.ErrInsufficientPoints
	}
	p.Points -= amount
	return p.Points, nil
}

func (r *fakeProgressRepo) SetOutcome(_ context.Context, _ repositories.SQLExecutor, userID int, outcome models.TestOutcome) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.rows[userID]
	if p == nil {
		return nil, repositories.ErrProgressNotFound
	}
	p.TestOutcome = &outcome
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) CountMilestone(_ context.Context, m models.Milestone) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.rows {
		if p.Has(m) {
			n++
		}
	}
	return n, nil
}

type fakePrizeRepo struct {
	mu     sync.Mutex
	nextID int
	prizes map[int]*models.Prize
}

func newFakePrizeRepo(prizes ...models.Prize) *fakePrizeRepo {
	r := &fakePrizeRepo{prizes: map[int]*models.Prize{}}
	for i := range prizes {
		p := prizes[i]
		r.prizes[p.ID] = &p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakePrizeRepo) stock(id int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prizes[id].Quantity
}

func (r *fakePrizeRepo) Create(_ context.Context, prize *models.Prize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	prize.ID = r.nextID
	cp := *prize
	r.prizes[prize.ID] = &cp
	return nil
}

func (r *fakePrizeRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.prizes[id]
	if p == nil {
		return nil, repositories.ErrPrizeNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePrizeRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Prize, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakePrizeRepo) List(_ context.Context) ([]models.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Prize, 0, len(r.prizes))
	for _, p := range r.prizes {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PointsCost != out[j].PointsCost {
			return out[i].PointsCost < out[j].PointsCost
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakePrizeRepo) Update(_ context.Context, prize *models.Prize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prizes[prize.ID] == nil {
		return repositories.ErrPrizeNotFound
	}
	cp := *prize
	r.prizes[prize.ID] = &cp
	return nil
}

func (r *fakePrizeRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prizes[id] == nil {
		return repositories.ErrPrizeNotFound
	}
	delete(r.prizes, id)
	return nil
}

func (r *fakePrizeRepo) DecrementStock(_ context.Context, _ repositories.SQLExecutor, id int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.prizes[id]
	if p == nil || p.Quantity <= 0 {
		return 0, repositories.ErrPrizeOutOfStock
	}
	p.Quantity--
	return p.Quantity, nil
}

type fakeClaimRepo struct {
	mu     sync.Mutex
	claims []models.Claim
}

func (r *fakeClaimRepo) Create(_ context.Context, _ repositories.SQLExecutor, claim *models.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.UserID == claim.UserID && c.PrizeID == claim.PrizeID {
			return repositories.ErrClaimConflict
		}
	}
	claim.ID = len(r.claims) + 1
	claim.ClaimedAt = time.Now()
	r.claims = append(r.claims, *claim)
	return nil
}

func (r *fakeClaimRepo) Exists(_ context.Context, _ repositories.SQLExecutor, userID, prizeID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.UserID == userID && c.PrizeID == prizeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClaimRepo) ListByUser(_ context.Context, userID int) ([]models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Claim, 0)
	for _, c := range r.claims {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClaimRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claims)
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[int]*models.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[int]*models.Application{}}
}

func (r *fakeApplicationRepo) Create(_ context.Context, _ repositories.SQLExecutor, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.apps[app.UserID] != nil {
		return repositories.ErrApplicationConflict
	}
	app.ID = len(r.apps) + 1
	app.CreatedAt = time.Now()
	cp := *app
	r.apps[app.UserID] = &cp
	return nil
}

func (r *fakeApplicationRepo) GetByUserID(_ context.Context, userID int) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.apps[userID]
	if a == nil {
		return nil, repositories.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) ExistsForUser(_ context.Context, userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[userID] != nil, nil
}

func (r *fakeApplicationRepo) ListWithUsers(_ context.Context) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Application, 0, len(r.apps))
	for _, a := range r.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeApplicationRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(r.users) + 1
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	if u == nil {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Exists(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id] != nil, nil
}

func (r *fakeUserRepo) ListParticipants(_ context.Context) ([]models.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UserSummary, 0)
	for _, u := range r.users {
		if !u.IsAdmin {
			out = append(out, models.UserSummary{ID: u.ID, Email: u.Email, RegisteredAt: u.CreatedAt})
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountParticipants(ctx context.Context) (int, error) {
	list, _ := r.ListParticipants(ctx)
	return len(list), nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []models.TestQuestion
}

func (r *fakeQuestionRepo) Create(_ context.Context, q *models.TestQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.ID = len(r.questions) + 1
	r.questions = append(r.questions, *q)
	return nil
}

func (r *fakeQuestionRepo) find(id int) int {
	for i := range r.questions {
		if r.questions[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id int) (*models.TestQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return nil, repositories.ErrQuestionNotFound
	}
	cp := r.questions[i]
	return &cp, nil
}

func (r *fakeQuestionRepo) List(_ context.Context) ([]models.TestQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.TestQuestion(nil), r.questions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, q *models.TestQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(q.ID)
	if i < 0 {
		return repositories.ErrQuestionNotFound
	}
	r.questions[i] = *q
	return nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return repositories.ErrQuestionNotFound
	}
	r.questions = append(r.questions[:i], r.questions[i+1:]...)
	return nil
}

func (r *fakeQuestionRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.questions), nil
}

type fakeSettingsRepo struct {
	settings *models.EventSettings
	creates  int
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*models.EventSettings, error) {
	if r.settings == nil {
		return nil, repositories.ErrSettingsNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Create(_ context.Context, s *models.EventSettings) error {
	r.creates++
	s.ID = 1
	cp := *s
	r.settings = &cp
	return nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s *models.EventSettings) error {
	if r.settings == nil || r.settings.ID != s.ID {
		return repositories.ErrSettingsNotFound
	}
	cp := *s
	r.settings = &cp
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates map[int]int
}

func (n *recordingNotifier) PrizeStockChanged(prizeID, quantity int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.updates == nil {
		n.updates = map[int]int{}
	}
	n.updates[prizeID] = quantity
}

type fakeResumeStore struct {
	stored    []string
	discarded []string
	err       error
}

func (s *fakeResumeStore) Store(_ context.Context, ownerID int, filename string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	key := "resumes/" + filename
	s.stored = append(s.stored, key)
	return key, nil
}

func (s *fakeResumeStore) Discard(_ context.Context, key string) error {
	s.discarded = append(s.discarded, key)
	return nil
}
