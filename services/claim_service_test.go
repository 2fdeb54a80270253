package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
)

type claimFixture struct {
	svc      *claimService
	mock     sqlmock.Sqlmock
	progress *fakeProgressRepo
	prizes   *fakePrizeRepo
	claims   *fakeClaimRepo
	notifier *recordingNotifier
}

func newClaimFixture(t *testing.T, prizes ...models.Prize) *claimFixture {
	t.Helper()
	db, mock := newTxMock(t)
	f := &claimFixture{
		mock:     mock,
		progress: newFakeProgressRepo(),
		prizes:   newFakePrizeRepo(prizes...),
		claims:   &fakeClaimRepo{},
		notifier: &recordingNotifier{},
	}
	svc := NewClaimService(db, f.prizes, f.progress, f.claims, f.notifier, nil, discardLogger()).(*claimService)
	svc.backoff = 0
	f.svc = svc
	return f
}

func (f *claimFixture) expectAttempt(commit bool) {
	f.mock.ExpectBegin()
	f.mock.ExpectExec("SET LOCAL lock_timeout = '2000ms'").WillReturnResult(sqlmock.NewResult(0, 0))
	if commit {
		f.mock.ExpectCommit()
	} else {
		f.mock.ExpectRollback()
	}
}

var hoodie = models.Prize{ID: 1, Name: "Худи", PointsCost: 50, Quantity: 2}

func TestClaimPrize_Success(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.progress.set(10, 80)
	f.progress.set(11, 70)
	f.expectAttempt(true)

	receipt, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	require.NoError(t, err)

	assert.Equal(t, "Худи", receipt.PrizeName)
	assert.Equal(t, 30, receipt.RemainingPoints)
	assert.Equal(t, 1, receipt.RemainingStock)
	assert.Equal(t, 30, f.progress.points(10))
	assert.Equal(t, 1, f.prizes.stock(1))
	assert.Equal(t, 1, f.claims.count())
	assert.Equal(t, 1, f.notifier.updates[1])
	// списание только у того, кто забрал приз
	assert.Equal(t, 70, f.progress.points(11))
}

// Debit отказывает уже после вставки claim и списания склада: вся транзакция откатывается.
func TestClaimPrize_DebitFailureRollsBack(t *testing.T) {
	db, mock := newTxMock(t)
	notifier := &recordingNotifier{}
	svc := NewClaimService(
		db,
		repositories.NewPostgresPrizeRepository(db),
		repositories.NewPostgresProgressRepository(db),
		repositories.NewPostgresClaimRepository(db),
		notifier,
		nil,
		discardLogger(),
	).(*claimService)
	svc.backoff = 0

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout = '2000ms'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM prizes WHERE id = $1 FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "points_cost", "quantity", "description"}).
			AddRow(1, "Худи", 50, 2, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_progress WHERE user_id = $1 FOR UPDATE")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "points", "test_done", "test_outcome", "game_done"}).
			AddRow(5, 10, 80, true, nil, false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM claimed_prizes")).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO claimed_prizes")).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "claimed_at"}).AddRow(7, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE prizes SET quantity = quantity - 1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1))
	// баланс успели потратить между проверкой и списанием
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_progress SET points = points - $1")).
		WithArgs(50, 10).
		WillReturnRows(sqlmock.NewRows([]string{"points"}))
	mock.ExpectRollback()

	receipt, err := svc.ClaimPrize(context.Background(), 10, 1)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, receipt)
	assert.Empty(t, notifier.updates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimPrize_PrizeNotFound(t *testing.T) {
	f := newClaimFixture(t)
	f.progress.set(10, 80)
	f.expectAttempt(false)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, ErrorKind(err))
}

func TestClaimPrize_OutOfStockCheckedBeforeBalance(t *testing.T) {
	empty := models.Prize{ID: 2, Name: "Стикеры", PointsCost: 500, Quantity: 0}
	f := newClaimFixture(t, empty)
	f.progress.set(10, 5)
	f.expectAttempt(false)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 2)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Contains(t, err.Error(), "Стикеры")
	assert.Equal(t, 5, f.progress.points(10))
}

func TestClaimPrize_InsufficientFundsReportsNeedAndHave(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.progress.set(10, 10)
	f.expectAttempt(false)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "need 50, have 10")
	assert.Equal(t, 10, f.progress.points(10))
	assert.Equal(t, 2, f.prizes.stock(1))
	assert.Zero(t, f.claims.count())
}

func TestClaimPrize_NoProgressRow(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.expectAttempt(false)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestClaimPrize_SecondClaimOfSamePrizeRejected(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.progress.set(10, 200)
	f.expectAttempt(true)
	f.expectAttempt(false)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	require.NoError(t, err)

	_, err = f.svc.ClaimPrize(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, 150, f.progress.points(10))
	assert.Equal(t, 1, f.prizes.stock(1))
}

func TestClaimPrize_RetriesLockConflict(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.progress.set(10, 80)
	f.progress.lockErrs = []error{&pq.Error{Code: "55P03"}}
	f.expectAttempt(false)
	f.expectAttempt(true)

	receipt, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, receipt.RemainingPoints)
}

func TestClaimPrize_GivesUpAfterThreeAttempts(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.progress.set(10, 80)
	f.progress.lockErrs = []error{
		repositories.ErrConcurrentUpdate,
		&pq.Error{Code: "40P01"},
		&pq.Error{Code: "40001"},
		repositories.ErrConcurrentUpdate,
	}
	for i := 0; i < claimMaxAttempts; i++ {
		f.expectAttempt(false)
	}

	_, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	require.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, KindTransient, ErrorKind(err))
	assert.Equal(t, 80, f.progress.points(10))
	assert.Equal(t, 2, f.prizes.stock(1))
	assert.Len(t, f.progress.lockErrs, 1)
}

func TestClaimPrize_BusinessErrorsAreNotRetried(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.progress.set(10, 1)
	f.expectAttempt(false)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestClaimPrize_LastUnitGoesToOneClaimant(t *testing.T) {
	last := models.Prize{ID: 3, Name: "Рюкзак", PointsCost: 20, Quantity: 1}
	f := newClaimFixture(t, last)
	f.progress.set(10, 50)
	f.progress.set(11, 50)
	f.expectAttempt(true)
	f.expectAttempt(false)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 3)
	require.NoError(t, err)
	_, err = f.svc.ClaimPrize(context.Background(), 11, 3)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 0, f.prizes.stock(3))
	assert.Equal(t, 50, f.progress.points(11))
}

func TestListClaimed(t *testing.T) {
	f := newClaimFixture(t, hoodie)
	f.progress.set(10, 80)
	f.expectAttempt(true)

	_, err := f.svc.ClaimPrize(context.Background(), 10, 1)
	require.NoError(t, err)

	claims, err := f.svc.ListClaimed(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, 1, claims[0].PrizeID)

	other, err := f.svc.ListClaimed(context.Background(), 11)
	require.NoError(t, err)
	assert.Empty(t, other)
}
