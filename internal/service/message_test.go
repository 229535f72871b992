package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "message-api/internal/domain/message"
)

type fakeRepo struct {
	createOut *domain.Message
	createErr error
	findOut   *domain.Message
	findErr   error
	pageOut   domain.Page
	pageErr   error
	updateOut *domain.Message
	updateErr error

	senderCalls    int
	dateRangeCalls int
	lastSender     string
	lastLimit      int32
	lastCursor     string
	lastStart      int64
	lastEnd        int64
	lastUpdateID   string
	lastStatus     domain.Status
}

func (f *fakeRepo) Create(_ context.Context, sender, content string) (*domain.Message, error) {
	return f.createOut, f.createErr
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	return f.findOut, f.findErr
}

func (f *fakeRepo) FindBySender(_ context.Context, sender string, limit int32, cursor string) (domain.Page, error) {
	f.senderCalls++
	f.lastSender = sender
	f.lastLimit = limit
	f.lastCursor = cursor
	return f.pageOut, f.pageErr
}

func (f *fakeRepo) FindByDateRange(_ context.Context, startDate, endDate int64, limit int32, cursor string) (domain.Page, error) {
	f.dateRangeCalls++
	f.lastStart = startDate
	f.lastEnd = endDate
	f.lastLimit = limit
	f.lastCursor = cursor
	return f.pageOut, f.pageErr
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Message, error) {
	f.lastUpdateID = id
	f.lastStatus = status
	return f.updateOut, f.updateErr
}

func mustNewService(t *testing.T, repo *fakeRepo) MessageService {
	t.Helper()
	svc, err := NewMessageService(repo)
	require.NoError(t, err)
	return svc
}

func sentMessage(id string) *domain.Message {
	return &domain.Message{
		ID:        id,
		Sender:    "alice",
		Content:   "hello",
		Status:    domain.StatusSent,
		CreatedAt: 1000,
		UpdatedAt: 1000,
		Entity:    domain.EntityType,
	}
}

func TestNewMessageService_NilRepo(t *testing.T) {
	_, err := NewMessageService(nil)
	require.Error(t, err)
}

func TestCreate_Delegates(t *testing.T) {
	repo := &fakeRepo{createOut: sentMessage("m1")}
	svc := mustNewService(t, repo)

	msg, err := svc.Create(context.Background(), "alice", "hello")
	require.NoError(t, err)
	require.Equal(t, "m1", msg.ID)
}

func TestFindByID_AbsentBecomesNotFound(t *testing.T) {
	svc := mustNewService(t, &fakeRepo{})

	_, err := svc.FindByID(context.Background(), "missing")
	require.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
	require.ErrorContains(t, err, "missing")
}

func TestFindByID_PassesThroughRepoError(t *testing.T) {
	repoErr := domain.NewError(domain.CodeStorageFailure, "failed to find message by id", errors.New("boom"))
	svc := mustNewService(t, &fakeRepo{findErr: repoErr})

	_, err := svc.FindByID(context.Background(), "m1")
	require.Equal(t, domain.CodeStorageFailure, domain.CodeOf(err))
}

func TestQueryMessages_SenderMode(t *testing.T) {
	repo := &fakeRepo{pageOut: domain.Page{Items: []*domain.Message{sentMessage("m1")}}}
	svc := mustNewService(t, repo)

	page, err := svc.QueryMessages(context.Background(), QueryParams{Sender: "alice", Limit: 20, Cursor: "tok"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, repo.senderCalls)
	require.Zero(t, repo.dateRangeCalls)
	require.Equal(t, "alice", repo.lastSender)
	require.Equal(t, int32(20), repo.lastLimit)
	require.Equal(t, "tok", repo.lastCursor)
}

func TestQueryMessages_DateRangeMode(t *testing.T) {
	repo := &fakeRepo{}
	svc := mustNewService(t, repo)

	_, err := svc.QueryMessages(context.Background(), QueryParams{StartDate: 1000, EndDate: 2000})
	require.NoError(t, err)
	require.Equal(t, 1, repo.dateRangeCalls)
	require.Zero(t, repo.senderCalls)
	require.Equal(t, int64(1000), repo.lastStart)
	require.Equal(t, int64(2000), repo.lastEnd)
}

func TestQueryMessages_SenderTakesPrecedence(t *testing.T) {
	repo := &fakeRepo{}
	svc := mustNewService(t, repo)

	_, err := svc.QueryMessages(context.Background(), QueryParams{
		Sender:    "alice",
		StartDate: 1000,
		EndDate:   2000,
	})
	require.NoError(t, err)
	require.Equal(t, 1, repo.senderCalls)
	require.Zero(t, repo.dateRangeCalls)
}

func TestQueryMessages_NeitherModeFailsWithoutStorage(t *testing.T) {
	repo := &fakeRepo{}
	svc := mustNewService(t, repo)

	for _, params := range []QueryParams{
		{},
		{StartDate: 1000}, // missing endDate
		{EndDate: 2000},   // missing startDate
	} {
		_, err := svc.QueryMessages(context.Background(), params)
		require.Equal(t, domain.CodeInvalidQuery, domain.CodeOf(err))
	}
	require.Zero(t, repo.senderCalls)
	require.Zero(t, repo.dateRangeCalls)
}

func TestQueryMessages_DefaultLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := mustNewService(t, repo)

	_, err := svc.QueryMessages(context.Background(), QueryParams{Sender: "alice"})
	require.NoError(t, err)
	require.Equal(t, int32(10), repo.lastLimit)
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	updated := sentMessage("m1")
	updated.Status = domain.StatusDelivered
	repo := &fakeRepo{findOut: sentMessage("m1"), updateOut: updated}
	svc := mustNewService(t, repo)

	msg, err := svc.UpdateStatus(context.Background(), "m1", domain.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, msg.Status)
	require.Equal(t, "m1", repo.lastUpdateID)
	require.Equal(t, domain.StatusDelivered, repo.lastStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := &fakeRepo{}
	svc := mustNewService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), "missing", domain.StatusRead)
	require.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
	require.Empty(t, repo.lastUpdateID)
}

func TestUpdateStatus_SameStatusIsConflict(t *testing.T) {
	repo := &fakeRepo{findOut: sentMessage("m1")}
	svc := mustNewService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), "m1", domain.StatusSent)
	require.Equal(t, domain.CodeConflict, domain.CodeOf(err))
	require.ErrorContains(t, err, "status already 'SENT'")
	require.Empty(t, repo.lastUpdateID)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	read := sentMessage("m1")
	read.Status = domain.StatusRead
	repo := &fakeRepo{findOut: read}
	svc := mustNewService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), "m1", domain.StatusDelivered)
	require.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))
	require.Empty(t, repo.lastUpdateID)
}
