package service

import (
	"context"
	"errors"
	"testing"

	"ModelBoard/internal/model"
	"ModelBoard/internal/repository"
	"ModelBoard/internal/session"
	"ModelBoard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVoteService(db *gorm.DB) *VoteService {
	return NewVoteService(
		repository.NewUseCaseRepository(db),
		repository.NewModelRepository(db),
		repository.NewVoteRepository(db),
		testutil.Logger(),
	)
}

// failingTracker 读取正常，保存总是失败
type failingTracker struct {
	*session.MemoryTracker
}

func (f failingTracker) Set(string, uint64, model.VoteStatus) error {
	return errors.New("cookie too large")
}

func TestVote_ToggleUndo(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newVoteService(db)
	tr := session.NewMemoryTracker()
	ctx := context.Background()

	res, err := svc.Vote(ctx, 4, "rag", "up", tr)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, uint64(4), res.ModelID)
	assert.Equal(t, "rag", res.UseCase)
	assert.Equal(t, model.VoteUp, res.NewVoteStatus)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.Equal(t, int64(0), res.Downvotes)
	assert.Equal(t, model.VoteUp, tr.Get("rag", 4))

	// 同方向再投一次等于撤销
	res, err = svc.Vote(ctx, 4, "rag", "up", tr)
	require.NoError(t, err)
	assert.Equal(t, model.VoteNone, res.NewVoteStatus)
	assert.Equal(t, int64(0), res.Upvotes)
	assert.Equal(t, int64(0), res.Downvotes)
	assert.Equal(t, model.VoteNone, tr.Get("rag", 4))
}

func TestVote_SwitchDirection(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newVoteService(db)
	tr := session.NewMemoryTracker()
	ctx := context.Background()

	_, err := svc.Vote(ctx, 2, "web-dev", "down", tr)
	require.NoError(t, err)

	res, err := svc.Vote(ctx, 2, "web-dev", "up", tr)
	require.NoError(t, err)
	assert.Equal(t, model.VoteUp, res.NewVoteStatus)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.Equal(t, int64(0), res.Downvotes)

	// 其他用例不受影响
	up, down := testutil.GetVotes(t, db, 2, 1)
	assert.Equal(t, int64(0), up)
	assert.Equal(t, int64(0), down)
}

func TestVote_SessionsAreIndependent(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newVoteService(db)
	ctx := context.Background()

	alice := session.NewMemoryTracker()
	bob := session.NewMemoryTracker()

	_, err := svc.Vote(ctx, 1, "rag", "up", alice)
	require.NoError(t, err)
	res, err := svc.Vote(ctx, 1, "rag", "up", bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Upvotes)

	res, err = svc.Vote(ctx, 1, "rag", "up", alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.Equal(t, model.VoteUp, bob.Get("rag", 1))
}

func TestVote_UndoNeverGoesNegative(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newVoteService(db)
	tr := session.NewMemoryTracker()

	// 会话记录了 up，但计数已经是 0（例如被后台清空）
	require.NoError(t, tr.Set("rag", 3, model.VoteUp))
	res, err := svc.Vote(context.Background(), 3, "rag", "up", tr)
	require.NoError(t, err)
	assert.Equal(t, model.VoteNone, res.NewVoteStatus)
	assert.Equal(t, int64(0), res.Upvotes)
	assert.Equal(t, int64(0), res.Downvotes)
}

func TestVote_Errors(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newVoteService(db)
	ctx := context.Background()

	tests := []struct {
		name      string
		modelID   uint64
		slug      string
		direction string
		check     func(t *testing.T, err error)
	}{
		{
			name: "invalid direction", modelID: 4, slug: "rag", direction: "sideways",
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "Invalid vote direction", ve.Message)
			},
		},
		{
			name: "unknown use case", modelID: 4, slug: "nope", direction: "up",
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "Use case not found", nf.Error())
			},
		},
		{
			name: "unknown model", modelID: 999, slug: "rag", direction: "down",
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "Model not found", nf.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := session.NewMemoryTracker()
			_, err := svc.Vote(ctx, tt.modelID, tt.slug, tt.direction, tr)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, model.VoteNone, tr.Get(tt.slug, tt.modelID))
		})
	}

	var n int64
	require.NoError(t, db.Model(&model.Vote{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestVote_SessionSaveFailureStillSucceeds(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newVoteService(db)
	tr := failingTracker{session.NewMemoryTracker()}

	res, err := svc.Vote(context.Background(), 4, "rag", "down", tr)
	require.NoError(t, err)
	assert.Equal(t, model.VoteDown, res.NewVoteStatus)
	assert.Equal(t, int64(1), res.Downvotes)

	_, down := testutil.GetVotes(t, db, 4, 1)
	assert.Equal(t, int64(1), down)
}
