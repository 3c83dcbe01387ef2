package reaction

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"anoa.com/bloggerplatform/internal/entity"
	reactionCache "anoa.com/bloggerplatform/internal/modules/reaction/cache"
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
	reactionRepo "anoa.com/bloggerplatform/internal/modules/reaction/repository"
	userRepo "anoa.com/bloggerplatform/internal/modules/user/repository"
	"anoa.com/bloggerplatform/internal/testutil"
	"anoa.com/bloggerplatform/pkg/apperror"
	"anoa.com/bloggerplatform/pkg/lock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db  *gorm.DB
	svc *reactionService
}

func newFixture(t *testing.T, newestLikes reactionCache.NewestLikesCache) *fixture {
	t.Helper()
	return newFixtureOn(t, testutil.NewDB(t), newestLikes)
}

func newFixtureOn(t *testing.T, db *gorm.DB, newestLikes reactionCache.NewestLikesCache) *fixture {
	t.Helper()

	svc := NewReactionService(
		db,
		reactionRepo.NewReactionRepository(db),
		reactionRepo.NewCounterRepository(db),
		userRepo.NewUserRepository(db),
		lock.NewLocalLocker(),
		newestLikes,
	).(*reactionService)

	// strictly increasing clock so feed ordering is deterministic
	var mu sync.Mutex
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}

	return &fixture{db: db, svc: svc}
}

func (f *fixture) postCounters(t *testing.T, postID uuid.UUID) entity.LikesCounters {
	t.Helper()
	var p entity.Post
	require.NoError(t, f.db.First(&p, "id = ?", postID).Error)
	return p.LikesCounters
}

func (f *fixture) commentCounters(t *testing.T, commentID uuid.UUID) entity.LikesCounters {
	t.Helper()
	var c entity.Comment
	require.NoError(t, f.db.First(&c, "id = ?", commentID).Error)
	return c.LikesCounters
}

func (f *fixture) postReaction(t *testing.T, postID, userID uuid.UUID) *entity.PostReaction {
	t.Helper()
	r, err := f.svc.reactions.FindPostReaction(context.Background(), postID, userID)
	require.NoError(t, err)
	return r
}

// assertPostConserved checks the counters against the active records.
func (f *fixture) assertPostConserved(t *testing.T, postID uuid.UUID) {
	t.Helper()
	actual, err := f.svc.reactions.CountPostReactions(context.Background(), postID)
	require.NoError(t, err)
	stored := f.postCounters(t, postID)
	assert.Equal(t, actual, stored)
	assert.GreaterOrEqual(t, stored.LikesCount, int64(0))
	assert.GreaterOrEqual(t, stored.DislikesCount, int64(0))
}

func (f *fixture) assertCommentConserved(t *testing.T, commentID uuid.UUID) {
	t.Helper()
	actual, err := f.svc.reactions.CountCommentReactions(context.Background(), commentID)
	require.NoError(t, err)
	assert.Equal(t, actual, f.commentCounters(t, commentID))
}

func feedUsers(t *testing.T, svc *reactionService, postID uuid.UUID) []uuid.UUID {
	t.Helper()
	likes, err := svc.RecentLikes(context.Background(), postID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

func TestPostScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "scenario")
	a := testutil.CreateUser(t, f.db, "user-a")
	b := testutil.CreateUser(t, f.db, "user-b")

	// 1. A likes
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, a.ID, post.ID, like))
	assert.Equal(t, entity.LikesCounters{LikesCount: 1}, f.postCounters(t, post.ID))
	status, err := f.svc.MyPostStatus(ctx, post.ID, &a.ID)
	require.NoError(t, err)
	assert.Equal(t, like, status)

	likes, err := f.svc.RecentLikes(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, a.ID, likes[0].UserID)
	assert.Equal(t, "user-a", likes[0].Login)

	// 2. A dislikes
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, a.ID, post.ID, dislike))
	assert.Equal(t, entity.LikesCounters{DislikesCount: 1}, f.postCounters(t, post.ID))
	assert.Empty(t, feedUsers(t, f.svc, post.ID))

	// 3. B dislikes
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, b.ID, post.ID, dislike))
	assert.Equal(t, entity.LikesCounters{DislikesCount: 2}, f.postCounters(t, post.ID))

	// 4. A withdraws
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, a.ID, post.ID, none))
	assert.Equal(t, entity.LikesCounters{DislikesCount: 1}, f.postCounters(t, post.ID))
	rec := f.postReaction(t, post.ID, a.ID)
	require.NotNil(t, rec)
	assert.True(t, rec.IsSuppressed())
	assert.False(t, rec.IsFirstReaction())
	status, err = f.svc.MyPostStatus(ctx, post.ID, &a.ID)
	require.NoError(t, err)
	assert.Equal(t, none, status)

	// 5. A likes again, still excluded from the feed
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, a.ID, post.ID, like))
	assert.Equal(t, entity.LikesCounters{LikesCount: 1, DislikesCount: 1}, f.postCounters(t, post.ID))
	assert.Empty(t, feedUsers(t, f.svc, post.ID))

	f.assertPostConserved(t, post.ID)
}

func TestCommentScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	x := testutil.CreateUser(t, f.db, "user-x")
	comment := testutil.CreateComment(t, f.db, post, x)

	require.NoError(t, f.svc.ApplyCommentReaction(ctx, comment.ID, x.ID, like))
	assert.Equal(t, entity.LikesCounters{LikesCount: 1}, f.commentCounters(t, comment.ID))

	require.NoError(t, f.svc.ApplyCommentReaction(ctx, comment.ID, x.ID, dislike))
	assert.Equal(t, entity.LikesCounters{DislikesCount: 1}, f.commentCounters(t, comment.ID))
	status, err := f.svc.MyCommentStatus(ctx, comment.ID, &x.ID)
	require.NoError(t, err)
	assert.Equal(t, dislike, status)

	require.NoError(t, f.svc.ApplyCommentReaction(ctx, comment.ID, x.ID, none))
	assert.Equal(t, entity.LikesCounters{}, f.commentCounters(t, comment.ID))

	rec, err := f.svc.reactions.FindCommentReaction(ctx, comment.ID, x.ID)
	require.NoError(t, err)
	assert.Nil(t, rec, "withdrawn comment reaction must be deleted")

	status, err = f.svc.MyCommentStatus(ctx, comment.ID, &x.ID)
	require.NoError(t, err)
	assert.Equal(t, none, status)
}

func TestIdempotence(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	u := testutil.CreateUser(t, f.db, "u")
	comment := testutil.CreateComment(t, f.db, post, u)

	for _, s := range []entity.LikeStatus{like, dislike, none, like} {
		require.NoError(t, f.svc.ApplyPostReaction(ctx, post.ID, u.ID, u.Login, s))
		first := f.postCounters(t, post.ID)
		firstRec := f.postReaction(t, post.ID, u.ID)

		require.NoError(t, f.svc.ApplyPostReaction(ctx, post.ID, u.ID, u.Login, s))
		assert.Equal(t, first, f.postCounters(t, post.ID), "post %s twice", s)
		secondRec := f.postReaction(t, post.ID, u.ID)
		assert.Equal(t, firstRec.Status, secondRec.Status)
		assert.Equal(t, firstRec.FirstReactionConsumed, secondRec.FirstReactionConsumed)

		require.NoError(t, f.svc.ApplyCommentReaction(ctx, comment.ID, u.ID, s))
		firstC := f.commentCounters(t, comment.ID)
		require.NoError(t, f.svc.ApplyCommentReaction(ctx, comment.ID, u.ID, s))
		assert.Equal(t, firstC, f.commentCounters(t, comment.ID), "comment %s twice", s)
	}
}

func TestNoneOnAbsentCreatesNothing(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	u := testutil.CreateUser(t, f.db, "u")
	comment := testutil.CreateComment(t, f.db, post, u)

	require.NoError(t, f.svc.ApplyPostReaction(ctx, post.ID, u.ID, u.Login, none))
	require.NoError(t, f.svc.ApplyCommentReaction(ctx, comment.ID, u.ID, none))

	assert.Nil(t, f.postReaction(t, post.ID, u.ID))
	assert.Equal(t, entity.LikesCounters{}, f.postCounters(t, post.ID))
	assert.Equal(t, entity.LikesCounters{}, f.commentCounters(t, comment.ID))
}

func TestFeedExclusionAfterAnyChange(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")
	c := testutil.CreateUser(t, f.db, "c")

	// A: like -> dislike -> like
	for _, s := range []entity.LikeStatus{like, dislike, like} {
		require.NoError(t, f.svc.SetPostLikeStatus(ctx, a.ID, post.ID, s))
	}
	// B: dislike -> like
	for _, s := range []entity.LikeStatus{dislike, like} {
		require.NoError(t, f.svc.SetPostLikeStatus(ctx, b.ID, post.ID, s))
	}
	// C: an untouched like
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, c.ID, post.ID, like))

	assert.Equal(t, []uuid.UUID{c.ID}, feedUsers(t, f.svc, post.ID))
	assert.Equal(t, entity.LikesCounters{LikesCount: 3}, f.postCounters(t, post.ID))
}

func TestRecentLikes_CapAndOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")

	var users []*entity.User
	for i := 0; i < 5; i++ {
		u := testutil.CreateUser(t, f.db, fmt.Sprintf("liker-%d", i))
		users = append(users, u)
		require.NoError(t, f.svc.SetPostLikeStatus(ctx, u.ID, post.ID, like))
	}
	// a first-reaction dislike never shows up
	d := testutil.CreateUser(t, f.db, "disliker")
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, d.ID, post.ID, dislike))

	likes, err := f.svc.RecentLikes(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, NewestLikesLimit)
	assert.Equal(t, users[4].ID, likes[0].UserID)
	assert.Equal(t, users[3].ID, likes[1].UserID)
	assert.Equal(t, users[2].ID, likes[2].UserID)
	assert.True(t, likes[0].AddedAt.After(likes[1].AddedAt))

	// addedAt is the creation time, not the time of the last change
	other := testutil.CreatePost(t, f.db, "other")
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, users[0].ID, other.ID, like))
	before := f.postReaction(t, other.ID, users[0].ID).CreatedAt
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, users[0].ID, other.ID, none))
	assert.True(t, before.Equal(f.postReaction(t, other.ID, users[0].ID).CreatedAt))
}

func TestMyStatus_Anonymous(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	u := testutil.CreateUser(t, f.db, "u")
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, u.ID, post.ID, like))

	status, err := f.svc.MyPostStatus(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, none, status)

	stranger := uuid.New()
	status, err = f.svc.MyPostStatus(ctx, post.ID, &stranger)
	require.NoError(t, err)
	assert.Equal(t, none, status)

	status, err = f.svc.MyCommentStatus(ctx, uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, none, status)
}

func TestErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	u := testutil.CreateUser(t, f.db, "u")

	err := f.svc.SetPostLikeStatus(ctx, u.ID, uuid.New(), like)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = f.svc.ApplyCommentReaction(ctx, uuid.New(), u.ID, like)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = f.svc.SetPostLikeStatus(ctx, u.ID, post.ID, entity.LikeStatus("Love"))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	err = f.svc.ApplyCommentReaction(ctx, uuid.New(), u.ID, entity.LikeStatus(""))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	err = f.svc.SetPostLikeStatus(ctx, uuid.New(), post.ID, like)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	assert.Equal(t, entity.LikesCounters{}, f.postCounters(t, post.ID))
}

func TestNegativeCounterIsAConsistencyFailure(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	u := testutil.CreateUser(t, f.db, "u")

	require.NoError(t, f.svc.SetPostLikeStatus(ctx, u.ID, post.ID, like))

	// corrupt the counter behind the engine's back
	require.NoError(t, f.db.Model(&entity.Post{}).Where("id = ?", post.ID).UpdateColumn("likes_count", 0).Error)

	err := f.svc.SetPostLikeStatus(ctx, u.ID, post.ID, none)
	require.ErrorIs(t, err, apperror.ErrConsistency)

	// both writes rolled back
	rec := f.postReaction(t, post.ID, u.ID)
	assert.Equal(t, like, rec.Status)
	assert.True(t, rec.IsFirstReaction())
	assert.Equal(t, entity.LikesCounters{}, f.postCounters(t, post.ID))

	fixed, err := f.svc.ReconcilePostCounters(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikesCounters{LikesCount: 1}, fixed)
	assert.Equal(t, fixed, f.postCounters(t, post.ID))

	// the retried request now succeeds
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, u.ID, post.ID, none))
	assert.Equal(t, entity.LikesCounters{}, f.postCounters(t, post.ID))
}

func TestReconcileAll(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "u")
	p1 := testutil.CreatePost(t, f.db, "p1")
	p2 := testutil.CreatePost(t, f.db, "p2")
	c1 := testutil.CreateComment(t, f.db, p1, u)

	require.NoError(t, f.svc.SetPostLikeStatus(ctx, u.ID, p1.ID, dislike))
	require.NoError(t, f.svc.ApplyCommentReaction(ctx, c1.ID, u.ID, like))

	require.NoError(t, f.db.Model(&entity.Post{}).Where("id = ?", p2.ID).UpdateColumn("likes_count", 7).Error)
	require.NoError(t, f.db.Model(&entity.Comment{}).Where("id = ?", c1.ID).UpdateColumn("dislikes_count", 3).Error)

	n, err := f.svc.ReconcileAll(ctx, entity.SubjectPost)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = f.svc.ReconcileAll(ctx, entity.SubjectComment)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, entity.LikesCounters{DislikesCount: 1}, f.postCounters(t, p1.ID))
	assert.Equal(t, entity.LikesCounters{}, f.postCounters(t, p2.ID))
	assert.Equal(t, entity.LikesCounters{LikesCount: 1}, f.commentCounters(t, c1.ID))

	_, err = f.svc.ReconcilePostCounters(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRandomSequencesConserveCounters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	author := testutil.CreateUser(t, f.db, "author")
	comment := testutil.CreateComment(t, f.db, post, author)

	var users []*entity.User
	for i := 0; i < 4; i++ {
		users = append(users, testutil.CreateUser(t, f.db, fmt.Sprintf("r%d", i)))
	}

	rnd := rand.New(rand.NewSource(7))
	statuses := []entity.LikeStatus{none, like, dislike}
	for i := 0; i < 120; i++ {
		u := users[rnd.Intn(len(users))]
		s := statuses[rnd.Intn(len(statuses))]
		require.NoError(t, f.svc.ApplyPostReaction(ctx, post.ID, u.ID, u.Login, s))
		require.NoError(t, f.svc.ApplyCommentReaction(ctx, comment.ID, u.ID, s))

		f.assertPostConserved(t, post.ID)
		f.assertCommentConserved(t, comment.ID)
	}
}

func TestConcurrentReactionsKeepCountersConsistent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "hot")
	author := testutil.CreateUser(t, f.db, "author")
	comment := testutil.CreateComment(t, f.db, post, author)

	var users []*entity.User
	for i := 0; i < 8; i++ {
		users = append(users, testutil.CreateUser(t, f.db, fmt.Sprintf("c%d", i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, 1000)

	// the same user racing "Like" from the absent state
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.svc.ApplyPostReaction(ctx, post.ID, users[0].ID, users[0].Login, like)
			errs <- f.svc.ApplyCommentReaction(ctx, comment.ID, users[0].ID, like)
		}()
	}

	// everybody else flipping around
	for i, u := range users[1:] {
		u := u
		seed := int64(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			statuses := []entity.LikeStatus{none, like, dislike}
			for j := 0; j < 15; j++ {
				s := statuses[rnd.Intn(len(statuses))]
				errs <- f.svc.ApplyPostReaction(ctx, post.ID, u.ID, u.Login, s)
				errs <- f.svc.ApplyCommentReaction(ctx, comment.ID, u.ID, s)
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	f.assertPostConserved(t, post.ID)
	f.assertCommentConserved(t, comment.ID)

	var dupPosts, dupComments int64
	require.NoError(t, f.db.Raw(
		`SELECT COUNT(*) FROM (SELECT post_id, user_id FROM post_reactions GROUP BY post_id, user_id HAVING COUNT(*) > 1) d`,
	).Scan(&dupPosts).Error)
	require.NoError(t, f.db.Raw(
		`SELECT COUNT(*) FROM (SELECT comment_id, user_id FROM comment_reactions GROUP BY comment_id, user_id HAVING COUNT(*) > 1) d`,
	).Scan(&dupComments).Error)
	assert.Zero(t, dupPosts)
	assert.Zero(t, dupComments)

	status, err := f.svc.MyPostStatus(ctx, post.ID, &users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, like, status)
}

func TestRecentLikes_CacheIsInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, reactionCache.NewRedisNewestLikesCache(client, time.Minute))
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")

	require.NoError(t, f.svc.SetPostLikeStatus(ctx, a.ID, post.ID, like))
	assert.Equal(t, []uuid.UUID{a.ID}, feedUsers(t, f.svc, post.ID))
	assert.True(t, mr.Exists("newest_likes:post:"+post.ID.String()))

	require.NoError(t, f.svc.SetPostLikeStatus(ctx, b.ID, post.ID, like))
	assert.False(t, mr.Exists("newest_likes:post:"+post.ID.String()))
	assert.Equal(t, []uuid.UUID{b.ID, a.ID}, feedUsers(t, f.svc, post.ID))

	// a no-op write keeps the cached feed
	require.NoError(t, f.svc.SetPostLikeStatus(ctx, b.ID, post.ID, like))
	assert.True(t, mr.Exists("newest_likes:post:"+post.ID.String()))

	// cache outage degrades to the database
	mr.Close()
	assert.Equal(t, []uuid.UUID{b.ID, a.ID}, feedUsers(t, f.svc, post.ID))
}

// writeDuringRebuild commits a write between the feed read and its Set.
type writeDuringRebuild struct {
	*reactionCache.RedisNewestLikesCache
	once  sync.Once
	write func()
}

func (c *writeDuringRebuild) Set(ctx context.Context, postID uuid.UUID, version int64, likes []reactionDto.NewestLike) error {
	c.once.Do(c.write)
	return c.RedisNewestLikesCache.Set(ctx, postID, version, likes)
}

func TestRecentLikes_RebuildRacingAWriteIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	racing := &writeDuringRebuild{RedisNewestLikesCache: reactionCache.NewRedisNewestLikesCache(client, time.Minute)}
	f := newFixture(t, racing)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "p")
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")

	require.NoError(t, f.svc.SetPostLikeStatus(ctx, a.ID, post.ID, like))
	racing.write = func() {
		require.NoError(t, f.svc.SetPostLikeStatus(ctx, b.ID, post.ID, like))
	}

	// this rebuild read the feed before b's like committed
	assert.Equal(t, []uuid.UUID{a.ID}, feedUsers(t, f.svc, post.ID))
	assert.False(t, mr.Exists("newest_likes:post:"+post.ID.String()))

	assert.Equal(t, []uuid.UUID{b.ID, a.ID}, feedUsers(t, f.svc, post.ID))
	assert.True(t, mr.Exists("newest_likes:post:"+post.ID.String()))
}

func TestConcurrentReactionsOnPooledDatabase(t *testing.T) {
	f := newFixtureOn(t, testutil.NewFileDB(t, 20), nil)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, "pooled")
	author := testutil.CreateUser(t, f.db, "author")
	comment := testutil.CreateComment(t, f.db, post, author)

	var users []*entity.User
	for i := 0; i < 20; i++ {
		users = append(users, testutil.CreateUser(t, f.db, fmt.Sprintf("pool%d", i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, 200)

	// distinct users on the same subject only share the subject row
	for _, u := range users {
		u := u
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.svc.ApplyPostReaction(ctx, post.ID, u.ID, u.Login, like)
			errs <- f.svc.ApplyCommentReaction(ctx, comment.ID, u.ID, dislike)
		}()
	}

	// one user contradicting itself
	for _, s := range []entity.LikeStatus{like, dislike, none, like, dislike, like} {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.svc.ApplyPostReaction(ctx, post.ID, author.ID, author.Login, s)
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	f.assertPostConserved(t, post.ID)
	f.assertCommentConserved(t, comment.ID)

	counters := f.postCounters(t, post.ID)
	assert.GreaterOrEqual(t, counters.LikesCount, int64(20))
	assert.Equal(t, entity.LikesCounters{DislikesCount: 20}, f.commentCounters(t, comment.ID))
}
