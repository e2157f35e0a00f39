package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"vidhub/internal/event"
	"vidhub/internal/model"
	"vidhub/internal/repository"

	"gorm.io/gorm"
)

// memDB 内存版关系存储，语义与 gorm 实现一致：唯一约束冲突返回 gorm.ErrDuplicatedKey，
// InTx 出错时回滚点赞与订阅表
type memDB struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time

	users    map[int64]*model.User
	videos   map[int64]*model.Video
	views    []model.View
	likes    map[int64]*model.VideoLike
	subs     map[int64]*model.Subscription
	comments map[int64]*model.Comment

	// forceDuplicate 大于 0 时，接下来的若干次关系行插入直接返回唯一约束冲突
	forceDuplicate int
	// beforeInsert 在关系行、播放或评论插入前调用一次，用于模拟并发写入；
	// 它代表另一个已提交的事务，本事务回滚后仍会保留
	beforeInsert func(tx *memTx)
	committed    []func(tx *memTx)
}

func newMemDB() *memDB {
	return &memDB{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[int64]*model.User{},
		videos:   map[int64]*model.Video{},
		likes:    map[int64]*model.VideoLike{},
		subs:     map[int64]*model.Subscription{},
		comments: map[int64]*model.Comment{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) addUser(name string) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &model.User{ID: db.id(), Username: name, Email: name + "@example.com", CreatedAt: db.tick()}
	db.users[u.ID] = u
	return u
}

func (db *memDB) addVideo(authorID int64, title string) *model.Video {
	db.mu.Lock()
	defer db.mu.Unlock()
	v := &model.Video{ID: db.id(), AuthorID: authorID, Title: title, URL: "http://cdn/" + title, CreatedAt: db.tick()}
	db.videos[v.ID] = v
	return v
}

func (db *memDB) likeRows(userID, videoID int64) []model.VideoLike {
	db.mu.Lock()
	defer db.mu.Unlock()
	var rows []model.VideoLike
	for _, l := range db.likes {
		if l.UserID == userID && l.VideoID == videoID {
			rows = append(rows, *l)
		}
	}
	return rows
}

func (db *memDB) subRows(a, b int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, s := range db.subs {
		if s.SubscriberID == a && s.SubscribedToID == b {
			n++
		}
	}
	return n
}

func (db *memDB) viewRows(videoID int64) []model.View {
	db.mu.Lock()
	defer db.mu.Unlock()
	var rows []model.View
	for _, v := range db.views {
		if v.VideoID == videoID {
			rows = append(rows, v)
		}
	}
	return rows
}

func (db *memDB) withAuthor(v *model.Video) model.Video {
	out := *v
	if u, ok := db.users[v.AuthorID]; ok {
		out.Author = *u
	}
	return out
}

// fireBeforeInsert 调用方已持有锁
func (db *memDB) fireBeforeInsert() func(tx *memTx) {
	hook := db.beforeInsert
	if hook != nil {
		db.beforeInsert = nil
		hook(&memTx{db: db})
	}
	return hook
}

// deleteVideoLocked 删除视频及其播放、点赞、评论，调用方已持有锁
func (db *memDB) deleteVideoLocked(id int64) {
	views := db.views[:0]
	for _, v := range db.views {
		if v.VideoID != id {
			views = append(views, v)
		}
	}
	db.views = views
	for k, l := range db.likes {
		if l.VideoID == id {
			delete(db.likes, k)
		}
	}
	for k, c := range db.comments {
		if c.VideoID == id {
			delete(db.comments, k)
		}
	}
	delete(db.videos, id)
}

// videoRowAllowed 模拟子表到 videos 的外键约束
func (db *memDB) videoRowAllowed(videoID int64) error {
	if _, ok := db.videos[videoID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	return nil
}

// ---- memTx: 调用方已持有锁 ----

type memTx struct {
	db *memDB
}

func (t *memTx) FindLike(_ context.Context, userID, videoID int64) (*model.VideoLike, error) {
	for _, l := range t.db.likes {
		if l.UserID == userID && l.VideoID == videoID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (t *memTx) insertHook() error {
	if hook := t.db.fireBeforeInsert(); hook != nil {
		t.db.committed = append(t.db.committed, hook)
	}
	if t.db.forceDuplicate > 0 {
		t.db.forceDuplicate--
		return gorm.ErrDuplicatedKey
	}
	return nil
}

func (t *memTx) CreateLike(ctx context.Context, like *model.VideoLike) error {
	if err := t.insertHook(); err != nil {
		return err
	}
	if existing, _ := t.FindLike(ctx, like.UserID, like.VideoID); existing != nil {
		return gorm.ErrDuplicatedKey
	}
	if err := t.db.videoRowAllowed(like.VideoID); err != nil {
		return err
	}
	like.ID = t.db.id()
	like.CreatedAt = t.db.tick()
	like.UpdatedAt = like.CreatedAt
	cp := *like
	t.db.likes[like.ID] = &cp
	return nil
}

func (t *memTx) UpdateLikePolarity(_ context.Context, id int64, polarity int8) error {
	if l, ok := t.db.likes[id]; ok {
		l.Polarity = polarity
		l.UpdatedAt = t.db.tick()
	}
	return nil
}

func (t *memTx) DeleteLike(_ context.Context, id int64) error {
	delete(t.db.likes, id)
	return nil
}

func (t *memTx) FindSubscription(_ context.Context, subscriberID, targetID int64) (*model.Subscription, error) {
	for _, s := range t.db.subs {
		if s.SubscriberID == subscriberID && s.SubscribedToID == targetID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	if err := t.insertHook(); err != nil {
		return err
	}
	if existing, _ := t.FindSubscription(ctx, sub.SubscriberID, sub.SubscribedToID); existing != nil {
		return gorm.ErrDuplicatedKey
	}
	sub.ID = t.db.id()
	sub.CreatedAt = t.db.tick()
	cp := *sub
	t.db.subs[sub.ID] = &cp
	return nil
}

func (t *memTx) DeleteSubscription(_ context.Context, id int64) error {
	delete(t.db.subs, id)
	return nil
}

// ---- EngagementRepo ----

type memRelations struct {
	db *memDB
}

var _ repository.EngagementRepo = (*memRelations)(nil)

func (r *memRelations) InTx(_ context.Context, fn func(tx repository.EngagementTx) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	likes := make(map[int64]*model.VideoLike, len(r.db.likes))
	for k, v := range r.db.likes {
		cp := *v
		likes[k] = &cp
	}
	subs := make(map[int64]*model.Subscription, len(r.db.subs))
	for k, v := range r.db.subs {
		cp := *v
		subs[k] = &cp
	}

	err := fn(&memTx{db: r.db})
	if err != nil {
		r.db.likes, r.db.subs = likes, subs
		for _, hook := range r.db.committed {
			hook(&memTx{db: r.db})
		}
	}
	r.db.committed = nil
	return err
}

func (r *memRelations) locked(fn func(tx *memTx) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return fn(&memTx{db: r.db})
}

func (r *memRelations) FindLike(ctx context.Context, userID, videoID int64) (like *model.VideoLike, err error) {
	err = r.locked(func(tx *memTx) error {
		like, err = tx.FindLike(ctx, userID, videoID)
		return err
	})
	return like, err
}

func (r *memRelations) CreateLike(ctx context.Context, like *model.VideoLike) error {
	return r.locked(func(tx *memTx) error { return tx.CreateLike(ctx, like) })
}

func (r *memRelations) UpdateLikePolarity(ctx context.Context, id int64, polarity int8) error {
	return r.locked(func(tx *memTx) error { return tx.UpdateLikePolarity(ctx, id, polarity) })
}

func (r *memRelations) DeleteLike(ctx context.Context, id int64) error {
	return r.locked(func(tx *memTx) error { return tx.DeleteLike(ctx, id) })
}

func (r *memRelations) FindSubscription(ctx context.Context, subscriberID, targetID int64) (sub *model.Subscription, err error) {
	err = r.locked(func(tx *memTx) error {
		sub, err = tx.FindSubscription(ctx, subscriberID, targetID)
		return err
	})
	return sub, err
}

func (r *memRelations) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return r.locked(func(tx *memTx) error { return tx.CreateSubscription(ctx, sub) })
}

func (r *memRelations) DeleteSubscription(ctx context.Context, id int64) error {
	return r.locked(func(tx *memTx) error { return tx.DeleteSubscription(ctx, id) })
}

func (r *memRelations) CreateView(_ context.Context, view *model.View) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.fireBeforeInsert()
	if err := r.db.videoRowAllowed(view.VideoID); err != nil {
		return err
	}
	view.ID = r.db.id()
	view.CreatedAt = r.db.tick()
	r.db.views = append(r.db.views, *view)
	return nil
}

func (r *memRelations) CountViews(_ context.Context, videoID int64) (int64, error) {
	return int64(len(r.db.viewRows(videoID))), nil
}

func (r *memRelations) CountLikes(_ context.Context, videoID int64, polarity int8) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, l := range r.db.likes {
		if l.VideoID == videoID && l.Polarity == polarity {
			n++
		}
	}
	return n, nil
}

func (r *memRelations) CountComments(_ context.Context, videoID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, c := range r.db.comments {
		if c.VideoID == videoID {
			n++
		}
	}
	return n, nil
}

func (r *memRelations) CountSubscribers(_ context.Context, userID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, s := range r.db.subs {
		if s.SubscribedToID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memRelations) HasViewed(_ context.Context, userID, videoID int64) (bool, error) {
	for _, v := range r.db.viewRows(videoID) {
		if v.UserID != nil && *v.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRelations) IsSubscribed(_ context.Context, subscriberID, targetID int64) (bool, error) {
	return r.db.subRows(subscriberID, targetID) > 0, nil
}

func (r *memRelations) LikedVideoIDs(_ context.Context, userID int64, skip, limit int) ([]int64, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []model.VideoLike
	for _, l := range r.db.likes {
		if l.UserID == userID && l.Polarity == model.PolarityLike {
			rows = append(rows, *l)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UpdatedAt.After(rows[j].UpdatedAt) })
	ids := make([]int64, 0, len(rows))
	for _, l := range rows {
		ids = append(ids, l.VideoID)
	}
	return pageIDs(ids, skip, limit), int64(len(ids)), nil
}

func (r *memRelations) ViewedVideoIDs(_ context.Context, userID int64, skip, limit int) ([]int64, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[int64]bool{}
	var ids []int64
	for i := len(r.db.views) - 1; i >= 0; i-- {
		v := r.db.views[i]
		if v.UserID != nil && *v.UserID == userID && !seen[v.VideoID] {
			seen[v.VideoID] = true
			ids = append(ids, v.VideoID)
		}
	}
	return pageIDs(ids, skip, limit), int64(len(ids)), nil
}

func (r *memRelations) SubscribedToIDs(_ context.Context, subscriberID int64) ([]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var ids []int64
	for _, s := range r.db.subs {
		if s.SubscriberID == subscriberID {
			ids = append(ids, s.SubscribedToID)
		}
	}
	return ids, nil
}

func pageIDs(ids []int64, skip, limit int) []int64 {
	if skip >= len(ids) {
		return nil
	}
	end := len(ids)
	if limit < end-skip {
		end = skip + limit
	}
	return ids[skip:end]
}

// ---- VideoRepo ----

type memVideos struct {
	db *memDB
}

var _ repository.VideoRepo = (*memVideos)(nil)

func (r *memVideos) GetByID(_ context.Context, id int64) (*model.Video, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.db.withAuthor(v)
	return &out, nil
}

func (r *memVideos) GetByIDs(_ context.Context, ids []int64) ([]model.Video, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.Video
	for _, id := range ids {
		if v, ok := r.db.videos[id]; ok {
			out = append(out, r.db.withAuthor(v))
		}
	}
	return out, nil
}

func (r *memVideos) Exists(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.videos[id]
	return ok, nil
}

func (r *memVideos) Create(_ context.Context, video *model.Video) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	video.ID = r.db.id()
	video.CreatedAt = r.db.tick()
	cp := *video
	r.db.videos[video.ID] = &cp
	return nil
}

func (r *memVideos) filter(keep func(v *model.Video) bool, skip, limit int) ([]model.Video, int64) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []model.Video
	for _, v := range r.db.videos {
		if keep(v) {
			all = append(all, r.db.withAuthor(v))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if skip >= len(all) {
		return nil, total
	}
	end := len(all)
	if limit < end-skip {
		end = skip + limit
	}
	return all[skip:end], total
}

func (r *memVideos) ListRecent(_ context.Context, skip, limit int) ([]model.Video, int64, error) {
	videos, total := r.filter(func(*model.Video) bool { return true }, skip, limit)
	return videos, total, nil
}

func (r *memVideos) ListTrending(_ context.Context, skip, limit int) ([]model.Video, int64, error) {
	all, total := r.filter(func(*model.Video) bool { return true }, 0, math.MaxInt)

	r.db.mu.Lock()
	views := map[int64]int{}
	for _, v := range r.db.views {
		views[v.VideoID]++
	}
	r.db.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool { return views[all[i].ID] > views[all[j].ID] })
	if skip >= len(all) {
		return nil, total, nil
	}
	end := len(all)
	if limit < end-skip {
		end = skip + limit
	}
	return all[skip:end], total, nil
}

func (r *memVideos) ListByAuthors(_ context.Context, authorIDs []int64, skip, limit int) ([]model.Video, int64, error) {
	set := map[int64]bool{}
	for _, id := range authorIDs {
		set[id] = true
	}
	videos, total := r.filter(func(v *model.Video) bool { return set[v.AuthorID] }, skip, limit)
	return videos, total, nil
}

func (r *memVideos) CountByAuthor(_ context.Context, authorID int64) (int64, error) {
	_, total := r.filter(func(v *model.Video) bool { return v.AuthorID == authorID }, 0, 0)
	return total, nil
}

func (r *memVideos) Search(_ context.Context, keyword string, skip, limit int) ([]model.Video, int64, error) {
	kw := strings.ToLower(keyword)
	videos, total := r.filter(func(v *model.Video) bool {
		return strings.Contains(strings.ToLower(v.Title), kw) || strings.Contains(strings.ToLower(v.Description), kw)
	}, skip, limit)
	return videos, total, nil
}

func (r *memVideos) DeleteCascade(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.videos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.db.deleteVideoLocked(id)
	return nil
}

// ---- UserRepo ----

type memUsers struct {
	db *memDB
}

var _ repository.UserRepo = (*memUsers)(nil)

func (r *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, err := r.GetByID(ctx, id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUsers) Exists(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.users[id]
	return ok, nil
}

func (r *memUsers) Create(_ context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.db.id()
	user.CreatedAt = r.db.tick()
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *memUsers) Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.User, error) {
	r.db.mu.Lock()
	u, ok := r.db.users[id]
	if ok {
		if name, ok := updates["username"].(string); ok {
			u.Username = name
		}
		if avatar, ok := updates["avatar"].(string); ok {
			u.Avatar = &avatar
		}
	}
	r.db.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memUsers) ListRecommended(_ context.Context, excludeID int64, limit int) ([]model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.User
	for _, u := range r.db.users {
		if u.ID != excludeID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUsers) SearchByUsername(_ context.Context, keyword string, skip, limit int) ([]model.User, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.User
	for _, u := range r.db.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(keyword)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if skip >= len(out) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

// ---- CommentRepo ----

type memComments struct {
	db *memDB
}

var _ repository.CommentRepo = (*memComments)(nil)

func (r *memComments) Create(_ context.Context, c *model.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.fireBeforeInsert()
	if err := r.db.videoRowAllowed(c.VideoID); err != nil {
		return err
	}
	c.ID = r.db.id()
	c.CreatedAt = r.db.tick()
	cp := *c
	r.db.comments[c.ID] = &cp
	return nil
}

func (r *memComments) GetByID(_ context.Context, id int64) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	if u, ok := r.db.users[c.UserID]; ok {
		cp.User = *u
	}
	return &cp, nil
}

func (r *memComments) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.comments, id)
	return nil
}

func (r *memComments) ListByVideo(ctx context.Context, videoID int64, skip, limit int) ([]model.Comment, int64, error) {
	r.db.mu.Lock()
	var ids []int64
	for id, c := range r.db.comments {
		if c.VideoID == videoID {
			ids = append(ids, id)
		}
	}
	r.db.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	total := int64(len(ids))
	var out []model.Comment
	for _, id := range pageIDs(ids, skip, limit) {
		c, _ := r.GetByID(ctx, id)
		out = append(out, *c)
	}
	return out, total, nil
}

// ---- 事件 ----

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// ---- 组装 ----

type fixture struct {
	db         *memDB
	events     *recordingPublisher
	engagement *EngagementService
	aggregator *AggregationService
	videos     *VideoService
	comments   *CommentService
	users      *UserService
}

func newFixture() *fixture {
	db := newMemDB()
	pub := &recordingPublisher{}
	videoRepo := &memVideos{db: db}
	userRepo := &memUsers{db: db}
	relations := &memRelations{db: db}

	agg := NewAggregationService(relations, videoRepo, 4)
	return &fixture{
		db:         db,
		events:     pub,
		engagement: NewEngagementService(videoRepo, userRepo, relations, pub),
		aggregator: agg,
		videos:     NewVideoService(videoRepo, agg, pub, nil),
		comments:   NewCommentService(&memComments{db: db}, videoRepo, pub),
		users:      NewUserService(userRepo, videoRepo, relations, agg, 10),
	}
}
