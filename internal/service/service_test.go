package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vidhub/internal/api/dto"
	"vidhub/internal/engagement"
	"vidhub/internal/event"
	"vidhub/internal/identity"
	"vidhub/pkg/errno"
	"vidhub/pkg/utils"
)

func TestCommentService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.db.addUser("author")
	fan := f.db.addUser("fan")
	video := f.db.addVideo(author.ID, "v")
	other := f.db.addVideo(author.ID, "other")
	fanViewer := identity.Authenticated(fan.ID)

	created, err := f.comments.Create(ctx, fanViewer, video.ID, &dto.CommentCreateRequest{Text: "  first  "})
	if err != nil {
		t.Fatal(err)
	}
	if created.Text != "first" || !created.IsMine || created.User == nil || created.User.ID != fan.ID {
		t.Errorf("created = %+v", created)
	}

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name     string
			run      func() error
			wantKind error
		}{
			{"empty text", func() error {
				_, err := f.comments.Create(ctx, fanViewer, video.ID, &dto.CommentCreateRequest{Text: "   "})
				return err
			}, errno.ErrInvalidOperation},
			{"anonymous create", func() error {
				_, err := f.comments.Create(ctx, identity.Anonymous(), video.ID, &dto.CommentCreateRequest{Text: "x"})
				return err
			}, errno.ErrUnauthenticated},
			{"missing video", func() error {
				_, err := f.comments.Create(ctx, fanViewer, 9999, &dto.CommentCreateRequest{Text: "x"})
				return err
			}, errno.ErrNotFound},
			{"delete by other user", func() error {
				return f.comments.Delete(ctx, identity.Authenticated(author.ID), video.ID, created.ID)
			}, errno.ErrForbidden},
			{"delete through wrong video", func() error {
				return f.comments.Delete(ctx, fanViewer, other.ID, created.ID)
			}, errno.ErrNotFound},
			{"delete missing", func() error {
				return f.comments.Delete(ctx, fanViewer, video.ID, 9999)
			}, errno.ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.run(); !errors.Is(err, tt.wantKind) {
					t.Errorf("error = %v, want kind %v", err, tt.wantKind)
				}
			})
		}
	})

	list, err := f.comments.ListByVideo(ctx, identity.Anonymous(), video.ID, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || list.Comments[0].IsMine {
		t.Errorf("anonymous list = %+v", list)
	}

	if err := f.comments.Delete(ctx, fanViewer, video.ID, created.ID); err != nil {
		t.Fatalf("owner delete error = %v", err)
	}
	d, err := f.videos.GetDetail(ctx, identity.Anonymous(), video.ID)
	if err != nil {
		t.Fatal(err)
	}
	if d.CommentsLength != 0 {
		t.Errorf("comments_length = %d, want 0", d.CommentsLength)
	}
}

type stubIndex struct {
	ids     []int64
	err     error
	upserts []int64
	deletes []int64
}

func (s *stubIndex) Search(context.Context, string, int, int) ([]int64, int64, error) {
	return s.ids, int64(len(s.ids)), s.err
}

func (s *stubIndex) Upsert(_ context.Context, doc *dto.VideoDocument) error {
	s.upserts = append(s.upserts, doc.ID)
	return nil
}

func (s *stubIndex) Delete(_ context.Context, videoID int64) error {
	s.deletes = append(s.deletes, videoID)
	return nil
}

func TestSearchVideos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.db.addUser("author")
	cats := f.db.addVideo(author.ID, "Funny Cats")
	dogs := f.db.addVideo(author.ID, "dogs")
	videos := &memVideos{db: f.db}

	t.Run("empty term", func(t *testing.T) {
		svc := NewSearchService(videos, nil, f.aggregator)
		if _, err := svc.SearchVideos(ctx, identity.Anonymous(), "  ", 1, 10); !errors.Is(err, errno.ErrInvalidOperation) {
			t.Errorf("error = %v, want invalid operation", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		svc := NewSearchService(videos, nil, f.aggregator)
		data, err := svc.SearchVideos(ctx, identity.Anonymous(), "cat", 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if data.Total != 1 || data.Videos[0].ID != cats.ID {
			t.Errorf("result = %v", ids(data.Videos))
		}
	})

	t.Run("index keeps relevance order", func(t *testing.T) {
		svc := NewSearchService(videos, &stubIndex{ids: []int64{dogs.ID, cats.ID}}, f.aggregator)
		data, err := svc.SearchVideos(ctx, identity.Anonymous(), "anything", 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		got := ids(data.Videos)
		if len(got) != 2 || got[0] != dogs.ID || got[1] != cats.ID {
			t.Errorf("result = %v, want [%d %d]", got, dogs.ID, cats.ID)
		}
	})

	t.Run("index failure falls back", func(t *testing.T) {
		svc := NewSearchService(videos, &stubIndex{err: errors.New("es down")}, f.aggregator)
		data, err := svc.SearchVideos(ctx, identity.Anonymous(), "dog", 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if data.Total != 1 || data.Videos[0].ID != dogs.ID {
			t.Errorf("result = %v", ids(data.Videos))
		}
	})
}

func TestSearchService_HandleEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.db.addUser("author")
	video := f.db.addVideo(author.ID, "v")
	index := &stubIndex{}
	svc := NewSearchService(&memVideos{db: f.db}, index, f.aggregator)

	liked := event.New(event.VideoLiked)
	liked.VideoID = video.ID
	if err := svc.HandleEvent(ctx, &liked); err != nil {
		t.Fatal(err)
	}
	if len(index.upserts) != 1 || index.upserts[0] != video.ID {
		t.Errorf("upserts = %v", index.upserts)
	}

	subscribed := event.New(event.UserSubscribed)
	subscribed.TargetUserID = author.ID
	if err := svc.HandleEvent(ctx, &subscribed); err != nil {
		t.Fatal(err)
	}

	deleted := event.New(event.VideoDeleted)
	deleted.VideoID = video.ID
	if err := svc.HandleEvent(ctx, &deleted); err != nil {
		t.Fatal(err)
	}
	if len(index.deletes) != 1 || index.deletes[0] != video.ID {
		t.Errorf("deletes = %v", index.deletes)
	}

	// 已删除的视频再收到计数事件时移除文档
	viewed := event.New(event.VideoViewed)
	viewed.VideoID = 9999
	if err := svc.HandleEvent(ctx, &viewed); err != nil {
		t.Fatal(err)
	}
	if len(index.deletes) != 2 {
		t.Errorf("deletes = %v, want stale document removed", index.deletes)
	}
}

func TestUserService_Lists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	channel := f.db.addUser("channel")
	quiet := f.db.addUser("quiet")
	me := f.db.addUser("me")
	viewer := identity.Authenticated(me.ID)

	v1 := f.db.addVideo(channel.ID, "one")
	v2 := f.db.addVideo(channel.ID, "two")
	f.db.addVideo(quiet.ID, "unsubscribed")

	if _, err := f.engagement.ToggleSubscription(ctx, viewer, channel.ID); err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{v1.ID, v2.ID, v1.ID} {
		if err := f.engagement.RecordView(ctx, viewer, id); err != nil {
			t.Fatal(err)
		}
	}
	for _, id := range []int64{v2.ID, v1.ID} {
		if _, err := f.engagement.SetLikePolarity(ctx, viewer, id, engagement.Like); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("feed", func(t *testing.T) {
		data, err := f.users.SubscriptionFeed(ctx, viewer, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		got := ids(data.Videos)
		if len(got) != 2 || got[0] != v2.ID || got[1] != v1.ID {
			t.Errorf("feed = %v", got)
		}
	})

	t.Run("history", func(t *testing.T) {
		data, err := f.users.History(ctx, viewer, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		got := ids(data.Videos)
		if len(got) != 2 || got[0] != v1.ID || got[1] != v2.ID {
			t.Errorf("history = %v, want [%d %d]", got, v1.ID, v2.ID)
		}
	})

	t.Run("liked", func(t *testing.T) {
		data, err := f.users.LikedVideos(ctx, viewer, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		got := ids(data.Videos)
		if len(got) != 2 || got[0] != v1.ID || got[1] != v2.ID {
			t.Errorf("liked = %v, want [%d %d]", got, v1.ID, v2.ID)
		}
	})

	t.Run("recommended channels exclude me", func(t *testing.T) {
		data, err := f.users.RecommendedChannels(ctx, viewer)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range data.Channels {
			if c.ID == me.ID {
				t.Errorf("recommended channels contain the viewer")
			}
		}
		if len(data.Channels) != 2 {
			t.Errorf("channels = %d, want 2", len(data.Channels))
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		if _, err := f.users.History(ctx, identity.Anonymous(), 1, 10); !errors.Is(err, errno.ErrUnauthenticated) {
			t.Errorf("error = %v, want unauthenticated", err)
		}
	})
}

func TestUserService_UpdateMe(t *testing.T) {
	f := newFixture()
	me := f.db.addUser("me")
	viewer := identity.Authenticated(me.ID)
	name := "renamed"

	info, err := f.users.UpdateMe(context.Background(), viewer, &dto.UserUpdateRequest{Username: &name})
	if err != nil {
		t.Fatal(err)
	}
	if info.Username != name || info.Email == "" {
		t.Errorf("info = %+v", info)
	}

	if _, err := f.users.UpdateMe(context.Background(), viewer, &dto.UserUpdateRequest{}); !errors.Is(err, errno.ErrInvalidOperation) {
		t.Errorf("empty update error = %v, want invalid operation", err)
	}
}

type recordingRevoker struct {
	id  string
	ttl time.Duration
}

func (r *recordingRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.id, r.ttl = id, ttl
	return nil
}

func TestAuthService(t *testing.T) {
	db := newMemDB()
	tokens := utils.NewTokenManager("test-secret", time.Hour, "vidhub")
	revoker := &recordingRevoker{}
	svc := NewAuthService(&memUsers{db: db}, tokens, revoker)
	ctx := context.Background()

	first, err := svc.GoogleLogin(ctx, &dto.GoogleLoginRequest{Email: "Alice@Example.com", Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.GoogleLogin(ctx, &dto.GoogleLoginRequest{Email: "alice@example.com", Username: "other"})
	if err != nil {
		t.Fatal(err)
	}
	if first.User.ID != second.User.ID {
		t.Errorf("same email produced users %d and %d", first.User.ID, second.User.ID)
	}
	if second.User.Username != "alice" || second.User.Email != "alice@example.com" {
		t.Errorf("user = %+v", second.User)
	}
	if first.ExpiresIn != 3600 || first.TokenType != "bearer" {
		t.Errorf("token data = %+v", first)
	}

	claims, err := tokens.Parse(second.Token)
	if err != nil || claims.UserID != first.User.ID {
		t.Fatalf("Parse() = (%+v, %v)", claims, err)
	}

	me, err := svc.Me(ctx, identity.Authenticated(first.User.ID))
	if err != nil || me.ID != first.User.ID {
		t.Errorf("Me() = (%+v, %v)", me, err)
	}

	session := &identity.Session{
		Viewer:    identity.Authenticated(first.User.ID),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := svc.Signout(ctx, session); err != nil {
		t.Fatal(err)
	}
	if revoker.id != claims.ID || revoker.ttl <= 0 || revoker.ttl > time.Hour {
		t.Errorf("revoked (%q, %v), want (%q, <=1h)", revoker.id, revoker.ttl, claims.ID)
	}
}
