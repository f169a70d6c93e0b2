package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"filmorate/internal/domain"
	"filmorate/internal/store"
	"filmorate/internal/validation"
)

type services struct {
	films     *FilmService
	users     *UserService
	directors *DirectorService
	reviews   *ReviewService
	reference *ReferenceService
}

func newServices(t *testing.T) services {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := store.NewMemoryStores()
	v := validation.New()
	films := NewFilmService(log, stores, v)
	return services{
		films:     films,
		users:     NewUserService(log, stores, films, v),
		directors: NewDirectorService(log, stores, v),
		reviews:   NewReviewService(log, stores, v),
		reference: NewReferenceService(stores),
	}
}

func newFilm(name string) domain.Film {
	return domain.Film{
		Name:        name,
		Description: "adipisicing",
		ReleaseDate: domain.NewDate(1967, time.March, 25),
		Duration:    100,
		Mpa:         &domain.Mpa{ID: 1},
	}
}

func newUser(login string) domain.User {
	return domain.User{
		Email:    login + "@mail.ru",
		Login:    login,
		Name:     "Nick Name",
		Birthday: domain.NewDate(1946, time.August, 20),
	}
}

func mustCreateFilm(t *testing.T, s services, name string) *domain.Film {
	t.Helper()
	film, err := s.films.Create(context.Background(), newFilm(name))
	if err != nil {
		t.Fatalf("create film %q: %v", name, err)
	}
	return film
}

func mustCreateUser(t *testing.T, s services, login string) *domain.User {
	t.Helper()
	user, err := s.users.Create(context.Background(), newUser(login))
	if err != nil {
		t.Fatalf("create user %q: %v", login, err)
	}
	return user
}

func boolPtr(v bool) *bool { return &v }

func TestFilmCreateAndGet(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	created := mustCreateFilm(t, s, "nisi eiusmod")
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}

	got, err := s.films.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get film: %v", err)
	}
	if got.Name != "nisi eiusmod" || got.Duration != 100 || got.ReleaseDate.String() != "1967-03-25" {
		t.Errorf("unexpected film: %+v", got)
	}
	if got.Mpa == nil || got.Mpa.ID != 1 || got.Mpa.Name != "G" {
		t.Errorf("unexpected mpa: %+v", got.Mpa)
	}
	if got.Genres == nil || len(got.Genres) != 0 {
		t.Errorf("expected empty genres, got %v", got.Genres)
	}
}

func TestFilmGenresAreDeduplicatedAndSorted(t *testing.T) {
	s := newServices(t)
	film := newFilm("Film")
	film.Genres = []domain.Genre{{ID: 3}, {ID: 1}, {ID: 3}}

	created, err := s.films.Create(context.Background(), film)
	if err != nil {
		t.Fatalf("create film: %v", err)
	}
	if len(created.Genres) != 2 || created.Genres[0].ID != 1 || created.Genres[1].ID != 3 {
		t.Fatalf("unexpected genres: %v", created.Genres)
	}
	if created.Genres[0].Name != "Комедия" {
		t.Errorf("expected genre name to be resolved, got %q", created.Genres[0].Name)
	}
}

func TestFilmCreateErrors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(f *domain.Film)
		want   error
	}{
		{name: "blank name", mutate: func(f *domain.Film) { f.Name = "" }, want: ErrValidation},
		{name: "early release", mutate: func(f *domain.Film) { f.ReleaseDate = domain.NewDate(1890, time.March, 25) }, want: ErrValidation},
		{name: "negative duration", mutate: func(f *domain.Film) { f.Duration = -200 }, want: ErrValidation},
		{name: "unknown mpa", mutate: func(f *domain.Film) { f.Mpa = &domain.Mpa{ID: 99} }, want: ErrNotFound},
		{name: "unknown genre", mutate: func(f *domain.Film) { f.Genres = []domain.Genre{{ID: 99}} }, want: ErrNotFound},
		{name: "unknown director", mutate: func(f *domain.Film) { f.Directors = []domain.Director{{ID: 7}} }, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			film := newFilm("Film")
			tt.mutate(&film)
			_, err := s.films.Create(ctx, film)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	films, _ := s.films.List(ctx)
	if len(films) != 0 {
		t.Errorf("rejected films must not be stored, got %d", len(films))
	}
}

func TestFilmUpdate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	created := mustCreateFilm(t, s, "Film")

	update := newFilm("Film Updated")
	update.ID = created.ID
	update.Mpa = &domain.Mpa{ID: 5}
	if _, err := s.films.Update(ctx, update); err != nil {
		t.Fatalf("update film: %v", err)
	}
	got, _ := s.films.GetByID(ctx, created.ID)
	if got.Name != "Film Updated" || got.Mpa.Name != "NC-17" {
		t.Errorf("update not applied: %+v", got)
	}

	update.ID = 9999
	if _, err := s.films.Update(ctx, update); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestLikeIsIdempotentAndWritesFeed(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	film := mustCreateFilm(t, s, "Film")
	user := mustCreateUser(t, s, "dolore")

	for i := 0; i < 2; i++ {
		if err := s.films.AddLike(ctx, film.ID, user.ID); err != nil {
			t.Fatalf("add like: %v", err)
		}
	}
	other := mustCreateFilm(t, s, "Other")
	popular, err := s.films.Popular(ctx, DefaultCount, 0, 0)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(popular) != 2 || popular[0].ID != film.ID || popular[1].ID != other.ID {
		t.Fatalf("unexpected popular order: %v", popular)
	}

	if err := s.films.RemoveLike(ctx, film.ID, user.ID); err != nil {
		t.Fatalf("remove like: %v", err)
	}
	feed, err := s.users.Feed(ctx, user.ID)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("expected 3 events, got %d", len(feed))
	}
	last := feed[2]
	if last.EventType != domain.EventLike || last.Operation != domain.OperationRemove || last.EntityID != film.ID {
		t.Errorf("unexpected last event: %+v", last)
	}
	if feed[0].ID >= feed[1].ID || feed[1].ID >= feed[2].ID {
		t.Errorf("feed must be ordered by event id: %+v", feed)
	}

	if err := s.films.AddLike(ctx, film.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found for unknown user, got %v", err)
	}
	if err := s.films.AddLike(ctx, 999, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found for unknown film, got %v", err)
	}
}

func TestPopularOrderingAndFilters(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	first := mustCreateFilm(t, s, "One like")
	second := newFilm("Two likes")
	second.ReleaseDate = domain.NewDate(2001, time.May, 1)
	second.Genres = []domain.Genre{{ID: 2}}
	secondFilm, err := s.films.Create(ctx, second)
	if err != nil {
		t.Fatalf("create film: %v", err)
	}
	u1 := mustCreateUser(t, s, "u1")
	u2 := mustCreateUser(t, s, "u2")

	_ = s.films.AddLike(ctx, first.ID, u1.ID)
	_ = s.films.AddLike(ctx, secondFilm.ID, u1.ID)
	_ = s.films.AddLike(ctx, secondFilm.ID, u2.ID)

	popular, _ := s.films.Popular(ctx, DefaultCount, 0, 0)
	if len(popular) != 2 || popular[0].ID != secondFilm.ID {
		t.Fatalf("film with 2 likes must come first: %v", popular)
	}
	limited, _ := s.films.Popular(ctx, 1, 0, 0)
	if len(limited) != 1 {
		t.Errorf("count not applied: %d", len(limited))
	}
	byGenre, _ := s.films.Popular(ctx, DefaultCount, 2, 0)
	if len(byGenre) != 1 || byGenre[0].ID != secondFilm.ID {
		t.Errorf("genre filter not applied: %v", byGenre)
	}
	byYear, _ := s.films.Popular(ctx, DefaultCount, 0, 1967)
	if len(byYear) != 1 || byYear[0].ID != first.ID {
		t.Errorf("year filter not applied: %v", byYear)
	}
	if _, err := s.films.Popular(ctx, 0, 0, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for count 0, got %v", err)
	}
}

func TestDirectorFilms(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	director, err := s.directors.Create(ctx, domain.Director{Name: "Director"})
	if err != nil {
		t.Fatalf("create director: %v", err)
	}

	late := newFilm("Late")
	late.ReleaseDate = domain.NewDate(2000, time.January, 1)
	late.Directors = []domain.Director{{ID: director.ID}}
	lateFilm, _ := s.films.Create(ctx, late)
	early := newFilm("Early")
	early.Directors = []domain.Director{{ID: director.ID}}
	earlyFilm, _ := s.films.Create(ctx, early)
	user := mustCreateUser(t, s, "fan")
	_ = s.films.AddLike(ctx, lateFilm.ID, user.ID)

	byYear, err := s.films.ByDirector(ctx, director.ID, "year")
	if err != nil {
		t.Fatalf("by director: %v", err)
	}
	if len(byYear) != 2 || byYear[0].ID != earlyFilm.ID {
		t.Errorf("expected earliest film first: %v", byYear)
	}
	if byYear[0].Directors[0].Name != "Director" {
		t.Errorf("director name not resolved: %v", byYear[0].Directors)
	}
	byLikes, _ := s.films.ByDirector(ctx, director.ID, "likes")
	if byLikes[0].ID != lateFilm.ID {
		t.Errorf("expected most liked film first: %v", byLikes)
	}
	if _, err := s.films.ByDirector(ctx, director.ID, "rating"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := s.films.ByDirector(ctx, 999, "year"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := s.directors.Delete(ctx, director.ID); err != nil {
		t.Fatalf("delete director: %v", err)
	}
	got, _ := s.films.GetByID(ctx, lateFilm.ID)
	if len(got.Directors) != 0 {
		t.Errorf("director must be removed from films: %v", got.Directors)
	}
}

func TestSearch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	updated := mustCreateFilm(t, s, "Film Updated")
	director, _ := s.directors.Create(ctx, domain.Director{Name: "Updater"})
	byDirector := newFilm("Other")
	byDirector.Directors = []domain.Director{{ID: director.ID}}
	directed, _ := s.films.Create(ctx, byDirector)

	found, err := s.films.Search(ctx, "DAT", "title")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != updated.ID {
		t.Errorf("expected title match, got %v", found)
	}

	found, _ = s.films.Search(ctx, "upd", "director,title")
	if len(found) != 2 {
		t.Errorf("expected 2 films by title and director, got %v", found)
	}
	found, _ = s.films.Search(ctx, "upd", "director")
	if len(found) != 1 || found[0].ID != directed.ID {
		t.Errorf("expected director match, got %v", found)
	}

	found, _ = s.films.Search(ctx, "NO FILM", "title")
	if len(found) != 0 {
		t.Errorf("expected nothing, got %v", found)
	}

	if _, err := s.films.Search(ctx, "  ", "title"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for blank query, got %v", err)
	}
	if _, err := s.films.Search(ctx, "x", "genre"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for unknown by, got %v", err)
	}
}

func TestUserCreate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	user := newUser("dolore")
	user.Name = ""
	created, err := s.users.Create(ctx, user)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.Name != "dolore" {
		t.Errorf("blank name must be replaced by login, got %q", created.Name)
	}

	tests := []struct {
		name   string
		mutate func(u *domain.User)
	}{
		{name: "login with spaces", mutate: func(u *domain.User) { u.Login = "dolore ullamco" }},
		{name: "email without at", mutate: func(u *domain.User) { u.Email = "mail.ru" }},
		{name: "future birthday", mutate: func(u *domain.User) { u.Birthday = domain.NewDate(2446, time.August, 20) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUser("valid")
			tt.mutate(&u)
			if _, err := s.users.Create(ctx, u); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestFriendshipIsOneWay(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u1 := mustCreateUser(t, s, "u1")
	u2 := mustCreateUser(t, s, "u2")
	u3 := mustCreateUser(t, s, "u3")

	if err := s.users.AddFriend(ctx, u1.ID, u2.ID); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	friends, _ := s.users.Friends(ctx, u1.ID)
	if len(friends) != 1 || friends[0].ID != u2.ID {
		t.Errorf("expected u2 in friends of u1, got %v", friends)
	}
	friends, _ = s.users.Friends(ctx, u2.ID)
	if len(friends) != 0 {
		t.Errorf("friendship must be one-way, got %v", friends)
	}

	_ = s.users.AddFriend(ctx, u3.ID, u2.ID)
	common, err := s.users.CommonFriends(ctx, u1.ID, u3.ID)
	if err != nil {
		t.Fatalf("common friends: %v", err)
	}
	if len(common) != 1 || common[0].ID != u2.ID {
		t.Errorf("expected u2 as common friend, got %v", common)
	}

	if err := s.users.RemoveFriend(ctx, u1.ID, u2.ID); err != nil {
		t.Fatalf("remove friend: %v", err)
	}
	friends, _ = s.users.Friends(ctx, u1.ID)
	if len(friends) != 0 {
		t.Errorf("friend not removed: %v", friends)
	}

	feed, _ := s.users.Feed(ctx, u1.ID)
	if len(feed) != 2 || feed[0].EventType != domain.EventFriend || feed[1].Operation != domain.OperationRemove {
		t.Errorf("unexpected feed: %+v", feed)
	}

	if err := s.users.AddFriend(ctx, u1.ID, u1.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for self friendship, got %v", err)
	}
	if err := s.users.AddFriend(ctx, u1.ID, -1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestReviewUsefulness(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	film := mustCreateFilm(t, s, "Film")
	var users []*domain.User
	for _, login := range []string{"u1", "u2", "u3", "u4"} {
		users = append(users, mustCreateUser(t, s, login))
	}

	review, err := s.reviews.Create(ctx, domain.Review{
		Content: "This film is sooo bad.", IsPositive: boolPtr(false),
		UserID: users[1].ID, FilmID: film.ID,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.Useful != 0 {
		t.Errorf("new review must have useful 0, got %d", review.Useful)
	}

	if err := s.reviews.Vote(ctx, review.ID, users[0].ID, domain.VoteLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := s.reviews.Vote(ctx, review.ID, users[3].ID, domain.VoteDislike); err != nil {
		t.Fatalf("dislike: %v", err)
	}
	got, _ := s.reviews.GetByID(ctx, review.ID)
	if got.Useful != 0 {
		t.Errorf("expected useful 0, got %d", got.Useful)
	}

	if err := s.reviews.RemoveVote(ctx, review.ID, users[3].ID); err != nil {
		t.Fatalf("remove dislike: %v", err)
	}
	got, _ = s.reviews.GetByID(ctx, review.ID)
	if got.Useful != 1 {
		t.Errorf("expected useful 1, got %d", got.Useful)
	}

	// Повторная оценка того же пользователя заменяет предыдущую
	_ = s.reviews.Vote(ctx, review.ID, users[0].ID, domain.VoteDislike)
	got, _ = s.reviews.GetByID(ctx, review.ID)
	if got.Useful != -1 {
		t.Errorf("expected useful -1, got %d", got.Useful)
	}
}

func TestReviewLifecycle(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	film := mustCreateFilm(t, s, "Film")
	author := mustCreateUser(t, s, "author")
	other := mustCreateUser(t, s, "other")

	review, err := s.reviews.Create(ctx, domain.Review{
		Content: "Good", IsPositive: boolPtr(true), UserID: author.ID, FilmID: film.ID,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	// автор и фильм при обновлении не меняются
	updated, err := s.reviews.Update(ctx, domain.Review{
		ID: review.ID, Content: "Bad", IsPositive: boolPtr(false), UserID: other.ID,
	})
	if err != nil {
		t.Fatalf("update review: %v", err)
	}
	if updated.Content != "Bad" || *updated.IsPositive || updated.UserID != author.ID || updated.FilmID != film.ID {
		t.Errorf("unexpected review after update: %+v", updated)
	}

	list, _ := s.reviews.List(ctx, film.ID, DefaultCount)
	if len(list) != 1 {
		t.Errorf("expected 1 review, got %d", len(list))
	}
	if _, err := s.reviews.List(ctx, 0, -1); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		t.Fatalf("delete review: %v", err)
	}
	if _, err := s.reviews.GetByID(ctx, review.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	feed, _ := s.users.Feed(ctx, author.ID)
	wantOps := []domain.Operation{domain.OperationAdd, domain.OperationUpdate, domain.OperationRemove}
	if len(feed) != len(wantOps) {
		t.Fatalf("expected %d events, got %+v", len(wantOps), feed)
	}
	for i, op := range wantOps {
		if feed[i].EventType != domain.EventReview || feed[i].Operation != op || feed[i].EntityID != review.ID {
			t.Errorf("event %d: unexpected %+v", i, feed[i])
		}
	}
	otherFeed, _ := s.users.Feed(ctx, other.ID)
	if len(otherFeed) != 0 {
		t.Errorf("update must be recorded for the author only, got %+v", otherFeed)
	}
}

func TestReviewCreateErrors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	film := mustCreateFilm(t, s, "Film")
	user := mustCreateUser(t, s, "user")

	tests := []struct {
		name   string
		review domain.Review
		want   error
	}{
		{name: "missing isPositive", review: domain.Review{Content: "x", UserID: user.ID, FilmID: film.ID}, want: ErrValidation},
		{name: "blank content", review: domain.Review{Content: " ", IsPositive: boolPtr(true), UserID: user.ID, FilmID: film.ID}, want: ErrValidation},
		{name: "unknown user", review: domain.Review{Content: "x", IsPositive: boolPtr(true), UserID: -2, FilmID: film.ID}, want: ErrNotFound},
		{name: "unknown film", review: domain.Review{Content: "x", IsPositive: boolPtr(true), UserID: user.ID, FilmID: -2}, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.reviews.Create(ctx, tt.review); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRecommendationsAndCommonFilms(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	f1 := mustCreateFilm(t, s, "F1")
	f2 := mustCreateFilm(t, s, "F2")
	f3 := mustCreateFilm(t, s, "F3")
	u1 := mustCreateUser(t, s, "u1")
	u2 := mustCreateUser(t, s, "u2")
	u3 := mustCreateUser(t, s, "u3")

	_ = s.films.AddLike(ctx, f1.ID, u1.ID)
	_ = s.films.AddLike(ctx, f1.ID, u2.ID)
	_ = s.films.AddLike(ctx, f2.ID, u2.ID)
	_ = s.films.AddLike(ctx, f3.ID, u3.ID)

	recs, err := s.users.Recommendations(ctx, u1.ID)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != f2.ID {
		t.Errorf("expected F2, got %v", recs)
	}

	common, err := s.users.CommonFilms(ctx, u1.ID, u2.ID)
	if err != nil {
		t.Fatalf("common films: %v", err)
	}
	if len(common) != 1 || common[0].ID != f1.ID {
		t.Errorf("expected F1, got %v", common)
	}

	if _, err := s.users.Recommendations(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	film := mustCreateFilm(t, s, "Film")
	author := mustCreateUser(t, s, "author")
	voter := mustCreateUser(t, s, "voter")

	review, _ := s.reviews.Create(ctx, domain.Review{
		Content: "Good", IsPositive: boolPtr(true), UserID: author.ID, FilmID: film.ID,
	})
	_ = s.reviews.Vote(ctx, review.ID, voter.ID, domain.VoteLike)
	_ = s.films.AddLike(ctx, film.ID, voter.ID)
	_ = s.users.AddFriend(ctx, author.ID, voter.ID)

	if err := s.users.Delete(ctx, voter.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	got, _ := s.reviews.GetByID(ctx, review.ID)
	if got.Useful != 0 {
		t.Errorf("votes of deleted user must be dropped, useful=%d", got.Useful)
	}
	friends, _ := s.users.Friends(ctx, author.ID)
	if len(friends) != 0 {
		t.Errorf("deleted user must leave friend lists, got %v", friends)
	}
	if err := s.users.Delete(ctx, voter.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := s.films.Delete(ctx, film.ID); err != nil {
		t.Fatalf("delete film: %v", err)
	}
	if _, err := s.reviews.GetByID(ctx, review.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("reviews of deleted film must be removed, got %v", err)
	}
}

func TestReference(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	genres, _ := s.reference.Genres(ctx)
	if len(genres) != 6 || genres[0].Name != "Комедия" {
		t.Errorf("unexpected genres: %v", genres)
	}
	ratings, _ := s.reference.MpaRatings(ctx)
	if len(ratings) != 5 || ratings[2].Name != "PG-13" {
		t.Errorf("unexpected mpa: %v", ratings)
	}
	if _, err := s.reference.Genre(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := s.reference.Mpa(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
