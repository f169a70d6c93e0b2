package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filmorate/internal/domain"
	"filmorate/internal/service"
	"filmorate/internal/store"
	"filmorate/internal/validation"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := store.NewMemoryStores()
	v := validation.New()
	films := service.NewFilmService(log, stores, v)
	h := NewHandler(Services{
		Films:     films,
		Users:     service.NewUserService(log, stores, films, v),
		Directors: service.NewDirectorService(log, stores, v),
		Reviews:   service.NewReviewService(log, stores, v),
		Reference: service.NewReferenceService(stores),
	}, log)
	srv := httptest.NewServer(NewRouter(h, NewMetrics()))
	t.Cleanup(srv.Close)
	return srv
}

// do выполняет запрос и декодирует JSON ответ в out, если out != nil.
func do(t *testing.T, srv *httptest.Server, method, path, body string, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, data, err)
		}
	}
	return resp.StatusCode
}

const filmBody = `{"name":"nisi eiusmod","description":"adipisicing","releaseDate":"1967-03-25","duration":100,"mpa":{"id":1}}`

const userBody = `{"login":"dolore","name":"","email":"mail@mail.ru","birthday":"1946-08-20"}`

func TestCreateAndGetFilm(t *testing.T) {
	srv := newTestServer(t)

	var created domain.Film
	if code := do(t, srv, http.MethodPost, "/films", filmBody, &created); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if created.ID != 1 || created.Name != "nisi eiusmod" || created.Mpa.Name != "G" {
		t.Errorf("unexpected film: %+v", created)
	}

	var raw map[string]interface{}
	if code := do(t, srv, http.MethodGet, "/films/1", "", &raw); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if raw["releaseDate"] != "1967-03-25" {
		t.Errorf("unexpected releaseDate: %v", raw["releaseDate"])
	}
	genres, ok := raw["genres"].([]interface{})
	if !ok || len(genres) != 0 {
		t.Errorf("genres must be an empty array, got %v", raw["genres"])
	}
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "broken json", method: http.MethodPost, path: "/films", body: `{"name":`, want: http.StatusBadRequest},
		{name: "bad date format", method: http.MethodPost, path: "/films", body: `{"name":"x","releaseDate":"25.03.1967","duration":1,"mpa":{"id":1}}`, want: http.StatusBadRequest},
		{name: "early release", method: http.MethodPost, path: "/films", body: `{"name":"x","releaseDate":"1890-03-25","duration":1,"mpa":{"id":1}}`, want: http.StatusBadRequest},
		{name: "unknown mpa", method: http.MethodPost, path: "/films", body: `{"name":"x","releaseDate":"1990-03-25","duration":1,"mpa":{"id":9}}`, want: http.StatusNotFound},
		{name: "update unknown film", method: http.MethodPut, path: "/films", body: `{"id":9999,"name":"x","releaseDate":"1990-03-25","duration":1,"mpa":{"id":1}}`, want: http.StatusNotFound},
		{name: "unknown film", method: http.MethodGet, path: "/films/9999", want: http.StatusNotFound},
		{name: "non numeric id", method: http.MethodGet, path: "/films/abc", want: http.StatusBadRequest},
		{name: "bad count", method: http.MethodGet, path: "/films/popular?count=abc", want: http.StatusBadRequest},
		{name: "zero count", method: http.MethodGet, path: "/films/popular?count=0", want: http.StatusBadRequest},
		{name: "login with spaces", method: http.MethodPost, path: "/users", body: `{"login":"dolore ullamco","email":"yandex@mail.ru","birthday":"2446-08-20"}`, want: http.StatusBadRequest},
		{name: "unknown user", method: http.MethodGet, path: "/users/-1", want: http.StatusNotFound},
		{name: "unknown genre", method: http.MethodGet, path: "/genres/9999", want: http.StatusNotFound},
		{name: "unknown mpa rating", method: http.MethodGet, path: "/mpa/9999", want: http.StatusNotFound},
		{name: "blank director", method: http.MethodPost, path: "/directors", body: `{"name":" "}`, want: http.StatusBadRequest},
		{name: "unknown director films", method: http.MethodGet, path: "/films/director/42?sortBy=year", want: http.StatusNotFound},
		{name: "search without by", method: http.MethodGet, path: "/films/search?query=x", want: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/nothing", want: http.StatusNotFound},
		{name: "method not allowed", method: http.MethodPatch, path: "/films", want: http.StatusMethodNotAllowed},
		{name: "method not allowed on item", method: http.MethodPatch, path: "/users/1", want: http.StatusMethodNotAllowed},
		{name: "method not allowed on reference", method: http.MethodPost, path: "/genres", want: http.StatusMethodNotAllowed},
		{name: "unknown nested route", method: http.MethodGet, path: "/films/1/nothing", want: http.StatusNotFound},
		{name: "common films without friend", method: http.MethodGet, path: "/films/common?userId=1", want: http.StatusBadRequest},
		{name: "common films without params", method: http.MethodGet, path: "/films/common", want: http.StatusBadRequest},
		{name: "common films bad user", method: http.MethodGet, path: "/films/common?userId=x&friendId=1", want: http.StatusBadRequest},
		{name: "common films unknown user", method: http.MethodGet, path: "/films/common?userId=1&friendId=2", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			code := do(t, srv, tt.method, tt.path, tt.body, &body)
			if code != tt.want {
				t.Fatalf("expected %d, got %d (%v)", tt.want, code, body)
			}
			if body["error"] == "" {
				t.Errorf("expected error message in body")
			}
		})
	}
}

func TestValidationMessage(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	code := do(t, srv, http.MethodPost, "/films", `{"name":"","releaseDate":"1967-03-25","duration":100,"mpa":{"id":1}}`, &body)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["error"] != "Validation failed: name must not be blank" {
		t.Errorf("unexpected message: %q", body["error"])
	}
}

func TestUserNameDefaultsToLogin(t *testing.T) {
	srv := newTestServer(t)

	var user domain.User
	if code := do(t, srv, http.MethodPost, "/users", userBody, &user); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if user.Name != "dolore" || user.Birthday.String() != "1946-08-20" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestFriendsAndFeedFlow(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/users", userBody, nil)
	do(t, srv, http.MethodPost, "/users", `{"login":"friend","email":"friend@mail.ru","birthday":"1976-08-20"}`, nil)

	if code := do(t, srv, http.MethodPut, "/users/1/friends/2", "", nil); code != http.StatusOK {
		t.Fatalf("add friend: expected 200, got %d", code)
	}
	var friends []domain.User
	do(t, srv, http.MethodGet, "/users/1/friends", "", &friends)
	if len(friends) != 1 || friends[0].ID != 2 {
		t.Errorf("unexpected friends of 1: %v", friends)
	}
	friends = nil
	do(t, srv, http.MethodGet, "/users/2/friends", "", &friends)
	if len(friends) != 0 {
		t.Errorf("friendship must be one-way, got %v", friends)
	}

	var feed []domain.Event
	do(t, srv, http.MethodGet, "/users/1/feed", "", &feed)
	if len(feed) != 1 || feed[0].EventType != domain.EventFriend || feed[0].EntityID != 2 || feed[0].Timestamp == 0 {
		t.Errorf("unexpected feed: %+v", feed)
	}
	if code := do(t, srv, http.MethodPut, "/users/1/friends/1", "", nil); code != http.StatusBadRequest {
		t.Errorf("self friendship: expected 400, got %d", code)
	}
}

func TestLikesPopularAndSearch(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/films", filmBody, nil)
	do(t, srv, http.MethodPost, "/films", `{"name":"Film Updated","releaseDate":"1989-04-17","duration":190,"mpa":{"id":2},"genres":[{"id":2}]}`, nil)
	do(t, srv, http.MethodPost, "/users", userBody, nil)

	if code := do(t, srv, http.MethodPut, "/films/2/like/1", "", nil); code != http.StatusOK {
		t.Fatalf("like: expected 200, got %d", code)
	}
	var popular []domain.Film
	do(t, srv, http.MethodGet, "/films/popular?count=1", "", &popular)
	if len(popular) != 1 || popular[0].ID != 2 {
		t.Errorf("unexpected popular: %v", popular)
	}
	popular = nil
	do(t, srv, http.MethodGet, "/films/popular?genreId=2&year=1989", "", &popular)
	if len(popular) != 1 || popular[0].ID != 2 {
		t.Errorf("unexpected filtered popular: %v", popular)
	}

	var found []domain.Film
	do(t, srv, http.MethodGet, "/films/search?query=DAT&by=title", "", &found)
	if len(found) != 1 || found[0].Name != "Film Updated" {
		t.Errorf("unexpected search result: %v", found)
	}
	found = nil
	do(t, srv, http.MethodGet, "/films/search?query=NO%20FILM&by=title,director", "", &found)
	if len(found) != 0 {
		t.Errorf("expected empty search result, got %v", found)
	}

	if code := do(t, srv, http.MethodDelete, "/films/2/like/1", "", nil); code != http.StatusOK {
		t.Fatalf("remove like: expected 200, got %d", code)
	}
	if code := do(t, srv, http.MethodPut, "/films/2/like/99", "", nil); code != http.StatusNotFound {
		t.Errorf("like by unknown user: expected 404, got %d", code)
	}
}

func TestCommonFilms(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/films", filmBody, nil)
	do(t, srv, http.MethodPost, "/films", `{"name":"Film Updated","releaseDate":"1989-04-17","duration":190,"mpa":{"id":2}}`, nil)
	do(t, srv, http.MethodPost, "/users", userBody, nil)
	do(t, srv, http.MethodPost, "/users", `{"login":"friend","email":"friend@mail.ru","birthday":"1976-08-20"}`, nil)

	do(t, srv, http.MethodPut, "/films/1/like/1", "", nil)
	do(t, srv, http.MethodPut, "/films/2/like/1", "", nil)
	do(t, srv, http.MethodPut, "/films/2/like/2", "", nil)

	var common []domain.Film
	if code := do(t, srv, http.MethodGet, "/films/common?userId=1&friendId=2", "", &common); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(common) != 1 || common[0].ID != 2 {
		t.Errorf("unexpected common films: %v", common)
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/films", filmBody, nil)

	var found []domain.Film
	if code := do(t, srv, http.MethodGet, "/films/search?query=%25&by=title", "", &found); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(found) != 0 {
		t.Errorf("percent sign must not match every film, got %v", found)
	}
}

func TestReviewVotes(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/films", filmBody, nil)
	for _, login := range []string{"u1", "u2", "u3", "u4"} {
		do(t, srv, http.MethodPost, "/users", `{"login":"`+login+`","email":"`+login+`@mail.ru","birthday":"1990-01-01"}`, nil)
	}

	var review domain.Review
	code := do(t, srv, http.MethodPost, "/reviews", `{"content":"This film is sooo bad.","isPositive":false,"userId":2,"filmId":1}`, &review)
	if code != http.StatusCreated {
		t.Fatalf("create review: expected 201, got %d", code)
	}
	if review.ID != 1 || review.Useful != 0 {
		t.Errorf("unexpected review: %+v", review)
	}

	do(t, srv, http.MethodPut, "/reviews/1/like/1", "", nil)
	do(t, srv, http.MethodPut, "/reviews/1/dislike/4", "", nil)
	do(t, srv, http.MethodGet, "/reviews/1", "", &review)
	if review.Useful != 0 {
		t.Errorf("expected useful 0, got %d", review.Useful)
	}

	if code := do(t, srv, http.MethodDelete, "/reviews/1/dislike/4", "", nil); code != http.StatusOK {
		t.Fatalf("remove dislike: expected 200, got %d", code)
	}
	do(t, srv, http.MethodGet, "/reviews/1", "", &review)
	if review.Useful != 1 {
		t.Errorf("expected useful 1, got %d", review.Useful)
	}

	var reviews []domain.Review
	do(t, srv, http.MethodGet, "/reviews?filmId=1&count=5", "", &reviews)
	if len(reviews) != 1 {
		t.Errorf("expected 1 review, got %d", len(reviews))
	}

	var raw map[string]interface{}
	do(t, srv, http.MethodGet, "/reviews/1", "", &raw)
	if _, ok := raw["reviewId"]; !ok {
		t.Errorf("review must be serialized with reviewId, got %v", raw)
	}

	code = do(t, srv, http.MethodPost, "/reviews", `{"content":"x","userId":2,"filmId":1}`, nil)
	if code != http.StatusBadRequest {
		t.Errorf("missing isPositive: expected 400, got %d", code)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/genres", nil)
	req.Header.Set(RequestIDHeader, "test-request")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("get genres: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "test-request" {
		t.Errorf("request id not propagated: %q", got)
	}

	resp, err = srv.Client().Get(srv.URL + "/mpa")
	if err != nil {
		t.Fatalf("get mpa: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Errorf("request id must be generated")
	}

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `filmorate_http_requests_total{method="GET",route="/genres",status="200"} 1`) {
		t.Errorf("request counter not exported:\n%s", body)
	}
}

func TestUnmatchedRoutesPassMiddleware(t *testing.T) {
	srv := newTestServer(t)

	for _, tt := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/nothing", http.StatusNotFound},
		{http.MethodPatch, "/films", http.StatusMethodNotAllowed},
	} {
		req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
		req.Header.Set(RequestIDHeader, "unmatched")
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, resp.StatusCode)
		}
		if got := resp.Header.Get(RequestIDHeader); got != "unmatched" {
			t.Errorf("%s %s: request id not propagated: %q", tt.method, tt.path, got)
		}
	}

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `method="GET",route="unknown",status="404"} 1`) {
		t.Errorf("unmatched request not counted:\n%s", body)
	}
	if !strings.Contains(string(body), `method="PATCH"`) || !strings.Contains(string(body), `status="405"`) {
		t.Errorf("method mismatch not counted:\n%s", body)
	}
}
