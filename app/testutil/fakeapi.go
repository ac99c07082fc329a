// Package testutil provides a fake placeholder API and fixtures for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"postboard/app/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
)

// FakeAPI serves posts, users and comments the way the placeholder API does
// and counts hits per request path.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	posts    []models.Post
	users    []models.User
	comments []models.Comment
	hits     map[string]int
	failures map[string]int
	raw      map[string]string
}

// NewFakeAPI starts a fake API for the lifetime of t.
func NewFakeAPI(t testing.TB, posts []models.Post, users []models.User, comments []models.Comment) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		posts:    posts,
		users:    users,
		comments: comments,
		hits:     make(map[string]int),
		failures: make(map[string]int),
		raw:      make(map[string]string),
	}

	router := mux.NewRouter()
	router.Use(f.count)
	router.HandleFunc("/posts", f.listPosts).Methods(http.MethodGet)
	router.HandleFunc("/posts/{id:[0-9]+}", f.getPost).Methods(http.MethodGet)
	router.HandleFunc("/posts/{id:[0-9]+}/comments", f.listComments).Methods(http.MethodGet)
	router.HandleFunc("/users", f.listUsers).Methods(http.MethodGet)
	router.HandleFunc("/users/{id:[0-9]+}", f.getUser).Methods(http.MethodGet)
	router.HandleFunc("/users/{id:[0-9]+}/posts", f.userPosts).Methods(http.MethodGet)

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL of the fake API.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Hits reports how many requests reached path.
func (f *FakeAPI) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// Fail makes path answer with status until Fail is called again with 0.
func (f *FakeAPI) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, path)
		return
	}
	f.failures[path] = status
}

// Raw makes path answer 200 with body verbatim.
func (f *FakeAPI) Raw(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw[path] = body
}

// SetPosts replaces the served post collection.
func (f *FakeAPI) SetPosts(posts []models.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = posts
}

func (f *FakeAPI) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		status := f.failures[r.URL.Path]
		raw, hasRaw := f.raw[r.URL.Path]
		f.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		if hasRaw {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, raw)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) listPosts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.posts)
}

func (f *FakeAPI) getPost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			writeJSON(w, p)
			return
		}
	}
	writeJSON(w, struct{}{}, http.StatusNotFound)
}

func (f *FakeAPI) listComments(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Comment{}
	for _, c := range f.comments {
		if c.PostID == id {
			out = append(out, c)
		}
	}
	writeJSON(w, out)
}

func (f *FakeAPI) listUsers(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.users)
}

func (f *FakeAPI) getUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			writeJSON(w, u)
			return
		}
	}
	writeJSON(w, struct{}{}, http.StatusNotFound)
}

func (f *FakeAPI) userPosts(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Post{}
	for _, p := range f.posts {
		if p.UserID == id {
			out = append(out, p)
		}
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any, status ...int) {
	w.Header().Set("Content-Type", "application/json")
	if len(status) > 0 {
		w.WriteHeader(status[0])
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Posts generates n posts with ids 1..n spread round-robin over users owners.
func Posts(n, owners int) []models.Post {
	faker := gofakeit.New(42)
	posts := make([]models.Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, models.Post{
			ID:     i,
			UserID: (i-1)%owners + 1,
			Title:  faker.Sentence(4),
			Body:   faker.Paragraph(1, 3, 12, " "),
		})
	}
	return posts
}

// Users generates users with ids 1..n.
func Users(n int) []models.User {
	faker := gofakeit.New(7)
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, models.User{
			ID:       i,
			Name:     faker.Name(),
			Username: faker.Username(),
			Email:    faker.Email(),
			Website:  faker.DomainName(),
			Address:  models.Address{City: faker.City(), Zipcode: faker.Zip()},
			Company:  models.Company{Name: faker.Company(), CatchPhrase: faker.BS()},
		})
	}
	return users
}

// Comments generates perPost remote comments for each of the given post ids.
func Comments(perPost int, postIDs ...int) []models.Comment {
	faker := gofakeit.New(99)
	var out []models.Comment
	id := int64(1)
	for _, pid := range postIDs {
		for i := 0; i < perPost; i++ {
			out = append(out, models.Comment{
				ID:     id,
				PostID: pid,
				Name:   faker.Sentence(3),
				Email:  faker.Email(),
				Body:   faker.Sentence(10),
			})
			id++
		}
	}
	return out
}
