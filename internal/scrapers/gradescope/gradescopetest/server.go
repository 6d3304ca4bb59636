// Package gradescopetest provides a fake gradescope server for tests.
package gradescopetest

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

const (
	Email    = "student@example.edu"
	Password = "hunter2"
	Token    = "csrf-token-value"

	sessionCookie = "signed_token"
	sessionValue  = "session-value"
)

type Row struct {
	Name string
	// Href is left out of the row when empty.
	Href        string
	Status      string
	StatusClass string
	Released    string
	Due         string
}

type Course struct {
	Id   string
	Name string
	Term string
	Rows []Row
	// Broken makes the course page respond with a 500.
	Broken bool
}

// Server is a fake gradescope that accepts a single account (Email, Password).
type Server struct {
	*httptest.Server

	Courses []Course

	mutex  sync.Mutex
	hits   map[string]int
	logins int
}

func NewServer(courses []Course) *Server {
	s := &Server{
		Courses: courses,
		hits:    map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/login", s.login)
	mux.HandleFunc("/account", s.authenticated(s.account))
	mux.HandleFunc("/courses/", s.authenticated(s.course))
	s.Server = httptest.NewServer(s.count(mux))
	return s
}

// Hits returns how many requests were made to the given path.
func (s *Server) Hits(path string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.hits[path]
}

// Logins returns how many successful logins happened.
func (s *Server) Logins() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.logins
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mutex.Lock()
		s.hits[r.URL.Path]++
		s.mutex.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value != sessionValue {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html><head><meta name="csrf-token" content="{{ . }}" /><title>Log In</title></head>
<body><form action="/login" method="post"></form></body></html>`))

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		err := r.ParseForm()
		if err == nil &&
			r.PostForm.Get("authenticity_token") == Token &&
			r.PostForm.Get("session[email]") == Email &&
			r.PostForm.Get("session[password]") == Password &&
			r.PostForm.Get("commit") == "Log In" {
			s.mutex.Lock()
			s.logins++
			s.mutex.Unlock()

			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sessionValue, Path: "/"})
			http.Redirect(w, r, "/account", http.StatusFound)
			return
		}
	}
	w.Header().Set("content-type", "text/html")
	loginPage.Execute(w, Token)
}

var accountPage = template.Must(template.New("account").Parse(`<!DOCTYPE html>
<html><head><title>Your Courses</title></head><body>
<div class="courseList">
<div class="courseList--coursesForTerm">
{{ range . }}<a class="courseBox" href="/courses/{{ .Id }}">
<div class="courseBox--name">{{ .Name }}</div>
{{ if .Term }}<div class="courseBox--shortTerm">{{ .Term }}</div>{{ end }}
</a>
{{ end }}</div>
</div>
</body></html>`))

func (s *Server) account(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("content-type", "text/html")
	accountPage.Execute(w, s.Courses)
}

var coursePage = template.Must(template.New("course").Parse(`<!DOCTYPE html>
<html><head><title>{{ .Name }}</title></head><body>
<table id="assignments-student-table"><tbody>
{{ range .Rows }}<tr>
<th scope="row">{{ if .Href }}<a href="{{ .Href }}">{{ .Name }}</a>{{ else }}{{ .Name }}{{ end }}</th>
<td class="submissionStatus {{ .StatusClass }}">{{ .Status }}</td>
<td>{{ .Released }}</td>
<td>{{ .Due }}</td>
<td></td>
</tr>
{{ end }}</tbody></table>
</body></html>`))

func (s *Server) course(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/courses/")
	for _, c := range s.Courses {
		if c.Id != id {
			continue
		}
		if c.Broken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "text/html")
		coursePage.Execute(w, c)
		return
	}
	http.Error(w, fmt.Sprintf("no course %s", id), http.StatusNotFound)
}
