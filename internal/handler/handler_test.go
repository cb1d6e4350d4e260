package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

// memStore is an in-memory repository.Collection that remembers the last
// list query it was given.
type memStore[T any, P model.DocumentPtr[T]] struct {
	mu        sync.Mutex
	docs      map[primitive.ObjectID]*T
	ids       []primitive.ObjectID
	lastQuery repository.ListQuery
}

func newMemStore[T any, P model.DocumentPtr[T]]() *memStore[T, P] {
	return &memStore[T, P]{docs: map[primitive.ObjectID]*T{}}
}

func (m *memStore[T, P]) List(_ context.Context, q repository.ListQuery) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	var out []T
	for _, id := range m.ids {
		doc, ok := m.docs[id]
		if !ok {
			continue
		}
		if v, ok := any(P(doc)).(model.Visible); ok && q.ActiveOnly && !v.IsActive() {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (m *memStore[T, P]) Get(_ context.Context, id string) (*T, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *memStore[T, P]) Insert(_ context.Context, doc *T) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := P(doc)
	if p.GetID().IsZero() {
		p.SetID(primitive.NewObjectID())
	}
	cp := *doc
	m.docs[p.GetID()] = &cp
	m.ids = append(m.ids, p.GetID())
	return p.GetID(), nil
}

func (m *memStore[T, P]) Replace(_ context.Context, id primitive.ObjectID, doc *T) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return 0, nil
	}
	cp := *doc
	m.docs[id] = &cp
	return 1, nil
}

func (m *memStore[T, P]) Delete(_ context.Context, id string) (int64, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[oid]; !ok {
		return 0, nil
	}
	delete(m.docs, oid)
	return 1, nil
}

func (m *memStore[T, P]) put(doc *T) primitive.ObjectID {
	id, _ := m.Insert(context.Background(), doc)
	return id
}

// envelope mirrors response.Response with the data left raw.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func errCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}
