package repo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrDuplicateLogin = errors.New("login already exists")

// MemoryRepository keeps users and projects in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	users    map[string]memUser
	projects map[string]Project
	nextID   int
}

type memUser struct {
	id       int
	email    string
	password string
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{users: map[string]memUser{}, projects: map[string]Project{}}
}

func (m *MemoryRepository) CreateUser(_ context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, ErrDuplicateLogin
	}
	m.nextID++
	m.users[login] = memUser{id: m.nextID, email: email, password: password}
	return m.nextID, nil
}

func (m *MemoryRepository) GetByLogin(_ context.Context, login string) (int, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", ErrNotFound
	}
	return u.id, u.password, nil
}

func (m *MemoryRepository) SaveProject(_ context.Context, p Project) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.projects[p.ID]; ok && old.UserID != p.UserID {
		return p, ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	p.Data = append([]byte(nil), p.Data...)
	m.projects[p.ID] = p
	return p, nil
}

func (m *MemoryRepository) ListProjects(_ context.Context, userID int) ([]Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Project
	for _, p := range m.projects {
		if p.UserID == userID {
			p.Data = nil
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *MemoryRepository) GetProject(_ context.Context, userID int, id string) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.UserID != userID {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryRepository) DeleteProject(_ context.Context, userID int, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(m.projects, id)
	return nil
}
