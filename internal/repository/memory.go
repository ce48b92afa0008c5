package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/attendly/rollcall-backend/internal/model"
)

// MemoryStudentStore is an in-memory StudentStore used for isolated tests
// and local experiments. It mirrors the semantics of StudentRepository,
// including the roll uniqueness invariant and idempotent delete.
type MemoryStudentStore struct {
	mu     sync.RWMutex
	nextID int
	rows   map[int]model.Student
}

// NewMemoryStudentStore creates an empty in-memory store.
func NewMemoryStudentStore() *MemoryStudentStore {
	return &MemoryStudentStore{nextID: 1, rows: make(map[int]model.Student)}
}

// GetByID retrieves a student by ID.
func (m *MemoryStudentStore) GetByID(_ context.Context, id int) (*model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// List returns the roster ordered by roll, optionally filtered by status.
func (m *MemoryStudentStore) List(_ context.Context, status *model.Status) ([]model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var students []model.Student
	for _, s := range m.rows {
		if status != nil && s.Status != *status {
			continue
		}
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Roll < students[j].Roll })
	return students, nil
}

// Create inserts a new student, assigning ID and timestamps.
func (m *MemoryStudentStore) Create(_ context.Context, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Roll == s.Roll {
			return ErrDuplicateRoll
		}
	}
	now := time.Now().UTC()
	s.ID = m.nextID
	m.nextID++
	s.CreatedAt = now
	s.UpdatedAt = now
	m.rows[s.ID] = *s
	return nil
}

// Update applies a partial update and returns the stored result.
func (m *MemoryStudentStore) Update(_ context.Context, id int, patch model.StudentPatch) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Roll != nil {
		for otherID, other := range m.rows {
			if otherID != id && other.Roll == *patch.Roll {
				return nil, ErrDuplicateRoll
			}
		}
		s.Roll = *patch.Roll
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.Remarks != nil {
		s.Remarks = *patch.Remarks
	}
	s.UpdatedAt = time.Now().UTC()
	m.rows[id] = s
	return &s, nil
}

// Delete removes a student. Unknown IDs succeed silently.
func (m *MemoryStudentStore) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// CountByStatus returns the headcount split by attendance state.
func (m *MemoryStudentStore) CountByStatus(_ context.Context) (present, absent int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.rows {
		if s.Status == model.StatusPresent {
			present++
		} else {
			absent++
		}
	}
	return present, absent, nil
}

// ResetAll marks every student absent.
func (m *MemoryStudentStore) ResetAll(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	touched := 0
	for id, s := range m.rows {
		if s.Status != model.StatusAbsent {
			s.Status = model.StatusAbsent
			s.UpdatedAt = time.Now().UTC()
			m.rows[id] = s
			touched++
		}
	}
	return touched, nil
}
