package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/attendly/rollcall-backend/internal/config"
	"github.com/attendly/rollcall-backend/internal/model"
	ws "github.com/attendly/rollcall-backend/internal/websocket"
)

// StudentStore is the persistence abstraction the service operates on.
// Satisfied by repository.StudentRepository (PostgreSQL) and
// repository.MemoryStudentStore (tests).
type StudentStore interface {
	List(ctx context.Context, status *model.Status) ([]model.Student, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, id int, patch model.StudentPatch) (*model.Student, error)
	Delete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context) (present, absent int, err error)
	ResetAll(ctx context.Context) (int, error)
}

// Notifier receives a roster event after every successful mutation.
type Notifier interface {
	Publish(evt ws.RosterEvent)
}

// AttendanceService handles roster business logic: schema defaults, the
// Redis roster cache and change notification. Both rdb and notifier may be
// nil, which disables caching and notification respectively.
type AttendanceService struct {
	store    StudentStore
	rdb      *redis.Client
	notifier Notifier
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(store StudentStore, rdb *redis.Client, notifier Notifier, cacheTTL time.Duration, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		store:    store,
		rdb:      rdb,
		notifier: notifier,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "attendance_service").Logger(),
	}
}

// List returns the roster, optionally filtered by status. The unfiltered
// roster is served from the Redis cache when warm; filtered reads always
// hit the store.
func (s *AttendanceService) List(ctx context.Context, status *model.Status) ([]model.Student, error) {
	if status == nil {
		if cached := s.cachedRoster(ctx); cached != nil {
			return cached, nil
		}
	}

	students, err := s.store.List(ctx, status)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}

	if status == nil {
		s.storeRoster(ctx, students)
	}
	return students, nil
}

// GetByID retrieves a single student.
func (s *AttendanceService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.store.GetByID(ctx, id)
}

// Create adds a student to the roster, defaulting status to absent when
// the caller omitted it.
func (s *AttendanceService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	status := req.Status
	if status == "" {
		status = model.StatusAbsent
	}

	student := &model.Student{
		Roll:    req.Roll,
		Name:    req.Name,
		Status:  status,
		Remarks: req.Remarks,
	}
	if err := s.store.Create(ctx, student); err != nil {
		return nil, err
	}

	s.invalidateRoster(ctx)
	s.publish(ws.RosterEvent{Event: ws.EventCreated, Student: student})
	return student, nil
}

// Update applies a partial update to the student identified by id.
func (s *AttendanceService) Update(ctx context.Context, id int, patch model.StudentPatch) (*model.Student, error) {
	student, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidateRoster(ctx)
	s.publish(ws.RosterEvent{Event: ws.EventUpdated, Student: student})
	return student, nil
}

// Delete removes a student. Removing an unknown id succeeds: the caller
// cannot distinguish "already gone" from "just removed", and does not
// need to.
func (s *AttendanceService) Delete(ctx context.Context, id int) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateRoster(ctx)
	s.publish(ws.RosterEvent{Event: ws.EventDeleted, StudentID: id})
	return nil
}

// Summary returns the roster headcount by attendance state.
func (s *AttendanceService) Summary(ctx context.Context) (*model.Summary, error) {
	present, absent, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Summary{Present: present, Absent: absent, Total: present + absent}, nil
}

// ResetAll flips every student back to absent. Used by the rollover worker
// at the start of a new school day.
func (s *AttendanceService) ResetAll(ctx context.Context) (int, error) {
	touched, err := s.store.ResetAll(ctx)
	if err != nil {
		return 0, err
	}

	s.invalidateRoster(ctx)
	if touched > 0 {
		s.publish(ws.RosterEvent{Event: ws.EventReset})
	}
	return touched, nil
}

// ─── Roster cache ───────────────────────────────────────────────────

func (s *AttendanceService) cachedRoster(ctx context.Context) []model.Student {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, config.CacheKey.Roster()).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn().Err(err).Msg("Roster cache read failed")
		}
		return nil
	}
	var students []model.Student
	if err := json.Unmarshal(raw, &students); err != nil {
		s.log.Warn().Err(err).Msg("Roster cache corrupt, dropping")
		s.invalidateRoster(ctx)
		return nil
	}
	return students
}

func (s *AttendanceService) storeRoster(ctx context.Context, students []model.Student) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(students)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.Roster(), raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Roster cache write failed")
	}
}

func (s *AttendanceService) invalidateRoster(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.Roster()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Roster cache invalidation failed")
	}
}

func (s *AttendanceService) publish(evt ws.RosterEvent) {
	if s.notifier != nil {
		s.notifier.Publish(evt)
	}
}
