package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/attendly/rollcall-backend/internal/model"
	"github.com/attendly/rollcall-backend/internal/repository"
	ws "github.com/attendly/rollcall-backend/internal/websocket"
)

// recordingNotifier captures published roster events.
type recordingNotifier struct {
	events []ws.RosterEvent
}

func (n *recordingNotifier) Publish(evt ws.RosterEvent) {
	n.events = append(n.events, evt)
}

func newTestService() (*AttendanceService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewAttendanceService(repository.NewMemoryStudentStore(), nil, notifier, 0, zerolog.Nop())
	return svc, notifier
}

func TestCreateDefaultsToAbsent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	student, err := svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if student.Status != model.StatusAbsent {
		t.Errorf("status = %q, want %q", student.Status, model.StatusAbsent)
	}
	if student.ID == 0 {
		t.Error("expected a generated ID")
	}
	if student.CreatedAt.IsZero() || student.UpdatedAt.IsZero() {
		t.Error("expected generated timestamps")
	}

	students, err := svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(students) != 1 || students[0].ID != student.ID {
		t.Fatalf("list = %+v, want exactly the created student", students)
	}
}

func TestCreateKeepsExplicitStatus(t *testing.T) {
	svc, _ := newTestService()

	student, err := svc.Create(context.Background(), &model.CreateStudentRequest{
		Roll: "A1", Name: "Asha", Status: model.StatusPresent,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if student.Status != model.StatusPresent {
		t.Errorf("status = %q, want %q", student.Status, model.StatusPresent)
	}
}

func TestCreateDuplicateRoll(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Another"})
	if !errors.Is(err, repository.ErrDuplicateRoll) {
		t.Fatalf("err = %v, want ErrDuplicateRoll", err)
	}
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	present := model.StatusPresent
	updated, err := svc.Update(ctx, created.ID, model.StudentPatch{Status: &present})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusPresent {
		t.Errorf("status = %q, want present", updated.Status)
	}
	if updated.Roll != "A1" || updated.Name != "Asha" {
		t.Errorf("roll/name changed: %q %q", updated.Roll, updated.Name)
	}
}

func TestStatusToggleIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha"})

	present, absent := model.StatusPresent, model.StatusAbsent
	for _, want := range []model.Status{present, present, absent, present} {
		w := want
		if _, err := svc.Update(ctx, created.ID, model.StudentPatch{Status: &w}); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := svc.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != want {
			t.Fatalf("status = %q, want last value set %q", got.Status, want)
		}
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc, _ := newTestService()

	present := model.StatusPresent
	_, err := svc.Update(context.Background(), 42, model.StudentPatch{Status: &present})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// The failed update must not have created anything.
	students, _ := svc.List(context.Background(), nil)
	if len(students) != 0 {
		t.Fatalf("list = %+v, want empty", students)
	}
}

func TestDeleteThenList(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha"})
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	students, _ := svc.List(ctx, nil)
	for _, s := range students {
		if s.ID == created.ID {
			t.Fatalf("deleted student still listed: %+v", s)
		}
	}

	// Deleting again is not an error.
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestListStatusFilter(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha", Status: model.StatusPresent})
	svc.Create(ctx, &model.CreateStudentRequest{Roll: "A2", Name: "Bilal"})

	present := model.StatusPresent
	students, err := svc.List(ctx, &present)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(students) != 1 || students[0].Roll != "A1" {
		t.Fatalf("filtered list = %+v, want only A1", students)
	}
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha", Status: model.StatusPresent})
	svc.Create(ctx, &model.CreateStudentRequest{Roll: "A2", Name: "Bilal"})
	svc.Create(ctx, &model.CreateStudentRequest{Roll: "A3", Name: "Chloe"})

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Present != 1 || summary.Absent != 2 || summary.Total != 3 {
		t.Fatalf("summary = %+v, want 1/2/3", summary)
	}
}

func TestResetAll(t *testing.T) {
	svc, notifier := newTestService()
	ctx := context.Background()

	svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha", Status: model.StatusPresent})
	svc.Create(ctx, &model.CreateStudentRequest{Roll: "A2", Name: "Bilal", Status: model.StatusPresent})

	touched, err := svc.ResetAll(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if touched != 2 {
		t.Errorf("touched = %d, want 2", touched)
	}

	students, _ := svc.List(ctx, nil)
	for _, s := range students {
		if s.Status != model.StatusAbsent {
			t.Errorf("student %s status = %q after reset", s.Roll, s.Status)
		}
	}

	last := notifier.events[len(notifier.events)-1]
	if last.Event != ws.EventReset {
		t.Errorf("last event = %q, want reset", last.Event)
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	svc, notifier := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &model.CreateStudentRequest{Roll: "A1", Name: "Asha"})
	present := model.StatusPresent
	svc.Update(ctx, created.ID, model.StudentPatch{Status: &present})
	svc.Delete(ctx, created.ID)

	want := []ws.EventType{ws.EventCreated, ws.EventUpdated, ws.EventDeleted}
	if len(notifier.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(notifier.events), len(want))
	}
	for i, evt := range notifier.events {
		if evt.Event != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, evt.Event, want[i])
		}
	}
	if notifier.events[2].StudentID != created.ID {
		t.Errorf("delete event id = %d, want %d", notifier.events[2].StudentID, created.ID)
	}
}
