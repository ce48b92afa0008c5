package model

import "time"

// Status is the attendance state of a student. Exactly two values are
// representable; anything else is rejected at the binding layer and by
// the database CHECK constraint.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// Valid reports whether s is one of the enumerated attendance states.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Student is a single attendance entry for one person.
type Student struct {
	ID        int       `json:"id"`
	Roll      string    `json:"roll"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Remarks   string    `json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for adding a student to the roster.
// Status defaults to absent when omitted.
type CreateStudentRequest struct {
	Roll    string `json:"roll" binding:"required,min=1,max=20"`
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Status  Status `json:"status" binding:"omitempty,oneof=present absent"`
	Remarks string `json:"remarks" binding:"omitempty,max=255"`
}

// UpdateStudentRequest is the payload for a partial update. Nil fields are
// left unchanged on the stored record.
type UpdateStudentRequest struct {
	Roll    *string `json:"roll" binding:"omitempty,min=1,max=20"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Status  *Status `json:"status" binding:"omitempty,oneof=present absent"`
	Remarks *string `json:"remarks" binding:"omitempty,max=255"`
}

// Patch converts the request into a store-level patch.
func (r *UpdateStudentRequest) Patch() StudentPatch {
	return StudentPatch{
		Roll:    r.Roll,
		Name:    r.Name,
		Status:  r.Status,
		Remarks: r.Remarks,
	}
}

// StudentPatch carries the fields of a partial update into the store.
type StudentPatch struct {
	Roll    *string
	Name    *string
	Status  *Status
	Remarks *string
}

// Summary holds the roster headcount by attendance state.
type Summary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
}
