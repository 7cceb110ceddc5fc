package domain

const CollectionAssignments = "assignments"

// ContentType tags which collection an assignment's ContentID resolves against.
type ContentType string

const (
	ContentLesson  ContentType = "lesson"
	ContentTechnic ContentType = "technic"
)

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	return c == ContentLesson || c == ContentTechnic
}

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentPending, AssignmentCompleted, AssignmentCancelled:
		return true
	}
	return false
}

// Assignment links one lesson or technic to a student with a due date.
type Assignment struct {
	ID          string           `json:"id" mapstructure:"id"`
	TeacherID   string           `json:"teacherId" mapstructure:"teacherId"`
	StudentID   string           `json:"studentId" mapstructure:"studentId"`
	ContentID   string           `json:"contentId" mapstructure:"contentId"`
	ContentType ContentType      `json:"contentType" mapstructure:"contentType"`
	DueDate     string           `json:"dueDate" mapstructure:"dueDate"`
	Status      AssignmentStatus `json:"status" mapstructure:"status"`
	CreatedAt   *Timestamp       `json:"createdAt,omitempty" mapstructure:"createdAt"`
	UpdatedAt   *Timestamp       `json:"updatedAt,omitempty" mapstructure:"updatedAt"`
}

func (a Assignment) RecordID() string { return a.ID }

func (a Assignment) Created() *Timestamp { return a.CreatedAt }
