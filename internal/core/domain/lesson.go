package domain

const CollectionLessons = "Lesson"

// Lesson is a piece of teaching content owned by the teacher who wrote it.
type Lesson struct {
	ID          string     `json:"id" mapstructure:"id"`
	Title       string     `json:"title" mapstructure:"title"`
	Description string     `json:"description" mapstructure:"description"`
	ImageURL    string     `json:"imageUrl,omitempty" mapstructure:"imageUrl"`
	VideoURL    string     `json:"videoUrl,omitempty" mapstructure:"videoUrl"`
	UserID      string     `json:"userId" mapstructure:"userId"`
	UserEmail   string     `json:"userEmail" mapstructure:"userEmail"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty" mapstructure:"createdAt"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty" mapstructure:"updatedAt"`
}

func (l Lesson) RecordID() string { return l.ID }

func (l Lesson) Created() *Timestamp { return l.CreatedAt }
