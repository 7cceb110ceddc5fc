package domain

const CollectionTechnics = "Technic"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

type Instrument string

const (
	InstrumentPiano  Instrument = "Piano"
	InstrumentGuitar Instrument = "Guitar"
	InstrumentViolin Instrument = "Violin"
	InstrumentDrums  Instrument = "Drums"
	InstrumentFlute  Instrument = "Flute"
)

var Instruments = []Instrument{InstrumentPiano, InstrumentGuitar, InstrumentViolin, InstrumentDrums, InstrumentFlute}

const (
	MinLevel = 1
	MaxLevel = 5
)

// Technique (stored as "technic") is a Lesson with practice metadata and an
// optional audio reference.
type Technique struct {
	ID          string     `json:"id" mapstructure:"id"`
	Title       string     `json:"title" mapstructure:"title"`
	Description string     `json:"description" mapstructure:"description"`
	ImageURL    string     `json:"imageUrl,omitempty" mapstructure:"imageUrl"`
	VideoURL    string     `json:"videoUrl,omitempty" mapstructure:"videoUrl"`
	AudioURL    string     `json:"audioUrl,omitempty" mapstructure:"audioUrl"`
	Difficulty  Difficulty `json:"difficulty" mapstructure:"difficulty"`
	Instrument  Instrument `json:"instrument" mapstructure:"instrument"`
	Level       int        `json:"level" mapstructure:"level"`
	UserID      string     `json:"userId" mapstructure:"userId"`
	UserEmail   string     `json:"userEmail" mapstructure:"userEmail"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty" mapstructure:"createdAt"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty" mapstructure:"updatedAt"`
}

func (t Technique) RecordID() string { return t.ID }

func (t Technique) Created() *Timestamp { return t.CreatedAt }
