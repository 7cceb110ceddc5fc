package domain

// Fields is the mutable payload of a document write.
type Fields map[string]any

// Document is a stored record addressed by collection and id.
type Document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Field returns the named value, or nil when absent.
func (d *Document) Field(name string) any {
	if d == nil || d.Data == nil {
		return nil
	}
	return d.Data[name]
}

// StringField returns the named value when it is a string.
func (d *Document) StringField(name string) string {
	s, _ := d.Field(name).(string)
	return s
}
