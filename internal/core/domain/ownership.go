package domain

// OwnerFields are the document fields naming the accounts that may write a
// document: a lesson or technic's author, an assignment's teacher and
// student, a student profile's teacher.
var OwnerFields = []string{"userId", "teacherId", "studentId"}

// OwnedBy reports whether uid may write the document id with the given data:
// it is uid's own document, or one of its owner fields names uid.
func OwnedBy(id string, data map[string]any, uid string) bool {
	if uid == "" {
		return false
	}
	if id != "" && id == uid {
		return true
	}
	for _, f := range OwnerFields {
		if v, ok := data[f].(string); ok && v == uid {
			return true
		}
	}
	return false
}

// HandsOver reports whether writing patch over existing would point an owner
// field at someone other than its current value or uid.
func HandsOver(existing, patch map[string]any, uid string) bool {
	for _, f := range OwnerFields {
		v, ok := patch[f]
		if !ok {
			continue
		}
		if v == existing[f] {
			continue
		}
		if s, _ := v.(string); s != uid {
			return true
		}
	}
	return false
}
