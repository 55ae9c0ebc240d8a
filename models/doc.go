package models

// Doc carries the document id. It is not stored as a field in Firestore, where the id
// lives in the document path.
type Doc struct {
	ID string `bson:"id" json:"id" firestore:"-"`
}

// SetID lets the document store fill in the id after decoding.
func (d *Doc) SetID(id string) { d.ID = id }

// BoolValue reads an optional flag whose absence means true, the convention the mobile
// apps use for isActive and isAvailable.
func BoolValue(b *bool) bool {
	return b == nil || *b
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
