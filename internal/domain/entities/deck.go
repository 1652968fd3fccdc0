package entities

// Deck groups notes, note types and media assets. A deck without an owner is
// a global deck.
type Deck struct {
	ID             int64
	Name           string
	Slug           string
	Description    *string
	DescriptionMD  *string
	CoverImageURL  *string
	InstructionsMD *string
	SourceLang     *string
	TargetLang     *string
	IsPublic       bool
	Tags           []string
	OwnerID        *int64
}

// IsOwnedBy reports whether userID owns the deck.
func (d *Deck) IsOwnedBy(userID int64) bool {
	return d.OwnerID != nil && *d.OwnerID == userID
}

// CanRead reports whether userID may read the deck's content.
func (d *Deck) CanRead(userID int64) bool {
	return d.IsPublic || d.OwnerID == nil || d.IsOwnedBy(userID)
}
