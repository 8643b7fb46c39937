package models

// Album is a read-only copy of a backend album. Extra fields in the response are ignored.
type Album struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

// Song belongs to exactly one [Album] through AlbumID.
type Song struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	AlbumID ID     `json:"albumId,omitempty"`
}

// SongDraft is the in-progress song record shared by the create and update forms.
//
// An empty title is valid; the backend decides what to accept.
type SongDraft struct {
	Title   string `json:"title"`
	AlbumID ID     `json:"albumId,omitempty"`
}

// ForAlbum returns a copy of the draft bound to albumID, as sent on create.
func (d SongDraft) ForAlbum(albumID ID) SongDraft {
	d.AlbumID = albumID
	return d
}

// SongUpdate is the PUT payload, which only carries the title.
type SongUpdate struct {
	Title string `json:"title"`
}

// Update returns the update payload for the draft.
func (d SongDraft) Update() SongUpdate {
	return SongUpdate{Title: d.Title}
}
