package models

// Selection is a registered set of files, addressed later by ID.
// Files are root-relative slash paths, sorted and unique.
type Selection struct {
	ID    string   `json:"id"`
	Files []string `json:"files"`
}

// Clone returns a copy that does not share the Files backing array.
func (s Selection) Clone() Selection {
	out := Selection{ID: s.ID}
	if s.Files != nil {
		out.Files = append(make([]string, 0, len(s.Files)), s.Files...)
	}
	return out
}

// RegisterRequest is the body of POST /register-selection.
type RegisterRequest struct {
	Files []string `json:"files"`
	Dirs  []string `json:"dirs"`
}

// RegisterResponse is returned once a selection has been stored.
type RegisterResponse struct {
	ID string `json:"id"`
}
