// Package models defines the core data types shared across praisebot.
package models

// Identity describes a chat user, bot or channel as shown on a praise.
type Identity struct {
	// ID is the chat-directory identifier (or the literal mention text
	// for bare references).
	ID string `json:"id" yaml:"id"`

	// DisplayName is the short handle, e.g. "cmason".
	DisplayName string `json:"display_name" yaml:"name"`

	// FullName is the human-readable name, e.g. "Chris Mason".
	FullName string `json:"full_name" yaml:"full_name"`

	// IconURL is an optional avatar location.
	IconURL string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
}

// BareIdentity wraps a literal mention that needs no directory lookup.
func BareIdentity(literal string) Identity {
	return Identity{
		ID:          literal,
		DisplayName: literal,
		FullName:    literal,
	}
}

// IsZero reports whether the identity carries no information.
func (i Identity) IsZero() bool {
	return i == Identity{}
}
