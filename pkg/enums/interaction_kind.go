package enums

import "fmt"

// InteractionKind distinguishes the relationship rows a user can hold against a target.
type InteractionKind string

const (
	InteractionKindLike   InteractionKind = "like"
	InteractionKindSave   InteractionKind = "save"
	InteractionKindFollow InteractionKind = "follow"
)

var validInteractionKinds = []InteractionKind{
	InteractionKindLike,
	InteractionKindSave,
	InteractionKindFollow,
}

// String implements fmt.Stringer.
func (i InteractionKind) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InteractionKind.
func (i InteractionKind) IsValid() bool {
	for _, candidate := range validInteractionKinds {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInteractionKind converts raw input into an InteractionKind.
func ParseInteractionKind(value string) (InteractionKind, error) {
	for _, candidate := range validInteractionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid interaction kind %q", value)
}
