// package models defines the data model for the album & song manager
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// ID is an opaque backend identifier.
//
// The backend may send numbers or strings; both decode into ID and numeric
// identifiers are encoded back as JSON numbers.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		*id = ID(s)
		return nil
	case isNumberLiteral(data):
		*id = ID(data)
		return nil
	default:
		return fmt.Errorf("invalid id %s", data)
	}
}

// MarshalJSON writes numeric identifiers as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if isNumberLiteral([]byte(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func isNumberLiteral(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if c := b[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid(b)
}
