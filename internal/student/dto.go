package student

import (
	"fmt"
	"strconv"
)

// DTO is a student as seen by clients.
type DTO struct {
	ID        string `json:"id" yaml:"id" msgpack:"id" bson:"id" xml:"id" hashid:"student"`
	FirstName string `json:"firstName" yaml:"firstName" msgpack:"firstName" bson:"firstName" xml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName" msgpack:"lastName" bson:"lastName" xml:"lastName"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty" msgpack:"email,omitempty" bson:"email,omitempty" xml:"email,omitempty"`
	AdvisorID string `json:"advisorId,omitempty" yaml:"advisorId,omitempty" msgpack:"advisorId,omitempty" bson:"advisorId,omitempty" xml:"advisorId,omitempty" hashid:"teacher"`
}

// VeilComposite marks DTO for the boundary walk.
func (DTO) VeilComposite() {}

// List wraps a collection so every codec has a root element.
type List struct {
	XMLName  struct{} `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"students"`
	Students []DTO    `json:"students" yaml:"students" msgpack:"students" bson:"students" xml:"student"`
}

// VeilComposite marks List so its students are walked.
func (List) VeilComposite() {}

// CreateStudent is the body of a create request.
type CreateStudent struct {
	FirstName string `json:"firstName" yaml:"firstName" msgpack:"firstName" bson:"firstName" xml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName" msgpack:"lastName" bson:"lastName" xml:"lastName"`
	Email     string `json:"email" yaml:"email" msgpack:"email" bson:"email" xml:"email"`
	AdvisorID string `json:"advisorId" yaml:"advisorId" msgpack:"advisorId" bson:"advisorId" xml:"advisorId" hashid:"teacher"`
}

// VeilComposite marks CreateStudent for the boundary walk.
func (CreateStudent) VeilComposite() {}

// Clone implements veil.Cloner[CreateStudent].
func (c CreateStudent) Clone() CreateStudent { return c }

// FromEntity converts a stored student into its client shape.
func FromEntity(e Entity) DTO {
	dto := DTO{
		ID:        strconv.FormatInt(e.ID, 10),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
	}
	if e.AdvisorID > 0 {
		dto.AdvisorID = strconv.FormatInt(e.AdvisorID, 10)
	}
	return dto
}

// Entity converts a decoded create request into an entity without an id.
func (c CreateStudent) Entity() (Entity, error) {
	e := Entity{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
	if c.AdvisorID != "" {
		id, err := strconv.ParseInt(c.AdvisorID, 10, 64)
		if err != nil {
			return Entity{}, fmt.Errorf("%w: advisor id %q", ErrInvalid, c.AdvisorID)
		}
		e.AdvisorID = id
	}
	return e, nil
}
