package veil

// Composite marks a type whose fields the walker inspects.
// Types that do not implement it are opaque unless they are sequences.
//
//	func (StudentDTO) VeilComposite() {}
type Composite interface {
	VeilComposite()
}

// ApplyFunc runs a single value through the codec for a domain, choosing the
// direction from the value's shape.
type ApplyFunc func(value string, d Domain) (string, error)

// Veiler bypasses reflection for the graph walk. When a value implements
// Veiler the walker calls Veil instead of reading struct tags, and does not
// recurse into the value afterwards.
//
// This is the explicit adapter for hot paths and for types whose fields are
// not reachable by reflection:
//
//	func (s *session) Veil(apply veil.ApplyFunc) error {
//	    id, err := apply(s.userID, veil.Student)
//	    if err != nil {
//	        return err
//	    }
//	    s.userID = id
//	    return nil
//	}
type Veiler interface {
	Veil(apply ApplyFunc) error
}
