package veil

// Cloner allows types to provide deep copy logic.
// Implementing this interface is required for use with Processor.
//
// Send walks and encodes a clone so the caller's value keeps its raw
// identifiers. For types containing pointers, slices, or maps, Clone must copy
// them too:
//
//	func (l StudentList) Clone() StudentList {
//	    items := make([]StudentDTO, len(l.Items))
//	    copy(items, l.Items)
//	    return StudentList{Items: items}
//	}
//
// For simple value types, Clone can return the receiver:
//
//	func (s StudentDTO) Clone() StudentDTO { return s }
type Cloner[T any] interface {
	Clone() T
}
