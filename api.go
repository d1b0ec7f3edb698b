// Package veil obfuscates integer identifiers at API boundaries.
//
// Entities keep integer primary keys internally. At the boundary, outbound
// identifiers are encoded into reversible, salted, prefixed tokens and
// inbound tokens are decoded back into integers before business logic runs.
//
// # Domains
//
// Every token belongs to a Domain, which contributes a short prefix:
//
//	Student  student  STD
//	Teacher  teacher  TCH
//	Staff    staff    STF
//
// A token minted for one domain is rejected by every other domain.
//
// # Tokens
//
// Tokens have the form {prefix}-{body}, where body is a Hashids encoding of
// the integer under the configured salt, minimum length and alphabet:
//
//	obf, _ := veil.NewObfuscator(veil.Config{Salt: "s3cret", MinLength: 8})
//	tok, _ := obf.Encode(123, veil.Student) // "STD-..."
//	id, _ := obf.Decode(tok, veil.Student)  // 123
//
// # Direction Heuristic
//
// Apply picks the direction from the value itself: numeric-looking text is
// encoded, anything else is decoded. A token whose body happens to be all
// digits is therefore encoded again; this is a known ambiguity.
//
// # Tag Syntax
//
// Fields are marked with a single struct tag naming their domain. Types opt
// into graph walking by implementing Composite:
//
//	type StudentDTO struct {
//	    ID        string `json:"id" hashid:"student"`
//	    AdvisorID string `json:"advisorId" hashid:"teacher"`
//	    Name      string `json:"name"`
//	}
//
//	func (StudentDTO) VeilComposite() {}
//
// Unmarked fields of a composite are walked when they hold another composite
// or a sequence. Types that are neither are left untouched.
//
// # Boundary
//
// An Interceptor wraps a handler with an explicit parameter list:
//
//	ic := veil.NewInterceptor(obf)
//	get := ic.Wrap("getStudent", func(ctx context.Context, args []any) (any, error) {
//	    return svc.Get(ctx, args[0].(string))
//	}, veil.Param(0, veil.Student))
//
// Marked parameters are decoded before the call and the result is walked and
// encoded after it. Unmarked arguments that can hold composites are walked
// too; Prepared excludes an argument that was already decoded.
//
// # Bodies
//
// A Processor pairs a Codec with the walk for one type. Receive unmarshals a
// request body and decodes its tokens; Send encodes a clone of a value and
// marshals it. Use caches processors per type, codec and obfuscator.
//
// # Override Interface
//
// Types can bypass reflection by implementing Veiler and applying the codec
// to their own fields.
//
// # Codec Providers
//
// Body codecs are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package veil
