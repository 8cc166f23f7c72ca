// Package card defines the in-memory model card record and its conversions to
// the proto form (package cardpb) and to JSON.
//
// Every section is optional. A nil section pointer is absent, a nil slice is an
// absent collection and a non-nil empty slice is a collection that is present
// but empty. Scalars use Opt so that "never set" and "set to the empty string"
// stay distinct through every conversion:
//
//	c := card.New()
//	c.EnsureModelDetails().Name.Set("cats_vs_dogs")
//	raw, _ := c.ToJSON() // {"model_details":{"name":"cats_vs_dogs"}}
//
// Records have a single writer. Concurrent reads of a record nobody mutates
// are safe.
package card
