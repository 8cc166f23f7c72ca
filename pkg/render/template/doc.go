// Package template defines the template engine contract used by the model
// card renderers. The pongo2-backed implementation lives in the gotemplate
// subpackage.
package template
