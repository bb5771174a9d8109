// Package template defines the renderer seam used to produce declaration
// documents. The gotemplate subpackage provides the pongo2 implementation.
package template
