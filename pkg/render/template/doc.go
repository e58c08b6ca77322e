// Package template defines the template engine seam the HTML renderer relies
// on. The pongo subpackage provides the default implementation.
package template
