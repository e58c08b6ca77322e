// Package render turns territory fragments and map field output into HTML or
// JSON. HTML goes through pongo2 templates embedded in the package; a go-theme
// selection can override template names and contributes CSS variables.
package render
