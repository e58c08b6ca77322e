// Package pongo implements template.TemplateRenderer on top of pongo2 with
// templates loaded from disk or an fs.FS.
package pongo
