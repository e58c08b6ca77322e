// Package territory provides net/http endpoints that return JSON options for
// territory selects: the country list and the subdivisions below a parent
// chain.
//
// Handlers respond to GET and HEAD, accept search and limit parameters, and
// read from injected address repositories, falling back to the embedded
// dataset of pkg/address/memory.
package territory
