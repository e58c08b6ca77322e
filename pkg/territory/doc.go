// Package territory builds the cascading country/subdivision/postal-code field
// tree for a zone territory element.
//
// A build is an ordered pipeline of stages over an immutable state value:
// resolve the country, emit the country select, walk the country's subdivision
// levels, attach the postal code filters, then clear stale subdivision values
// when the country select triggered the rebuild. Refresh reruns the pipeline
// from the submitted partial state and returns the fragment the triggering
// field is bound to.
package territory
