// Package mapfield projects stored map records into display fragments and
// editable field trees, and reads submitted edit values back into records.
//
// The display path treats falsy sizes as unset and turns the "1" marker and
// controls sentinels into "true"/"false" tokens. The edit path only applies
// its defaults to values that were never stored.
package mapfield
