// Package address defines the read-only address metadata the territory builder
// consumes: the ordered country list, per-country address formats and the
// subdivision hierarchy addressed by parent chains. Implementations live in
// the memory (embedded YAML), postgres (pgx) and valkeycache subpackages.
package address
