// Package domain models a curated dataset of geospatial incident cases.
//
// # Data Source
//
// Cases live in a single UTF-8 CSV maintained by hand (or by an
// upstream curation process). The header row must carry exactly the
// fourteen columns in [RequiredColumns], matched case- and
// whitespace-insensitively. Each subsequent row is one case.
//
// # Field Conventions
//
// Coordinates:
//
//	latitude and longitude are decimal degrees (WGS-84). Values are
//	expected within [-90,90] and [-180,180] but are not enforced on
//	load: a row with missing, unparsable, or out-of-range coordinates
//	is kept in the dataset, flagged by [QualityIssues], and skipped
//	only by the map projection ([MapRows]).
//
// Dates:
//
//	start_date and last_verified accept ISO-like strings ("2024-01-01",
//	"2024/01/01", "Jan 1, 2024", ...), parsed permissively and
//	truncated to day precision in UTC. An unparsable date becomes
//	absent, not an error; absent start dates never match a year-range
//	filter and are ignored by [YearBounds].
//
// Status:
//
//	Free text. The informally recognized values "ongoing",
//	"escalating", and "at-risk" drive marker colors (see
//	[StatusColor]); any other value is legal and maps to the neutral
//	default color.
//
// Sources:
//
//	A semicolon-delimited list of URLs. An empty sources field is a
//	data-quality flag, never grounds for exclusion.
//
// Duplicate ids are tolerated; both rows load and both render.
//
// # Pipeline Shape
//
// Every stage is a pure function producing a new derived value:
// [Normalize] (total, row-count preserving) -> [QualityIssues]
// (diagnostic fold) -> [Filter] (conjunctive subset) -> the
// presentation derivations ([StatusColor], [Tooltip], [MapRows],
// [TableRows], [SourceLinks]). Only [MapRows] ever drops rows, and
// only for the map path.
package domain
