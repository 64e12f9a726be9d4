// Package geodossier resolves a free-text location to a jurisdiction-checked
// point, harvests open-source references about it, correlates the query
// against a semantic vector index, and compiles the findings into a dossier.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., nominatim/, goquery/, fpdf/).
package geodossier
