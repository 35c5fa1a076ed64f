// Package pagesnap extracts content from a remote web page using one of two
// strategies: a static HTML download with DOM text extraction, or a headless
// browser render captured as a viewport screenshot.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, echo/).
package pagesnap
