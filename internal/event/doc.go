// Package event defines the canonical event record shared by every stage of
// the pipeline.
//
// A record is identified by its (lowercased trimmed title, venue) pair, so
// the same exhibition rediscovered with a corrected date maps back onto its
// existing entry. Sector, exhibitors and the free-entry flag are curated
// fields: once set on a persisted record they survive re-discovery.
package event
