// Package domain holds the types shared by every layer: documents and their
// fingerprints, search results and the tier that produced them, hint
// listings, configuration and sentinel errors.
//
// It imports nothing outside the standard library.
package domain
