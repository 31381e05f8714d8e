// Package canon provides RFC 8785 canonical JSON and domain-separated
// SHA-256 hashing.
//
// Run fingerprints are computed over canonical JSON so that two runs over
// unchanged fixtures and an unchanged subject program produce byte-identical
// input to the hash, regardless of map iteration order or Unicode
// normalisation of fixture names.
package canon
