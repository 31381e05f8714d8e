// Package fixture discovers JSON conformance fixtures and derives the
// verdict each one is expected to produce.
//
// # Naming Convention
//
// A fixture's expected verdict comes from its file name alone, never its
// content:
//
//	pass1.json   -> PASS
//	fail12.json  -> FAIL
//	n_number.json -> FAIL
//
// Only the literal, case-sensitive prefix "pass" means PASS. Every other
// name is expected to be rejected by the subject program.
package fixture
