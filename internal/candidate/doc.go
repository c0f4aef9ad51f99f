// Package candidate models the output of a phantom-inventory analysis run.
//
// A Set is the immutable collection of flagged items produced by the external
// scoring service. The verification workflow never mutates candidates; it only
// reads stock, cost, and risk attributes while tracking physical counts
// elsewhere. A new analysis run supersedes the previous Set wholesale.
package candidate
