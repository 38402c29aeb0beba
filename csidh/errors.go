package csidh

import "errors"

// ErrConfig is the CONFIG_ERROR of spec.md §7: a parameter-set
// inconsistency detected by CheckWellDefined.
var ErrConfig = errors.New("csidh: parameter set is not well-defined")

// ErrSupersingularityFail is the SUPERSINGULARITY_FAIL of spec.md §7: the
// post-condition assertion after a successful isogeny step found the
// resulting curve singular or not supersingular. It is fatal and
// indicates a logic bug in the isogeny or oracle, not an expected
// runtime condition. It is only ever raised when Instance.Debug is set,
// since paying for the oracle after every one of the driver's isogeny
// steps is not something a production caller should have to opt out of
// individually (see SPEC_FULL.md §11).
var ErrSupersingularityFail = errors.New("csidh: post-isogeny curve failed the supersingularity assertion")

// ErrKeyLength is raised by PublicKeyFromBytes when the supplied byte
// string does not match the instance's canonical encoding length.
var ErrKeyLength = errors.New("csidh: public key byte string has the wrong length")
