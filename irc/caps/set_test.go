// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package caps

import "testing"

func TestSets(t *testing.T) {
	s1 := NewSet()

	s1.Enable(Kln, Unkln)

	if !s1.Has(Kln, Unkln) {
		t.Error("Did not have the capabilities we expected")
	}

	s1.Disable(Kln)

	if s1.Has(Kln) {
		t.Error("Disable() did not correctly disable the given capability")
	}
	if !s1.Has(Unkln) {
		t.Error("Disable() removed an unrelated capability")
	}

	// make sure re-enabling doesn't add to the count or something weird like that
	s1.Enable(Unkln)

	if s1.Count() != 1 {
		t.Error("Count() did not match expected capability count")
	}

	if NewSet(Kln, Unkln).String() != "KLN UNKLN" {
		t.Error("String() did not render the advertised token list")
	}
}
