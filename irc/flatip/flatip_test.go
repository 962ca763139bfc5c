package flatip

import (
	"net"
	"testing"
)

func easyParseFlat(ipstr string) (result IP) {
	nip := net.ParseIP(ipstr)
	if nip == nil {
		panic(ipstr)
	}
	return FromNetIP(nip)
}

func easyParseNet(nipstr string) (result IPNet) {
	result, err := ParseCIDR(nipstr)
	if err != nil {
		panic(err)
	}
	return
}

func TestBasic(t *testing.T) {
	ip := easyParseFlat("8.8.8.8")
	if ip.String() != "8.8.8.8" {
		t.Errorf("conversions don't work")
	}
	if !ip.IsIPv4() {
		t.Errorf("can't detect IPv4")
	}
	if easyParseFlat("2001:db8::1").IsIPv4() {
		t.Errorf("incorrectly detected IPv4")
	}
}

func TestContains(t *testing.T) {
	ipnet := easyParseNet("8.8.0.0/16")
	if !ipnet.Contains(easyParseFlat("8.8.8.8")) {
		t.Errorf("contains doesn't work")
	}
	if ipnet.Contains(easyParseFlat("8.9.0.1")) {
		t.Errorf("contains matched outside the network")
	}

	v6net := easyParseNet("2001:db8::/32")
	if !v6net.Contains(easyParseFlat("2001:db8:1234::1")) {
		t.Errorf("v6 contains doesn't work")
	}
	if v6net.Contains(easyParseFlat("2001:db9::1")) {
		t.Errorf("v6 contains matched outside the network")
	}
}

func TestNormalization(t *testing.T) {
	// masking at parse time makes equal CIDRs ==
	a := easyParseNet("8.8.8.8/16")
	b := easyParseNet("8.8.0.0/16")
	if a != b {
		t.Errorf("CIDRs don't normalize to comparable values")
	}
}

func TestParseToNormalizedNet(t *testing.T) {
	ipnet, err := ParseToNormalizedNet("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	if ipnet.HumanReadableString() != "10.0.0.0/24" {
		t.Errorf("got %s", ipnet.HumanReadableString())
	}

	ipnet, err = ParseToNormalizedNet("1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if ipnet.PrefixLen != 128 {
		t.Errorf("single address should get a full-length prefix")
	}
	if ipnet.HumanReadableString() != "1.2.3.4" {
		t.Errorf("got %s", ipnet.HumanReadableString())
	}

	_, err = ParseToNormalizedNet("*.example.com")
	if err == nil {
		t.Errorf("hostname parsed as an address")
	}
}
