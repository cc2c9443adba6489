// Package setup generates the secrets and configuration artifacts for an
// ultra-node deployment from a handful of operator inputs.
package setup

import (
	"fmt"
	"net"
	"os"
	"strings"
	"unicode"
)

// FallbackHostIP is offered when no non-loopback IPv4 address is found.
const FallbackHostIP = "127.0.0.1"

// Inputs are the operator-supplied values every artifact is derived from.
type Inputs struct {
	Team   string `json:"team"`
	HostIP string `json:"host_ip"`
	Domain string `json:"domain"`
}

// Normalize trims every field and lowercases the team identifier.
func (in Inputs) Normalize() Inputs {
	return Inputs{
		Team:   strings.ToLower(strings.TrimSpace(in.Team)),
		HostIP: strings.TrimSpace(in.HostIP),
		Domain: strings.TrimSpace(in.Domain),
	}
}

// Validate enforces the one hard requirement: a root domain.
func (in Inputs) Validate() error {
	if in.Domain == "" {
		return fmt.Errorf("root domain is required")
	}
	return nil
}

// TeamTitle is the team identifier with its first letter upper-cased.
func (in Inputs) TeamTitle() string {
	if in.Team == "" {
		return ""
	}
	r := []rune(in.Team)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Detector looks up host facts for the zero-touch defaults.
type Detector struct {
	Hostname       func() (string, error)
	InterfaceAddrs func() ([]net.Addr, error)
}

// SystemDetector reads the real host.
func SystemDetector() Detector {
	return Detector{Hostname: os.Hostname, InterfaceAddrs: net.InterfaceAddrs}
}

// DetectDefaults derives a team identifier from the host name and picks the
// first non-loopback IPv4 address.
func (d Detector) DetectDefaults() Inputs {
	var defaults Inputs
	if d.Hostname != nil {
		if name, err := d.Hostname(); err == nil {
			defaults.Team = SanitizeTeam(name)
		}
	}
	defaults.HostIP = FallbackHostIP
	if d.InterfaceAddrs != nil {
		if addrs, err := d.InterfaceAddrs(); err == nil {
			if ip := firstIPv4(addrs); ip != "" {
				defaults.HostIP = ip
			}
		}
	}
	return defaults
}

// SanitizeTeam turns a host name into a team identifier: the first DNS
// label, lowercased, with anything outside [a-z0-9-] replaced by '-'.
func SanitizeTeam(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func firstIPv4(addrs []net.Addr) string {
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}
