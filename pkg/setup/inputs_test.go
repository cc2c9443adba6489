package setup

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputsNormalize(t *testing.T) {
	in := Inputs{Team: "  Alpha ", HostIP: " 10.0.0.5\t", Domain: " example.com "}.Normalize()
	assert.Equal(t, Inputs{Team: "alpha", HostIP: "10.0.0.5", Domain: "example.com"}, in)
}

func TestInputsValidate(t *testing.T) {
	assert.Error(t, Inputs{Team: "alpha"}.Validate())
	assert.NoError(t, Inputs{Domain: "example.com"}.Validate())
}

func TestTeamTitle(t *testing.T) {
	assert.Equal(t, "Alpha", Inputs{Team: "alpha"}.TeamTitle())
	assert.Equal(t, "", Inputs{}.TeamTitle())
}

func TestSanitizeTeam(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"node01", "node01"},
		{"Node_01.lan", "node-01"},
		{"  GPU Box ", "gpu-box"},
		{"_edge_", "edge"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTeam(tt.in))
		})
	}
}

func TestDetectDefaults(t *testing.T) {
	d := Detector{
		Hostname: func() (string, error) { return "Ultra_Node.local", nil },
		InterfaceAddrs: func() ([]net.Addr, error) {
			return []net.Addr{
				&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
				&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
				&net.IPNet{IP: net.ParseIP("192.168.1.20"), Mask: net.CIDRMask(24, 32)},
			}, nil
		},
	}
	got := d.DetectDefaults()
	assert.Equal(t, "ultra-node", got.Team)
	assert.Equal(t, "192.168.1.20", got.HostIP)
}

func TestDetectDefaultsFallback(t *testing.T) {
	d := Detector{
		Hostname:       func() (string, error) { return "", errors.New("no hostname") },
		InterfaceAddrs: func() ([]net.Addr, error) { return nil, errors.New("no interfaces") },
	}
	got := d.DetectDefaults()
	assert.Equal(t, "", got.Team)
	assert.Equal(t, FallbackHostIP, got.HostIP)
}
