// Package netinfo finds the address other machines on the LAN can reach us at.
package netinfo

import (
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/jackpal/gateway"
	"github.com/mdp/qrterminal/v3"
)

// LocalIP returns the IPv4 address of the interface facing the default gateway.
func LocalIP() (net.IP, error) {
	ip, err := gateway.DiscoverInterface()
	if err != nil {
		return nil, fmt.Errorf("discover gateway interface: %w", err)
	}
	if ip == nil || ip.IsUnspecified() {
		return nil, fmt.Errorf("gateway interface has no usable address")
	}
	return ip, nil
}

// BaseURL returns publicURL when set, otherwise http://<lan ip>:<port>.
// Without a usable LAN address it falls back to loopback and reports why.
func BaseURL(publicURL string, port int) (string, error) {
	if publicURL != "" {
		return publicURL, nil
	}

	host := "127.0.0.1"
	ip, err := LocalIP()
	if err == nil {
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)), err
}

// PrintBanner writes the server URL and, if qr is set, a scannable QR code of it.
func PrintBanner(w io.Writer, url string, qr bool) {
	fmt.Fprintf(w, "Server running at %s\n", url)
	if !qr {
		return
	}

	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      1,
	})
}
