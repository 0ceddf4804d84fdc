package generator

import (
	"encoding/base64"
	"encoding/hex"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// stringByFormat maps a declared string format to a structurally valid value.
// The second return reports whether the format is recognized.
func stringByFormat(format string) (string, bool) {
	switch strings.ToLower(format) {
	case "email":
		return randomEmail(), true
	case "uri", "url":
		return "https://example.com/" + randomSlug(), true
	case "uuid":
		return uuid.NewString(), true
	case "date":
		return randomInstant().Format("2006-01-02"), true
	case "date-time":
		return randomInstant().Format(time.RFC3339), true
	case "password":
		return "P@ss" + randomWord() + "42!", true
	case "byte":
		return base64.StdEncoding.EncodeToString([]byte(randomWord())), true
	case "binary":
		return hex.EncodeToString([]byte(randomWord())), true
	case "hostname":
		return randomWord() + ".example.com", true
	case "ipv4":
		return randomOctet() + "." + randomOctet() + "." + randomOctet() + "." + randomOctet(), true
	case "ipv6":
		return "2001:db8:" + randomHex(4) + ":" + randomHex(4) + ":" +
			randomHex(4) + ":" + randomHex(4) + ":" + randomHex(4) + ":" + randomHex(4), true
	default:
		return "", false
	}
}

var words = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "theta", "omega", "sigma", "kappa"}

func randomWord() string {
	return words[rand.IntN(len(words))]
}

func randomSlug() string {
	n := 2 + rand.IntN(2)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = randomWord()
	}
	return strings.Join(parts, "-")
}

func randomEmail() string {
	domains := []string{"example.com", "example.org", "example.net"}
	return randomWord() + "." + randomDigits(2) + "@" + domains[rand.IntN(len(domains))]
}

func randomString(n int) string {
	if n <= 0 {
		return ""
	}
	const chars = "abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = chars[rand.IntN(len(chars))]
	}
	return string(buf)
}

func randomDigits(n int) string {
	const digits = "0123456789"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = digits[rand.IntN(len(digits))]
	}
	return string(buf)
}

func randomOctet() string {
	return strconv.Itoa(rand.IntN(256))
}

func randomHex(n int) string {
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = hexdigits[rand.IntN(len(hexdigits))]
	}
	return string(buf)
}
