package tablets

import (
	"encoding/base32"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
)

var testGuid = uuid.MustParse("3f2b6c1e-8a4d-4e7b-9c2a-5d1e0f7a6b3c")

func TestSecretIsBase32OfHexGuid(t *testing.T) {
	raw, err := base32.StdEncoding.DecodeString(Secret(testGuid))
	if err != nil {
		t.Fatalf("decode secret: %v", err)
	}
	if string(raw) != "3f2b6c1e8a4d4e7b9c2a5d1e0f7a6b3c" {
		t.Fatalf("unexpected secret bytes %q", raw)
	}
}

func TestVerifyCodeWindow(t *testing.T) {
	now := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	step := Period * time.Second

	for _, digits := range []otp.Digits{otp.DigitsSix, otp.DigitsEight} {
		current, err := Code(testGuid, now, digits)
		if err != nil {
			t.Fatalf("code: %v", err)
		}
		if len(current) != digits.Length() {
			t.Fatalf("expected %d digits, got %q", digits.Length(), current)
		}

		// codes from the current and adjacent steps are accepted
		for _, offset := range []time.Duration{-step, 0, step, step + 29*time.Second} {
			code, _ := Code(testGuid, now.Add(offset), digits)
			if !VerifyCode(testGuid, code, now, digits) {
				t.Fatalf("digits %d: code at offset %v rejected", digits, offset)
			}
		}

		// two steps away is outside the window
		for _, offset := range []time.Duration{-2 * step, 2 * step, 5 * step} {
			code, _ := Code(testGuid, now.Add(offset), digits)
			if code == current {
				continue
			}
			if VerifyCode(testGuid, code, now, digits) {
				t.Fatalf("digits %d: code at offset %v accepted", digits, offset)
			}
		}
	}
}

func TestVerifyCodeRejectsGarbage(t *testing.T) {
	now := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	for _, code := range []string{"", "12345", "abcdef", "1234567"} {
		if VerifyCode(testGuid, code, now, otp.DigitsSix) {
			t.Fatalf("code %q accepted", code)
		}
	}

	code, _ := Code(testGuid, now, otp.DigitsSix)
	other := uuid.MustParse("9d1f6c0a-2b3e-4f5a-8c7d-6e5f4a3b2c1d")
	otherCode, _ := Code(other, now, otp.DigitsSix)
	if code != otherCode && VerifyCode(other, code, now, otp.DigitsSix) {
		t.Fatal("code of another tablet accepted")
	}
}

func TestDigits(t *testing.T) {
	for _, n := range []int{6, 7, 8} {
		d, err := Digits(n)
		if err != nil || d.Length() != n {
			t.Fatalf("digits %d: %v %v", n, d, err)
		}
	}
	for _, n := range []int{0, 5, 9} {
		if _, err := Digits(n); err == nil {
			t.Fatalf("digits %d accepted", n)
		}
	}
}

func TestProvisioningURI(t *testing.T) {
	uri, err := ProvisioningURI(testGuid, "Tablet 7", "Hotels", otp.DigitsSix)
	if err != nil {
		t.Fatalf("uri: %v", err)
	}

	u, err := url.Parse(uri)
	if err != nil {
		t.Fatalf("parse uri: %v", err)
	}
	if u.Scheme != "otpauth" || u.Host != "totp" {
		t.Fatalf("unexpected uri %s", uri)
	}
	if u.Query().Get("issuer") != "Hotels" {
		t.Fatalf("unexpected issuer in %s", uri)
	}

	secret := strings.TrimRight(Secret(testGuid), "=")
	if u.Query().Get("secret") != secret {
		t.Fatalf("expected secret %s in %s", secret, uri)
	}
}
