package tablets

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Period is the TOTP time step in seconds
const Period = 30

// Skew is the number of adjacent time steps accepted on each side
const Skew = 1

// Secret returns the base32 TOTP secret of a tablet: the GUID hex digits
// (lowercase, no dashes) taken as raw bytes.
func Secret(guid uuid.UUID) string {
	return base32.StdEncoding.EncodeToString(secretBytes(guid))
}

func secretBytes(guid uuid.UUID) []byte {
	return []byte(hex.EncodeToString(guid[:]))
}

// Digits converts a configured code length, rejecting anything outside 6..8
func Digits(n int) (otp.Digits, error) {
	if n < 6 || n > 8 {
		return 0, fmt.Errorf("unsupported otp length %d", n)
	}
	return otp.Digits(n), nil
}

func validateOpts(digits otp.Digits) totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    Period,
		Skew:      Skew,
		Digits:    digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Code returns the one-time password of a tablet at t
func Code(guid uuid.UUID, t time.Time, digits otp.Digits) (string, error) {
	return totp.GenerateCodeCustom(Secret(guid), t, validateOpts(digits))
}

// VerifyCode checks code against the tablet secret at t, tolerating one
// time step of clock drift in either direction.
func VerifyCode(guid uuid.UUID, code string, t time.Time, digits otp.Digits) bool {
	ok, err := totp.ValidateCustom(code, Secret(guid), t, validateOpts(digits))
	if err != nil {
		return false
	}
	return ok
}

// ProvisioningURI returns the otpauth:// URI used to configure a tablet
// (usually shown as a QR code).
func ProvisioningURI(guid uuid.UUID, account string, issuer string, digits otp.Digits) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      Period,
		Digits:      digits,
		Algorithm:   otp.AlgorithmSHA1,
		Secret:      secretBytes(guid),
	})
	if err != nil {
		return "", err
	}
	return key.URL(), nil
}
