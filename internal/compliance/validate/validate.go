// Package validate holds pure format checkers for the regulatory identifiers
// that invoices and e-Way bills carry. Empty input is valid everywhere a
// field is optional; validators never look anything up.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
)

var (
	// State code, district code, series letters, running number.
	// e.g. KL01AB1234 after normalization.
	vehicleNumberPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{1,3}[0-9]{1,4}$`)

	// 2-digit state code, 10-char PAN, entity number, Z, check character.
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][A-Z0-9]Z[A-Z0-9]$`)

	hsnPattern  = regexp.MustCompile(`^[0-9]+$`)
	ewayPattern = regexp.MustCompile(`^[0-9]{12}$`)
)

const gstinLength = 15

// Indian GST state codes. 25 was never assigned.
var stateCodes = map[string]string{
	"01": "Jammu & Kashmir", "02": "Himachal Pradesh", "03": "Punjab",
	"04": "Chandigarh", "05": "Uttarakhand", "06": "Haryana", "07": "Delhi",
	"08": "Rajasthan", "09": "Uttar Pradesh", "10": "Bihar", "11": "Sikkim",
	"12": "Arunachal Pradesh", "13": "Nagaland", "14": "Manipur",
	"15": "Mizoram", "16": "Tripura", "17": "Meghalaya", "18": "Assam",
	"19": "West Bengal", "20": "Jharkhand", "21": "Odisha",
	"22": "Chhattisgarh", "23": "Madhya Pradesh", "24": "Gujarat",
	"26": "Dadra & Nagar Haveli and Daman & Diu", "27": "Maharashtra",
	"28": "Andhra Pradesh (Old)", "29": "Karnataka", "30": "Goa",
	"31": "Lakshadweep", "32": "Kerala", "33": "Tamil Nadu",
	"34": "Puducherry", "35": "Andaman & Nicobar Islands", "36": "Telangana",
	"37": "Andhra Pradesh", "38": "Ladakh",
}

// VehicleNumber normalizes and validates an Indian vehicle registration
// number. Returns the normalized value.
func VehicleNumber(raw string) (string, error) {
	normalized := strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw)))
	if normalized == "" {
		return "", nil
	}
	if !vehicleNumberPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: expected format like KL-01-AB-1234", compliancedomain.ErrInvalidVehicleFormat)
	}
	return normalized, nil
}

// GSTIN normalizes and validates a 15-character GST registration number.
// Length is checked before the pattern so callers get the more specific
// message.
func GSTIN(raw string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", nil
	}
	if len(normalized) != gstinLength {
		return "", fmt.Errorf("%w: must be %d characters", compliancedomain.ErrInvalidRegistrationFormat, gstinLength)
	}
	if !gstinPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: malformed registration number", compliancedomain.ErrInvalidRegistrationFormat)
	}
	if _, ok := stateCodes[normalized[:2]]; !ok {
		return "", fmt.Errorf("%w: unknown state code %s", compliancedomain.ErrInvalidRegistrationFormat, normalized[:2])
	}
	return normalized, nil
}

// HSNCode validates a 4, 6 or 8 digit HSN/SAC classification code.
func HSNCode(raw string) (string, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return "", nil
	}
	if !hsnPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: must contain only digits", compliancedomain.ErrInvalidHSNCode)
	}
	switch len(normalized) {
	case 4, 6, 8:
		return normalized, nil
	}
	return "", fmt.Errorf("%w: must be 4, 6 or 8 digits", compliancedomain.ErrInvalidHSNCode)
}

// EwayBillNumber validates the 12-digit number issued by the portal.
func EwayBillNumber(raw string) (string, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return "", fmt.Errorf("%w: required", compliancedomain.ErrInvalidEwayBillNumber)
	}
	if !ewayPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: must be exactly 12 digits", compliancedomain.ErrInvalidEwayBillNumber)
	}
	return normalized, nil
}

// StateCode validates a 2-digit Indian GST state code.
func StateCode(raw string) (string, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return "", nil
	}
	if len(normalized) == 1 {
		normalized = "0" + normalized
	}
	if _, ok := stateCodes[normalized]; !ok {
		return "", fmt.Errorf("%w: %s", compliancedomain.ErrInvalidStateCode, normalized)
	}
	return normalized, nil
}

// PINCode validates a 6-digit Indian postal code.
func PINCode(raw string) (string, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return "", nil
	}
	if len(normalized) != 6 || !hsnPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: must be exactly 6 digits", compliancedomain.ErrInvalidPINCode)
	}
	if normalized[0] == '0' {
		return "", fmt.Errorf("%w: cannot start with 0", compliancedomain.ErrInvalidPINCode)
	}
	return normalized, nil
}

// StateCodes returns a copy of the code to name table.
func StateCodes() map[string]string {
	out := make(map[string]string, len(stateCodes))
	for code, name := range stateCodes {
		out[code] = name
	}
	return out
}

// StateName resolves a state code to its name, or "" when unknown.
func StateName(code string) string {
	if len(code) == 1 {
		code = "0" + code
	}
	return stateCodes[code]
}
