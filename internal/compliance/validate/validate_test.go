package validate

import (
	"testing"

	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleNumber(t *testing.T) {
	got, err := VehicleNumber("kl 01 ab 1234")
	require.NoError(t, err)
	assert.Equal(t, "KL01AB1234", got)

	got, err = VehicleNumber("KL-01-AB-1234")
	require.NoError(t, err)
	assert.Equal(t, "KL01AB1234", got)

	// Single series letter and short number are legal.
	_, err = VehicleNumber("DL1C123")
	assert.NoError(t, err)

	// Optional field: empty is fine.
	got, err = VehicleNumber("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = VehicleNumber("KL014")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidVehicleFormat)

	_, err = VehicleNumber("1234KL")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidVehicleFormat)
}

func TestGSTIN(t *testing.T) {
	got, err := GSTIN(" 32abcde1234f1z5 ")
	require.NoError(t, err)
	assert.Equal(t, "32ABCDE1234F1Z5", got)

	_, err = GSTIN("")
	assert.NoError(t, err)

	// 14 characters: the length failure must win over the pattern failure.
	_, err = GSTIN("32ABCDE1234F1Z")
	require.ErrorIs(t, err, compliancedomain.ErrInvalidRegistrationFormat)
	assert.Contains(t, err.Error(), "15 characters")

	// Right length, wrong shape.
	_, err = GSTIN("ABCDE12345FGHIJ")
	require.ErrorIs(t, err, compliancedomain.ErrInvalidRegistrationFormat)
	assert.NotContains(t, err.Error(), "15 characters")

	// 14th character must be the literal Z.
	_, err = GSTIN("32ABCDE1234F1X5")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidRegistrationFormat)

	// 25 was never assigned as a state code.
	_, err = GSTIN("25ABCDE1234F1Z5")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidRegistrationFormat)
}

func TestHSNCode(t *testing.T) {
	for _, ok := range []string{"", "8517", "851712", "85171290"} {
		_, err := HSNCode(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"85", "85171", "8517129012", "85A7"} {
		_, err := HSNCode(bad)
		assert.ErrorIs(t, err, compliancedomain.ErrInvalidHSNCode, bad)
	}
}

func TestEwayBillNumber(t *testing.T) {
	got, err := EwayBillNumber("123456789012")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", got)

	_, err = EwayBillNumber("")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidEwayBillNumber)

	_, err = EwayBillNumber("12345678901")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidEwayBillNumber)

	_, err = EwayBillNumber("12345678901A")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidEwayBillNumber)
}

func TestStateCode(t *testing.T) {
	got, err := StateCode("32")
	require.NoError(t, err)
	assert.Equal(t, "32", got)

	got, err = StateCode("7")
	require.NoError(t, err)
	assert.Equal(t, "07", got)

	_, err = StateCode("25")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidStateCode)

	_, err = StateCode("99")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidStateCode)
}

func TestPINCode(t *testing.T) {
	_, err := PINCode("682001")
	assert.NoError(t, err)

	_, err = PINCode("")
	assert.NoError(t, err)

	_, err = PINCode("082001")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidPINCode)

	_, err = PINCode("68200")
	assert.ErrorIs(t, err, compliancedomain.ErrInvalidPINCode)
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "Kerala", StateName("32"))
	assert.Equal(t, "Delhi", StateName("7"))
	assert.Equal(t, "", StateName("99"))
}
