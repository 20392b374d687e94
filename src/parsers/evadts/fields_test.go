package evadts

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyFieldDividesMinorUnits(t *testing.T) {
	for _, n := range []int64{0, 1, 5, 99, 100, 2700, 123456, -250, 9007199254740} {
		seg := tokenize("XX*" + strconv.FormatInt(n, 10))
		got := currencyField(&seg, 0)
		require.NotNil(t, got, "value %d", n)
		assert.Equal(t, float64(n)/100.0, *got, "value %d", n)
	}
}

func TestFieldDecodersReturnNilOnBadInput(t *testing.T) {
	seg := tokenize("XX*12a**  *7")

	assert.Nil(t, intField(&seg, 0))
	assert.Nil(t, currencyField(&seg, 0))
	assert.Nil(t, stringField(&seg, 1))
	assert.Nil(t, stringField(&seg, 2), "whitespace-only field is blank")
	assert.Nil(t, intField(&seg, 10), "out of range")
	assert.Nil(t, currencyField(nil, 0), "missing segment")

	require.NotNil(t, intField(&seg, 3))
	assert.Equal(t, 7, *intField(&seg, 3))
}

func TestCurrencyFieldRejectsDecimals(t *testing.T) {
	seg := tokenize("XX*12.50")
	assert.Nil(t, currencyField(&seg, 0))
}

func TestTokenize(t *testing.T) {
	seg := tokenize("PA1*10*150*Cola")
	assert.Equal(t, "PA1", seg.tag)
	assert.Equal(t, []string{"10", "150", "Cola"}, seg.fields)

	bare := tokenize("SE")
	assert.Equal(t, "SE", bare.tag)
	assert.Empty(t, bare.fields)
	assert.Equal(t, "", bare.field(0))
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("DXS*A\r\n\r\n  \nST*001\nSE*3\r\n")
	assert.Equal(t, []string{"DXS*A", "ST*001", "SE*3"}, lines)
	assert.Empty(t, splitLines(""))
	assert.Empty(t, splitLines("\r\n \n\t\n"))
}
