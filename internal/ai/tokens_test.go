package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrice(t *testing.T) {
	price, ok := ExtractPrice("Great choice! That will be Rs. 500. [PRICE: 500] [ACTION: SHOW_PAYMENT_METHODS]")
	assert.True(t, ok)
	assert.Equal(t, 500, price)

	_, ok = ExtractPrice("Which package would you like?")
	assert.False(t, ok)
}

func TestExtractPriceIsCaseInsensitive(t *testing.T) {
	price, ok := ExtractPrice("[price:250]")
	assert.True(t, ok)
	assert.Equal(t, 250, price)
}

func TestExtractActionIgnoresUnknownActions(t *testing.T) {
	action, ok := ExtractAction("Please log in first. [ACTION: REQUIRE_LOGIN]")
	assert.True(t, ok)
	assert.Equal(t, ActionRequireLogin, action)

	_, ok = ExtractAction("[ACTION: DELETE_EVERYTHING]")
	assert.False(t, ok)

	_, ok = ExtractAction("no tokens here")
	assert.False(t, ok)
}

func TestStripTokensLeavesCleanText(t *testing.T) {
	reply := "Your total is Rs. 960. [PRICE: 960]\nPlease pay now. [ACTION: SHOW_PAYMENT_METHODS]"
	stripped := StripTokens(reply)
	assert.Equal(t, "Your total is Rs. 960. \nPlease pay now.", stripped)
	assert.NotContains(t, stripped, "[PRICE")
	assert.NotContains(t, stripped, "[ACTION")
}
