package ai

import (
	"regexp"
	"strconv"
	"strings"
)

// The model embeds machine-readable control tokens in its free-text replies:
// [PRICE: 500] fixes the amount for the running purchase, [ACTION: NAME]
// tells the UI which widget to render next. The model never gets to invent
// actions; anything outside the known set is ignored.

type Action string

const (
	ActionRequireLogin         Action = "REQUIRE_LOGIN"
	ActionAskGameDetails       Action = "ASK_GAME_DETAILS"
	ActionShowPaymentMethods   Action = "SHOW_PAYMENT_METHODS"
	ActionShowScreenshotUpload Action = "SHOW_SCREENSHOT_UPLOAD"
	ActionShowOrderButton      Action = "SHOW_ORDER_BUTTON"
)

var knownActions = map[Action]bool{
	ActionRequireLogin:         true,
	ActionAskGameDetails:       true,
	ActionShowPaymentMethods:   true,
	ActionShowScreenshotUpload: true,
	ActionShowOrderButton:      true,
}

var (
	priceRe  = regexp.MustCompile(`(?i)\[PRICE:\s*(\d+)\]`)
	actionRe = regexp.MustCompile(`\[ACTION:\s*([A-Z_]+)\]`)
)

func ExtractPrice(reply string) (int, bool) {
	m := priceRe.FindStringSubmatch(reply)
	if m == nil {
		return 0, false
	}
	price, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return price, true
}

func ExtractAction(reply string) (Action, bool) {
	m := actionRe.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}
	a := Action(m[1])
	if !knownActions[a] {
		return "", false
	}
	return a, true
}

// StripTokens removes every control token so the text can be shown verbatim.
func StripTokens(reply string) string {
	reply = priceRe.ReplaceAllString(reply, "")
	reply = actionRe.ReplaceAllString(reply, "")
	return strings.TrimSpace(reply)
}
