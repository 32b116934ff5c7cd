package services

import (
	"fmt"

	"flight-price-bot/models"

	"github.com/shopspring/decimal"
)

// StartupMessage is sent once when the bot starts
const StartupMessage = "Bot started! Watching prices..."

func startingPriceMessage(r models.Route, price decimal.Decimal, symbol string) string {
	return fmt.Sprintf("Starting price %s: %s%s", r, price, symbol)
}

func priceDroppedMessage(r models.Route, old, price decimal.Decimal, symbol string) string {
	return fmt.Sprintf("Price dropped %s: %s%s → %s%s", r, old, symbol, price, symbol)
}

func chartCaption(r models.Route) string {
	return fmt.Sprintf("Price dynamics %s", r)
}
