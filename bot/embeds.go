package bot

import (
	"fmt"
	"strings"

	"bookie/events"
	"bookie/models"
	"bookie/toto"

	"github.com/bwmarrin/discordgo"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
)

const (
	maxMarketsDisplayed  = 10
	maxOutcomesDisplayed = 10
	maxBetsDisplayed     = 15
)

// reasonLabel maps a ledger reason to the word shown next to a transaction
func reasonLabel(reason models.TransactionReason) string {
	switch reason {
	case models.ReasonBonus:
		return "activity bonus"
	case models.ReasonTransfer:
		return "transfer"
	case models.ReasonBetDebit:
		return "bet stake"
	case models.ReasonBetRefund:
		return "bet refund"
	case models.ReasonBetPayout:
		return "bet payout"
	case models.ReasonAdminMint:
		return "mint"
	default:
		return string(reason)
	}
}

// buildWalletEmbed creates the wallet overview shown by /wallet info
func buildWalletEmbed(displayName string, balance int64, transactions []*models.Transaction) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("💰 %s's Wallet", displayName),
		Description: fmt.Sprintf("Balance: **%s FITs**", FormatFIT(balance)),
		Color:       ColorPrimary,
	}

	if len(transactions) == 0 {
		return embed
	}

	var lines []string
	for _, txn := range transactions {
		sign := ""
		if txn.Amount > 0 {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("• **%s%s FITs** %s %s",
			sign,
			FormatFIT(txn.Amount),
			reasonLabel(txn.Reason),
			FormatDiscordTimestamp(txn.CreatedAt, "R"),
		))
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "Recent Transactions",
			Value:  strings.Join(lines, "\n"),
			Inline: false,
		},
	}

	return embed
}

// buildMarketsEmbed creates the open market listing shown by /markets list.
// The promoted market sorts first and carries a pin.
func buildMarketsEmbed(markets []*models.Market) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏎️ Open Markets",
		Color: ColorPrimary,
	}

	if len(markets) == 0 {
		embed.Description = "No markets are open right now."
		return embed
	}

	shown := markets
	if len(shown) > maxMarketsDisplayed {
		shown = shown[:maxMarketsDisplayed]
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing %d of %d open markets", maxMarketsDisplayed, len(markets)),
		}
	}

	for _, market := range shown {
		name := market.DisplayName
		if market.SessionCode != "" {
			name = fmt.Sprintf("%s [%s]", name, market.SessionCode)
		}
		if market.Promoted {
			name = "📌 " + name
		}

		var lines []string
		if market.EventName != "" {
			lines = append(lines, fmt.Sprintf("*%s*", market.EventName))
		}
		lines = append(lines, fmt.Sprintf("`%s`", market.MarketKey))

		outcomes := market.Outcomes
		hidden := 0
		if len(outcomes) > maxOutcomesDisplayed {
			hidden = len(outcomes) - maxOutcomesDisplayed
			outcomes = outcomes[:maxOutcomesDisplayed]
		}
		for _, outcome := range outcomes {
			line := fmt.Sprintf("`%d` %s", outcome.OutcomeID, toto.FlipCommaName(outcome.Label))
			if outcome.Odds != nil {
				line = fmt.Sprintf("%s (%.2f)", line, *outcome.Odds)
			}
			lines = append(lines, line)
		}
		if hidden > 0 {
			lines = append(lines, fmt.Sprintf("…and %d more outcomes", hidden))
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  strings.Join(lines, "\n"),
			Inline: false,
		})
	}

	return embed
}

// buildBetReceiptEmbed creates the confirmation shown after a placement
func buildBetReceiptEmbed(market *models.Market, result *models.PlaceBetResult) *discordgo.MessageEmbed {
	var total int64
	var lines []string
	for _, bet := range result.Bets {
		total += bet.Amount
		label := fmt.Sprintf("outcome %d", bet.OutcomeID)
		if outcome := market.FindOutcome(bet.OutcomeID); outcome != nil {
			label = toto.FlipCommaName(outcome.Label)
		}
		lines = append(lines, fmt.Sprintf("`#%d` %s: **%s FITs**", bet.ID, label, FormatFIT(bet.Amount)))
	}

	return &discordgo.MessageEmbed{
		Title:       "🎟️ Bet Placed",
		Description: fmt.Sprintf("Staked **%s FITs** on **%s**", FormatFIT(total), market.DisplayName),
		Color:       ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Stakes",
				Value:  strings.Join(lines, "\n"),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Balance: %s FITs", FormatFIT(result.NewBalance)),
		},
	}
}

// buildOpenBetsEmbed creates the listing shown by /bet list. Markets are
// passed alongside so stakes can show outcome labels instead of raw IDs.
func buildOpenBetsEmbed(displayName string, bets []*models.Bet, markets map[string]*models.Market) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎟️ %s's Open Bets", displayName),
		Color: ColorPrimary,
	}

	if len(bets) == 0 {
		embed.Description = "You have no open bets."
		return embed
	}

	shown := bets
	if len(shown) > maxBetsDisplayed {
		shown = shown[:maxBetsDisplayed]
	}

	var total int64
	var lines []string
	for _, bet := range bets {
		total += bet.Amount
	}
	for _, bet := range shown {
		label := fmt.Sprintf("outcome %d", bet.OutcomeID)
		marketName := bet.MarketKey
		if market, ok := markets[bet.MarketKey]; ok {
			marketName = market.DisplayName
			if outcome := market.FindOutcome(bet.OutcomeID); outcome != nil {
				label = toto.FlipCommaName(outcome.Label)
			}
		}
		lines = append(lines, fmt.Sprintf("`#%d` **%s FITs** on %s (%s)",
			bet.ID, FormatFIT(bet.Amount), label, marketName))
	}
	if len(bets) > maxBetsDisplayed {
		lines = append(lines, fmt.Sprintf("…and %d more", len(bets)-maxBetsDisplayed))
	}

	embed.Description = strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%d open bets, %s FITs at stake", len(bets), FormatFIT(total)),
	}

	return embed
}

// buildSyncResultEmbed creates the summary shown after /markets sync
func buildSyncResultEmbed(result *models.ReconcileResult) *discordgo.MessageEmbed {
	lines := []string{
		fmt.Sprintf("Created: **%d**", result.MarketsCreated),
		fmt.Sprintf("Updated: **%d**", result.MarketsUpdated),
		fmt.Sprintf("Closed: **%d**", result.MarketsClosed),
	}
	if result.BetsRefunded > 0 {
		lines = append(lines, fmt.Sprintf("Refunded: **%d bets** (%s FITs)",
			result.BetsRefunded, FormatFIT(result.CentsRefunded)))
	}

	return &discordgo.MessageEmbed{
		Title:       "🔄 Feed Synchronized",
		Description: strings.Join(lines, "\n"),
		Color:       ColorPrimary,
	}
}

// buildMarketClosedEmbed creates the announcement posted when a market leaves
// the feed and finishes closing
func buildMarketClosedEmbed(closed events.MarketClosedEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🏁 Market Closed",
		Description: fmt.Sprintf("**%s** is no longer taking bets.", closed.DisplayName),
		Color:       ColorWarning,
	}

	if closed.BetsRefunded > 0 {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:   "Refunds",
				Value:  fmt.Sprintf("%d open bets refunded for **%s FITs**", closed.BetsRefunded, FormatFIT(closed.CentsRefunded)),
				Inline: false,
			},
		}
	}

	return embed
}
