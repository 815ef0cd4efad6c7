package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bookie/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleBetCommand handles the /bet slash command
func (b *Bot) handleBetCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "place":
		b.handleBetPlace(s, i)
	case "cancel":
		b.handleBetCancel(s, i)
	case "list":
		b.handleBetList(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// parseOutcomeList parses a comma separated list of outcome numbers
func parseOutcomeList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]bool, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not an outcome number", part)
		}
		if seen[id] {
			return nil, fmt.Errorf("outcome %d is listed twice", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no outcome numbers given")
	}
	return ids, nil
}

// parseSplitList parses a comma separated list of FIT amounts into cents
func parseSplitList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	amounts := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fits, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a FIT amount", part)
		}
		cents := models.ToCents(fits)
		if cents <= 0 {
			return nil, fmt.Errorf("split amounts must be positive")
		}
		amounts = append(amounts, cents)
	}
	if len(amounts) == 0 {
		return nil, fmt.Errorf("no split amounts given")
	}
	return amounts, nil
}

// handleBetPlace handles the /bet place subcommand
func (b *Bot) handleBetPlace(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid user ID")
		return
	}

	var amountFITs float64
	var outcomesRaw, marketKey, splitRaw string
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "amount":
			amountFITs = opt.FloatValue()
		case "outcomes":
			outcomesRaw = opt.StringValue()
		case "market":
			marketKey = strings.TrimSpace(opt.StringValue())
		case "split":
			splitRaw = opt.StringValue()
		}
	}

	totalAmount := models.ToCents(amountFITs)
	if totalAmount <= 0 {
		b.respondWithError(s, i, "Amount must be positive")
		return
	}

	outcomeIDs, err := parseOutcomeList(outcomesRaw)
	if err != nil {
		b.respondWithError(s, i, fmt.Sprintf("Couldn't read your outcomes: %v", err))
		return
	}

	strategy := models.SplitEven
	var customAmounts []int64
	if splitRaw != "" {
		strategy = models.SplitCustom
		customAmounts, err = parseSplitList(splitRaw)
		if err != nil {
			b.respondWithError(s, i, fmt.Sprintf("Couldn't read your split: %v", err))
			return
		}
		if len(customAmounts) != len(outcomeIDs) {
			b.respondWithError(s, i, fmt.Sprintf("You picked %d outcomes but gave %d split amounts.",
				len(outcomeIDs), len(customAmounts)))
			return
		}
	}

	ctx := context.Background()

	// No market given means the promoted one
	if marketKey == "" {
		promoted, err := b.marketService.PromotedMarket(ctx)
		if err != nil {
			log.Errorf("Failed to get promoted market: %v", err)
			b.respondWithError(s, i, userMessage(err))
			return
		}
		if promoted == nil {
			b.respondWithError(s, i, "No market is promoted right now. Pass the market option or ask staff to promote one.")
			return
		}
		marketKey = promoted.MarketKey
	}

	result, err := b.bettingService.PlaceBet(ctx, &models.BetRequest{
		UserID:        userID,
		MarketKey:     marketKey,
		OutcomeIDs:    outcomeIDs,
		TotalAmount:   totalAmount,
		Strategy:      strategy,
		CustomAmounts: customAmounts,
	})
	if err != nil {
		log.Errorf("Failed to place bet for user %d on market %s: %v", userID, marketKey, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	market, err := b.marketService.GetMarket(ctx, marketKey)
	if err != nil || market == nil {
		// The placement went through; fall back to bare keys for the receipt
		market = &models.Market{MarketKey: marketKey, DisplayName: marketKey}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{buildBetReceiptEmbed(market, result)},
		},
	})
	if err != nil {
		log.Printf("Error responding to bet place: %v", err)
	}
}

// handleBetCancel handles the /bet cancel subcommand
func (b *Bot) handleBetCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please specify a bet ID")
		return
	}
	betID := options[0].IntValue()

	requesterID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid user ID")
		return
	}

	result, err := b.bettingService.CancelBet(context.Background(), betID, requesterID, b.isStaff(i))
	if err != nil {
		log.Errorf("Failed to cancel bet %d for user %d: %v", betID, requesterID, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("✅ Bet `#%d` cancelled. **%s FITs** refunded. Balance: **%s FITs**",
				result.Bet.ID, FormatFIT(result.Refunded), FormatFIT(result.NewBalance)),
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to bet cancel: %v", err)
	}
}

// handleBetList handles the /bet list subcommand
func (b *Bot) handleBetList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid user ID")
		return
	}

	ctx := context.Background()

	bets, err := b.bettingService.OpenBets(ctx, userID)
	if err != nil {
		log.Errorf("Failed to list open bets for user %d: %v", userID, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	// Load each staked market once for display names and outcome labels
	markets := make(map[string]*models.Market)
	for _, bet := range bets {
		if _, ok := markets[bet.MarketKey]; ok {
			continue
		}
		market, err := b.marketService.GetMarket(ctx, bet.MarketKey)
		if err != nil {
			log.Errorf("Failed to load market %s for bet list: %v", bet.MarketKey, err)
			continue
		}
		if market != nil {
			markets[bet.MarketKey] = market
		}
	}

	displayName := GetDisplayName(s, i.GuildID, i.Member.User.ID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{buildOpenBetsEmbed(displayName, bets, markets)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to bet list: %v", err)
	}
}
