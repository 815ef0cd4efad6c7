package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"bookie/toto"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleMarketsCommand handles the /markets slash command
func (b *Bot) handleMarketsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "list":
		b.handleMarketsList(s, i)
	case "promote":
		b.handleMarketsPromote(s, i)
	case "sync":
		b.handleMarketsSync(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handleMarketsList handles the /markets list subcommand
func (b *Bot) handleMarketsList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	markets, err := b.marketService.ListOpenMarkets(context.Background())
	if err != nil {
		log.Errorf("Failed to list open markets: %v", err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	// Promoted market first, the rest keep their listing order
	sort.SliceStable(markets, func(x, y int) bool {
		return markets[x].Promoted && !markets[y].Promoted
	})

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{buildMarketsEmbed(markets)},
		},
	})
	if err != nil {
		log.Printf("Error responding to markets list: %v", err)
	}
}

// handleMarketsPromote handles the /markets promote subcommand
func (b *Bot) handleMarketsPromote(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isStaff(i) {
		b.respondWithError(s, i, "You need the staff role to promote markets.")
		return
	}

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please specify a market key")
		return
	}
	marketKey := options[0].StringValue()

	ctx := context.Background()

	existing, err := b.marketService.GetMarket(ctx, marketKey)
	if err != nil {
		log.Errorf("Failed to look up market %s: %v", marketKey, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}
	if existing == nil {
		b.respondWithError(s, i, fmt.Sprintf("No market with key `%s` exists. Check `/markets list` for the keys.", marketKey))
		return
	}

	market, err := b.marketService.Promote(ctx, marketKey)
	if err != nil {
		log.Errorf("Failed to promote market %s: %v", marketKey, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("📌 **%s** is now the promoted market. Bets without a market option land here.", market.DisplayName),
		},
	})
	if err != nil {
		log.Printf("Error responding to markets promote: %v", err)
	}
}

// handleMarketsSync handles the /markets sync subcommand. The fetch can take
// a while, so the response is deferred.
func (b *Bot) handleMarketsSync(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isStaff(i) {
		b.respondWithError(s, i, "You need the staff role to sync markets.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error deferring markets sync: %v", err)
		return
	}

	result, err := b.syncWorker.RunOnce(context.Background())
	if err != nil {
		if errors.Is(err, toto.ErrFetchThrottled) {
			b.followUpWithError(s, i, "The feed was fetched recently. Try again in a few minutes.")
			return
		}
		log.Errorf("Manual market sync failed: %v", err)
		b.followUpWithError(s, i, "Sync failed. Check the logs for details.")
		return
	}

	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{buildSyncResultEmbed(result)},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Printf("Error sending sync follow-up: %v", err)
	}
}
