package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookie/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// FormatFIT renders a cent amount as FITs with thousand separators.
// Whole amounts drop the fraction: 15000 -> "150", 1234556 -> "12,345.56".
func FormatFIT(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := cents / models.CentsPerFIT
	frac := cents % models.CentsPerFIT

	str := fmt.Sprintf("%d", whole)

	// Add commas for thousands
	n := len(str)
	var result strings.Builder
	if negative {
		result.WriteRune('-')
	}
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	if frac != 0 {
		fmt.Fprintf(&result, ".%02d", frac)
	}

	return result.String()
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// userMessage translates service errors into something worth showing a user.
// Unrecognized errors get a generic message; the details go to the log.
func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientFunds):
		return "You don't have enough FITs for that."
	case errors.Is(err, models.ErrSplitMismatch):
		return "Your split amounts don't add up to the total stake."
	case errors.Is(err, models.ErrMarketNotOpen):
		return "That market is not open for betting."
	case errors.Is(err, models.ErrMarketAlreadyClosing):
		return "That market just closed. Your bet is held for review and will be refunded shortly."
	case errors.Is(err, models.ErrUnknownOutcome):
		return "That outcome doesn't exist on this market. Check `/markets list` for the numbers."
	case errors.Is(err, models.ErrBetNotFound):
		return "No bet with that ID exists."
	case errors.Is(err, models.ErrNotBetOwner):
		return "That bet belongs to someone else."
	case errors.Is(err, models.ErrConcurrentStateConflict):
		return "Something changed while processing your request. Please try again."
	case errors.Is(err, models.ErrStorageUnavailable):
		return "The ledger is temporarily unavailable. Please try again in a moment."
	default:
		return "Something went wrong. Please try again."
	}
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending error response: %v", err)
	}
}

// followUpWithError sends an error message as a follow-up to a deferred interaction
func (b *Bot) followUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Printf("Error sending follow-up error message: %v", err)
	}
}
