package bot

import (
	"context"
	"fmt"
	"strconv"

	"bookie/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const recentTransactionCount = 5

// handleWalletCommand handles the /wallet slash command
func (b *Bot) handleWalletCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command usage")
		return
	}

	switch options[0].Name {
	case "info":
		b.handleWalletInfo(s, i)
	case "send":
		b.handleWalletSend(s, i)
	case "mint":
		b.handleWalletMint(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handleWalletInfo handles the /wallet info subcommand
func (b *Bot) handleWalletInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid user ID")
		return
	}

	ctx := context.Background()

	balance, err := b.walletService.Balance(ctx, userID)
	if err != nil {
		log.Errorf("Failed to get balance for user %d: %v", userID, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	transactions, err := b.walletService.RecentTransactions(ctx, userID, recentTransactionCount)
	if err != nil {
		log.Errorf("Failed to get transactions for user %d: %v", userID, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	displayName := GetDisplayName(s, i.GuildID, i.Member.User.ID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{buildWalletEmbed(displayName, balance, transactions)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to wallet info: %v", err)
	}
}

// handleWalletSend handles the /wallet send subcommand
func (b *Bot) handleWalletSend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) < 2 {
		b.respondWithError(s, i, "Please specify a user and amount")
		return
	}

	targetUser := options[0].UserValue(s)
	amount := models.ToCents(options[1].FloatValue())

	if targetUser == nil {
		b.respondWithError(s, i, "Invalid user specified")
		return
	}
	if targetUser.Bot {
		b.respondWithError(s, i, "Bots have no use for FITs.")
		return
	}
	if amount <= 0 {
		b.respondWithError(s, i, "Amount must be positive")
		return
	}

	senderID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid user ID")
		return
	}

	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid target user ID")
		return
	}

	if senderID == targetID {
		b.respondWithError(s, i, "You can't send FITs to yourself.")
		return
	}

	result, err := b.walletService.Transfer(context.Background(), senderID, targetID, amount)
	if err != nil {
		log.Errorf("Failed to transfer %d cents from %d to %d: %v", amount, senderID, targetID, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	recipientName := GetDisplayName(s, i.GuildID, targetUser.ID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("✅ Sent **%s FITs** to **%s**. Your balance: **%s FITs**",
				FormatFIT(result.Amount), recipientName, FormatFIT(result.SenderBalance)),
		},
	})
	if err != nil {
		log.Printf("Error responding to wallet send: %v", err)
	}
}

// handleWalletMint handles the /wallet mint subcommand
func (b *Bot) handleWalletMint(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isStaff(i) {
		b.respondWithError(s, i, "You need the staff role to mint FITs.")
		return
	}

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) < 2 {
		b.respondWithError(s, i, "Please specify a user and amount")
		return
	}

	targetUser := options[0].UserValue(s)
	amount := models.ToCents(options[1].FloatValue())

	if targetUser == nil {
		b.respondWithError(s, i, "Invalid user specified")
		return
	}
	if amount <= 0 {
		b.respondWithError(s, i, "Amount must be positive")
		return
	}

	minterID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid user ID")
		return
	}

	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid target user ID")
		return
	}

	txn, err := b.walletService.Mint(context.Background(), minterID, targetID, amount)
	if err != nil {
		log.Errorf("Failed to mint %d cents for user %d: %v", amount, targetID, err)
		b.respondWithError(s, i, userMessage(err))
		return
	}

	recipientName := GetDisplayName(s, i.GuildID, targetUser.ID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🪙 Minted **%s FITs** for **%s**. Their balance: **%s FITs**",
				FormatFIT(txn.Amount), recipientName, FormatFIT(txn.BalanceAfter)),
		},
	})
	if err != nil {
		log.Printf("Error responding to wallet mint: %v", err)
	}
}
