package bot

import (
	"context"
	"fmt"
	"strconv"

	"bookie/events"
	"bookie/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	StaffRoleID      string
	BettingChannelID string
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	walletService  service.WalletService
	bettingService service.BettingService
	marketService  service.MarketService
	syncWorker     *service.SyncWorker
	eventBus       *events.Bus
}

func New(config Config, walletService service.WalletService, bettingService service.BettingService, marketService service.MarketService, syncWorker *service.SyncWorker, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:         config,
		session:        dg,
		walletService:  walletService,
		bettingService: bettingService,
		marketService:  marketService,
		syncWorker:     syncWorker,
		eventBus:       eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Every non-bot guild message is a chance at the activity reward
	dg.AddHandler(bot.handleMessageCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Announce closed markets in the betting channel
	if bot.config.BettingChannelID != "" {
		eventBus.Subscribe(events.EventTypeMarketClosed, func(ctx context.Context, event events.Event) {
			closed, ok := event.(events.MarketClosedEvent)
			if !ok {
				return
			}
			bot.announceMarketClosed(closed)
		})
		log.Info("Market close announcements enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "wallet":
		b.handleWalletCommand(s, i)
	case "bet":
		b.handleBetCommand(s, i)
	case "markets":
		b.handleMarketsCommand(s, i)
	}
}

// handleMessageCreate credits the chat activity reward. Bots and DMs never
// earn FITs.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return
	}

	if _, err := b.walletService.TryActivityReward(context.Background(), userID); err != nil {
		log.Errorf("Failed to award activity FIT to user %d: %v", userID, err)
	}
}

// isStaff reports whether the interaction comes from a member holding the
// configured staff role
func (b *Bot) isStaff(i *discordgo.InteractionCreate) bool {
	if b.config.StaffRoleID == "" || i.Member == nil {
		return false
	}
	for _, roleID := range i.Member.Roles {
		if roleID == b.config.StaffRoleID {
			return true
		}
	}
	return false
}

func (b *Bot) announceMarketClosed(closed events.MarketClosedEvent) {
	_, err := b.session.ChannelMessageSendEmbed(b.config.BettingChannelID, buildMarketClosedEmbed(closed))
	if err != nil {
		log.Errorf("Failed to announce closure of market %s: %v", closed.MarketKey, err)
	}
}
