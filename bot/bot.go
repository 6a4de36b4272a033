package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"huskerbot-go/config"
	"huskerbot-go/logging"
	"huskerbot-go/services"
)

// Bot wraps the Discord session and routes interactions to the pick'em service.
type Bot struct {
	session  *discordgo.Session
	config   *config.Config
	pickem   *services.PickemService
	commands []*discordgo.ApplicationCommand
	logger   *logging.Logger
}

// New creates the bot and wires its handlers. The session is not opened yet.
// The pick'em service may be nil at construction time and injected later with
// SetPickemService, since the service itself needs this bot's channel surface.
func New(cfg *config.Config, pickem *services.PickemService) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	b := &Bot{
		session: session,
		config:  cfg,
		pickem:  pickem,
		logger:  logging.WithPrefix("bot"),
	}
	b.commands = b.slashCommands()

	session.AddHandler(b.interactionCreate)

	return b, nil
}

// SetPickemService injects the orchestrator. Must be called before Start.
func (b *Bot) SetPickemService(pickem *services.PickemService) {
	b.pickem = pickem
}

// Start opens the gateway connection and registers slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	for _, cmd := range b.commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.Discord.GuildID, cmd); err != nil {
			b.logger.Errorf("Cannot register command %q: %v", cmd.Name, err)
		}
	}

	b.logger.Info("Discord bot is running")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		b.logger.Errorf("Error closing Discord session: %v", err)
	}
}

// Surface returns the pick'em channel surface backed by this session.
func (b *Bot) Surface() *ChannelSurface {
	return NewChannelSurface(b.session, b.config.Discord.GuildID, b.config.Discord.PickemChannelID)
}

func (b *Bot) slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "nfl-pickem",
			Description: "NFL pick'em utilities",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show your picks for a week",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "week",
							Description: "Week number (defaults to the current week)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show the season leaderboard",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reload",
					Description: "Re-run the weekly pick'em cycle now",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "week",
							Description: "Week number (defaults to the current week)",
							Required:    false,
						},
					},
				},
			},
		},
	}
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

// interactionUserID returns the invoking user's id for both guild and DM
// interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
