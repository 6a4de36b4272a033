package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"huskerbot-go/logging"
	"huskerbot-go/services"
)

const embedColor = 0xD00000 // Husker scarlet

// pageSize is the Discord maximum for a single channel history request
const pageSize = 100

// readOnlyDeny is the permission set stripped from @everyone in the pick'em
// channel so the only way to interact is through the buttons.
const readOnlyDeny = discordgo.PermissionSendMessages |
	discordgo.PermissionCreatePublicThreads |
	discordgo.PermissionCreatePrivateThreads |
	discordgo.PermissionSendMessagesInThreads

// ChannelSurface is the Discord-backed pick'em channel.
type ChannelSurface struct {
	session   *discordgo.Session
	guildID   string
	channelID string
	loc       *time.Location
	logger    *logging.Logger
}

func NewChannelSurface(session *discordgo.Session, guildID, channelID string) *ChannelSurface {
	return &ChannelSurface{
		session:   session,
		guildID:   guildID,
		channelID: channelID,
		loc:       time.UTC,
		logger:    logging.WithPrefix("channel"),
	}
}

// SetLocation sets the timezone used when rendering kickoff times.
func (c *ChannelSurface) SetLocation(loc *time.Location) {
	c.loc = loc
}

// ClearChannel deletes every message in the pick'em channel, paging backwards
// through history. Messages are deleted one at a time because bulk deletion
// rejects messages older than two weeks and last week's prompts always are.
func (c *ChannelSurface) ClearChannel(ctx context.Context) error {
	deleted := 0
	beforeID := ""
	for {
		messages, err := c.session.ChannelMessages(c.channelID, pageSize, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to list channel messages: %w", err)
		}
		if len(messages) == 0 {
			break
		}

		for _, msg := range messages {
			if err := c.session.ChannelMessageDelete(c.channelID, msg.ID, discordgo.WithContext(ctx)); err != nil {
				// A stuck message must not leave last week's prompts pinned
				c.logger.Errorf("Failed to delete message %s: %v", msg.ID, err)
				continue
			}
			deleted++
		}
		beforeID = messages[len(messages)-1].ID
	}

	c.logger.Infof("Cleared %d messages from pick'em channel", deleted)
	return nil
}

// EnsureReadOnly denies send and thread permissions for @everyone in the
// channel. The overwrite is only written when the denial is not already in
// place, so repeated runs do not churn the audit log.
func (c *ChannelSurface) EnsureReadOnly(ctx context.Context) error {
	channel, err := c.session.Channel(c.channelID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch pick'em channel: %w", err)
	}

	for _, overwrite := range channel.PermissionOverwrites {
		// The @everyone role shares the guild's id
		if overwrite.ID == c.guildID && overwrite.Type == discordgo.PermissionOverwriteTypeRole {
			if overwrite.Deny&readOnlyDeny == readOnlyDeny {
				return nil
			}
			err := c.session.ChannelPermissionSet(c.channelID, c.guildID, discordgo.PermissionOverwriteTypeRole,
				overwrite.Allow&^readOnlyDeny, overwrite.Deny|readOnlyDeny, discordgo.WithContext(ctx))
			if err != nil {
				return fmt.Errorf("failed to update channel permissions: %w", err)
			}
			c.logger.Info("Updated pick'em channel to read-only")
			return nil
		}
	}

	err = c.session.ChannelPermissionSet(c.channelID, c.guildID, discordgo.PermissionOverwriteTypeRole,
		0, readOnlyDeny, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to set channel permissions: %w", err)
	}
	c.logger.Info("Locked pick'em channel to read-only")
	return nil
}

// PostLeaderboard posts standings as a single embed.
func (c *ChannelSurface) PostLeaderboard(ctx context.Context, title string, fields []services.LeaderboardField) error {
	embedFields := make([]*discordgo.MessageEmbedField, 0, len(fields))
	for _, f := range fields {
		embedFields = append(embedFields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}

	_, err := c.session.ChannelMessageSendComplex(c.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:  title,
			Color:  embedColor,
			Fields: embedFields,
		}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post leaderboard %q: %w", title, err)
	}
	return nil
}

// PostGamePrompt posts one game's matchup embed with a pick button per team.
// Button labels carry the running pick count so the room can see the split.
func (c *ChannelSurface) PostGamePrompt(ctx context.Context, prompt *services.GamePrompt) error {
	game := prompt.Game

	description := fmt.Sprintf("Kickoff: %s", game.Kickoff.In(c.loc).Format("Mon Jan 2 3:04 PM MST"))
	if prompt.Line != "" {
		description += fmt.Sprintf("\nLine: %s", prompt.Line)
	}

	_, err := c.session.ChannelMessageSendComplex(c.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       game.Matchup(),
			Description: description,
			Color:       embedColor,
		}},
		Components: []discordgo.MessageComponent{promptButtonRow(prompt)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post prompt for game %d: %w", game.ID, err)
	}
	return nil
}

// PostPickInfo posts the footer embed with the pick summary button.
func (c *ChannelSurface) PostPickInfo(ctx context.Context) error {
	_, err := c.session.ChannelMessageSendComplex(c.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Pick Information",
			Description: "Tap the button to see your picks for the week. You can change a pick any time before its kickoff.",
			Color:       embedColor,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "My Picks",
						Style:    discordgo.SecondaryButton,
						CustomID: myPicksCustomID,
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post pick info: %w", err)
	}
	return nil
}

func promptButtonRow(prompt *services.GamePrompt) discordgo.ActionsRow {
	game := prompt.Game
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			pickButton("✈️", game.AwayTeam, game.ID, game.AwayTeamID, prompt.Counts[game.AwayTeamID]),
			pickButton("\U0001F3E0", game.HomeTeam, game.ID, game.HomeTeamID, prompt.Counts[game.HomeTeamID]),
		},
	}
}

// PostNotice posts a plain text message.
func (c *ChannelSurface) PostNotice(ctx context.Context, text string) error {
	if _, err := c.session.ChannelMessageSend(c.channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to post notice: %w", err)
	}
	return nil
}

// pickButton labels a team's button with a side glyph and the running pick
// count, zero included.
func pickButton(glyph, teamName string, gameID, teamID, count int) discordgo.Button {
	return discordgo.Button{
		Label:    fmt.Sprintf("%s %s (%d)", glyph, teamName, count),
		Style:    discordgo.PrimaryButton,
		CustomID: pickCustomID(gameID, teamID),
	}
}
