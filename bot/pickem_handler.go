package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"huskerbot-go/services"
)

// Button custom ids are "nflpickem|<gameID>|<teamID>" for a pick and
// "nflpickem|mypicks" for the pick summary. Game and team ids are the ESPN
// numeric ids, so a custom id survives bot restarts and reposts.
const (
	customIDPrefix  = "nflpickem"
	myPicksCustomID = customIDPrefix + "|mypicks"
)

const interactionTimeout = 30 * time.Second

func pickCustomID(gameID, teamID int) string {
	return fmt.Sprintf("%s|%d|%d", customIDPrefix, gameID, teamID)
}

func parsePickCustomID(customID string) (gameID, teamID int, ok bool) {
	parts := strings.Split(customID, "|")
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return 0, 0, false
	}
	gameID, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	teamID, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return gameID, teamID, true
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	customID := i.MessageComponentData().CustomID
	if customID == myPicksCustomID {
		b.respondMyPicks(ctx, s, i, 0)
		return
	}

	gameID, teamID, ok := parsePickCustomID(customID)
	if !ok {
		return
	}
	b.respondPick(ctx, s, i, gameID, teamID)
}

func (b *Bot) respondPick(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, gameID, teamID int) {
	userID := interactionUserID(i)
	if userID == "" {
		return
	}

	_, err := b.pickem.SubmitPick(ctx, userID, gameID, teamID)
	switch {
	case errors.Is(err, services.ErrPicksClosed):
		b.ephemeral(s, i, "That game has already kicked off, picks are locked.")
		return
	case errors.Is(err, services.ErrUnknownGame), errors.Is(err, services.ErrUnknownTeam):
		b.ephemeral(s, i, "That pick doesn't match a current game. The prompt may be stale.")
		return
	case err != nil:
		b.logger.Errorf("Failed to record pick for user %s game %d: %v", userID, gameID, err)
		b.ephemeral(s, i, "Something went wrong recording your pick, try again.")
		return
	}

	prompt, err := b.pickem.PromptFor(ctx, gameID)
	if err != nil {
		b.logger.Errorf("Failed to refresh prompt for game %d: %v", gameID, err)
		b.ephemeral(s, i, "Pick recorded.")
		return
	}

	b.ephemeral(s, i, fmt.Sprintf("Pick recorded: **%s**.", prompt.Game.TeamName(teamID)))
	b.refreshPromptButtons(ctx, s, i, prompt)
}

// refreshPromptButtons rewrites the prompt's button row so the labels show
// the updated pick counts.
func (b *Bot) refreshPromptButtons(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, prompt *services.GamePrompt) {
	components := []discordgo.MessageComponent{promptButtonRow(prompt)}

	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         i.Message.ID,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		b.logger.Errorf("Failed to update prompt buttons for game %d: %v", prompt.Game.ID, err)
	}
}

func (b *Bot) respondMyPicks(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, week int) {
	userID := interactionUserID(i)
	if userID == "" {
		return
	}

	lines, err := b.pickem.UserWeekPicks(ctx, userID, week)
	if err != nil {
		b.logger.Errorf("Failed to load picks for user %s: %v", userID, err)
		b.ephemeral(s, i, "Couldn't load your picks, try again.")
		return
	}
	if len(lines) == 0 {
		b.ephemeral(s, i, "You haven't made any picks this week.")
		return
	}
	b.ephemeral(s, i, "Your picks this week:\n"+strings.Join(lines, "\n"))
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != "nfl-pickem" || len(data.Options) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	sub := data.Options[0]
	switch sub.Name {
	case "show":
		b.respondMyPicks(ctx, s, i, subcommandWeek(sub))
	case "leaderboard":
		b.respondLeaderboard(ctx, s, i)
	case "reload":
		b.respondReload(s, i, subcommandWeek(sub))
	}
}

func subcommandWeek(sub *discordgo.ApplicationCommandInteractionDataOption) int {
	for _, opt := range sub.Options {
		if opt.Name == "week" {
			return int(opt.IntValue())
		}
	}
	return 0
}

func (b *Bot) respondLeaderboard(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	season, _ := b.pickem.CurrentSeasonWeek()
	fields, err := b.pickem.SeasonLeaderboard(ctx, season, b.displayNameResolver(ctx))
	if err != nil {
		b.logger.Errorf("Failed to build season leaderboard: %v", err)
		b.ephemeral(s, i, "Couldn't load the leaderboard, try again.")
		return
	}

	embedFields := make([]*discordgo.MessageEmbedField, 0, len(fields))
	for _, f := range fields {
		embedFields = append(embedFields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:  fmt.Sprintf("%d Season Standings", season),
				Color:  embedColor,
				Fields: embedFields,
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Errorf("Failed to respond with leaderboard: %v", err)
	}
}

// respondReload re-runs the weekly cycle on demand, gated to moderators. The
// response is deferred because grading and reposting can easily outlive the
// 3 second ack window.
func (b *Bot) respondReload(s *discordgo.Session, i *discordgo.InteractionCreate, week int) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageMessages == 0 {
		b.ephemeral(s, i, "You need the Manage Messages permission to reload the pick'em channel.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		b.logger.Errorf("Failed to defer reload response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	content := "Weekly pick'em refresh complete."
	if err := b.pickem.PostWeeklyPickem(ctx, week); err != nil {
		b.logger.Errorf("Manual weekly run failed: %v", err)
		content = "Weekly pick'em refresh failed, check the logs."
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		b.logger.Errorf("Failed to edit reload response: %v", err)
	}
}

// displayNameResolver resolves guild nicknames for leaderboard display. A
// failed member lookup returns "" and the renderer falls back to a mention.
func (b *Bot) displayNameResolver(ctx context.Context) services.DisplayNameResolver {
	return func(userID string) string {
		member, err := b.session.GuildMember(b.config.Discord.GuildID, userID, discordgo.WithContext(ctx))
		if err != nil || member == nil || member.User == nil {
			return ""
		}
		if member.Nick != "" {
			return member.Nick
		}
		if member.User.GlobalName != "" {
			return member.User.GlobalName
		}
		return member.User.Username
	}
}

func (b *Bot) ephemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Errorf("Failed to send ephemeral response: %v", err)
	}
}
