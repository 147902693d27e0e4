package bot

import (
	"fmt"
	"sync"

	"go-yob/internal/config"
	"go-yob/internal/logging"
	"go-yob/internal/models"

	"github.com/bwmarrin/discordgo"
)

// Intents are the gateway intents the log bot needs: message events with
// content, plus guild and member data for permission checks.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildPresences |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

type Session struct {
	discord *discordgo.Session

	mu     sync.RWMutex
	selfID string
}

// New creates the discordgo session without connecting.
func New(cfg config.BotConfig) (*Session, error) {
	if cfg.Token == "" {
		return nil, config.ErrMissingToken
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = Intents
	dg.State.MaxMessageCount = cfg.MessageCacheSize
	// Handlers run in gateway order so the queue sees events as Discord sent them.
	dg.SyncEvents = true

	return &Session{discord: dg}, nil
}

// GetDiscord returns the underlying discordgo session
func (s *Session) GetDiscord() *discordgo.Session {
	return s.discord
}

// Connect opens the Discord websocket connection
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if s.discord.State.User != nil {
		s.setSelfID(s.discord.State.User.ID)
	}

	logging.Info("Discord bot connected")
	return nil
}

// Close closes the Discord connection
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

func (s *Session) SelfID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selfID
}

func (s *Session) setSelfID(id string) {
	s.mu.Lock()
	s.selfID = id
	s.mu.Unlock()
}

// ResolveChannel looks in the state cache first and asks the API otherwise.
func (s *Session) ResolveChannel(channelID string) (*discordgo.Channel, error) {
	if ch, err := s.discord.State.Channel(channelID); err == nil {
		return ch, nil
	}

	ch, err := s.discord.Channel(channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
	}
	return ch, nil
}

func (s *Session) SendMessage(channelID string, msg *discordgo.MessageSend) error {
	_, err := s.discord.ChannelMessageSendComplex(channelID, msg)
	return err
}

// MemberPermissions returns the guild-level permissions of userID. Channel
// overwrites are not applied.
func (s *Session) MemberPermissions(guildID, userID string) (int64, error) {
	guild, err := s.discord.State.Guild(guildID)
	if err != nil {
		if guild, err = s.discord.Guild(guildID); err != nil {
			return 0, fmt.Errorf("failed to resolve guild %s: %w", guildID, err)
		}
	}

	member, err := s.discord.State.Member(guildID, userID)
	if err != nil {
		if member, err = s.discord.GuildMember(guildID, userID); err != nil {
			return 0, fmt.Errorf("failed to resolve member %s in guild %s: %w", userID, guildID, err)
		}
	}

	return guildPermissions(guild, member), nil
}

// guildPermissions ORs @everyone with the member's roles. The owner and
// administrators hold every permission.
func guildPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	if guild == nil || member == nil {
		return 0
	}
	if member.User != nil && member.User.ID == guild.OwnerID {
		return discordgo.PermissionAll
	}

	held := make(map[string]struct{}, len(member.Roles))
	for _, id := range member.Roles {
		held[id] = struct{}{}
	}

	var perms int64
	for _, role := range guild.Roles {
		if role == nil {
			continue
		}
		if _, ok := held[role.ID]; ok || role.ID == guild.ID {
			perms |= role.Permissions
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

// AvatarURL returns the 64px avatar, or the default avatar when none is set.
func (s *Session) AvatarURL(author *models.Author) string {
	return avatarURL(author)
}

func avatarURL(author *models.Author) string {
	if author == nil {
		return ""
	}
	u := &discordgo.User{ID: author.ID, Avatar: author.Avatar}
	return u.AvatarURL("64")
}
