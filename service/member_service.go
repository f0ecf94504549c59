package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/models"
)

// apiKeyPattern is the shape of a valid game API key.
var apiKeyPattern = regexp.MustCompile(`^[A-Z0-9]{8}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{20}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{12}$`)

// memberUpdatableFields are the only member columns writable through Update.
var memberUpdatableFields = map[string]bool{
	"discord":   true,
	"access":    true,
	"is_banned": true,
}

// MemberService handles member profiles, search, API keys, notes, bans and
// Discord links.
type MemberService struct {
	members MemberRepository
	notes   NoteRepository
	bans    BanRepository
	gw2     GW2Client
	discord DiscordClient
}

// NewMemberService creates a new member service
func NewMemberService(members MemberRepository, notes NoteRepository, bans BanRepository, gw2Client GW2Client, discordClient DiscordClient) *MemberService {
	return &MemberService{
		members: members,
		notes:   notes,
		bans:    bans,
		gw2:     gw2Client,
		discord: discordClient,
	}
}

// GetProfile assembles the full member detail view: account row, guild
// memberships, characters and the ban reason when one applies.
func (s *MemberService) GetProfile(ctx context.Context, account string) (*models.MemberProfile, error) {
	member, err := s.members.GetByAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: member lookup: %v", ErrStorage, err)
	}
	if member == nil {
		return nil, fmt.Errorf("%w: member %s", ErrNotFound, account)
	}

	profile := &models.MemberProfile{
		Account:  member.Account,
		Discord:  member.Discord,
		Created:  member.Created,
		IsBanned: member.IsBanned,
	}

	if profile.Guilds, err = s.members.ListMemberships(ctx, account); err != nil {
		return nil, fmt.Errorf("%w: membership lookup: %v", ErrStorage, err)
	}
	if profile.Characters, err = s.members.ListCharacters(ctx, account); err != nil {
		return nil, fmt.Errorf("%w: character lookup: %v", ErrStorage, err)
	}

	if member.IsBanned {
		ban, err := s.bans.GetByAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("%w: ban lookup: %v", ErrStorage, err)
		}
		profile.BanReason = ban
	}

	return profile, nil
}

// Search finds members whose account name starts with the given prefix.
func (s *MemberService) Search(ctx context.Context, prefix string) ([]*models.Member, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("%w: missing search term", ErrBadRequest)
	}

	members, err := s.members.Search(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: member search: %v", ErrStorage, err)
	}
	return members, nil
}

// SetKey stores a member's game API key and loads their character roster
// from it. Keys that do not match the expected shape are rejected outright.
func (s *MemberService) SetKey(ctx context.Context, account, apiKey string) error {
	if account == "" {
		return fmt.Errorf("%w: missing account", ErrBadRequest)
	}
	if !apiKeyPattern.MatchString(apiKey) {
		return fmt.Errorf("%w: malformed api key", ErrForbidden)
	}

	member, err := s.members.GetByAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("%w: member lookup: %v", ErrStorage, err)
	}
	if member == nil {
		return fmt.Errorf("%w: member %s", ErrNotFound, account)
	}

	if err := s.members.SetAPIKey(ctx, account, apiKey); err != nil {
		return fmt.Errorf("%w: key update: %v", ErrStorage, err)
	}

	// Character load is best effort: the key is saved even when the game
	// API is flaky, the roster catches up on the next successful call.
	characters, err := s.gw2.CharactersByToken(ctx, apiKey)
	if err != nil {
		logrus.WithError(err).WithField("account", account).Warn("Failed to load characters for new api key")
		return nil
	}

	roster := make([]models.Character, 0, len(characters))
	for _, c := range characters {
		created := c.Created
		roster = append(roster, models.Character{
			Account: account,
			Name:    c.Name,
			Race:    c.Race,
			Created: &created,
		})
	}
	if err := s.members.ReplaceCharacters(ctx, account, roster); err != nil {
		return fmt.Errorf("%w: character update: %v", ErrStorage, err)
	}

	return nil
}

// Update applies a partial member update. Only the discord handle, access
// level and ban flag can change; setting or clearing the discord handle
// keeps the Discord metadata row in step.
func (s *MemberService) Update(ctx context.Context, account string, fields map[string]interface{}) error {
	if account == "" {
		return fmt.Errorf("%w: missing account", ErrBadRequest)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrBadRequest)
	}
	for field := range fields {
		if !memberUpdatableFields[field] {
			return fmt.Errorf("%w: field %q is not updatable", ErrBadRequest, field)
		}
	}

	member, err := s.members.GetByAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("%w: member lookup: %v", ErrStorage, err)
	}
	if member == nil {
		return fmt.Errorf("%w: member %s", ErrNotFound, account)
	}

	if err := s.members.Update(ctx, account, fields); err != nil {
		return fmt.Errorf("%w: member update: %v", ErrStorage, err)
	}

	if raw, ok := fields["discord"]; ok {
		if err := s.syncDiscordLink(ctx, account, raw); err != nil {
			// The member row already changed, a stale link row is recoverable
			logrus.WithError(err).WithField("account", account).Warn("Failed to sync discord link")
		}
	}

	return nil
}

func (s *MemberService) syncDiscordLink(ctx context.Context, account string, raw interface{}) error {
	id, _ := raw.(string)
	if id == "" {
		return s.members.DeleteDiscord(ctx, account)
	}

	user, err := s.discord.GetUser(id)
	if err != nil {
		return fmt.Errorf("%w: discord user %s: %v", ErrUpstream, id, err)
	}

	return s.members.UpsertDiscord(ctx, &models.DiscordLink{
		Account:       account,
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Avatar:        user.Avatar,
		LastUpdate:    time.Now().UTC(),
	})
}

// GetDiscord returns the Discord metadata linked to an account.
func (s *MemberService) GetDiscord(ctx context.Context, account string) (*models.DiscordLink, error) {
	link, err := s.members.GetDiscord(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: discord lookup: %v", ErrStorage, err)
	}
	if link == nil {
		return nil, fmt.Errorf("%w: no discord link for %s", ErrNotFound, account)
	}
	return link, nil
}

// AddNote attaches a moderator note to a member account.
func (s *MemberService) AddNote(ctx context.Context, account, creator, message string) (*models.Note, error) {
	if account == "" || creator == "" || strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: account, creator and message are required", ErrBadRequest)
	}

	note := &models.Note{
		Account: account,
		Creator: creator,
		Message: message,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("%w: note create: %v", ErrStorage, err)
	}
	return note, nil
}

// ListNotes returns the most recent notes for an account, or across all
// accounts when account is empty.
func (s *MemberService) ListNotes(ctx context.Context, account string, limit int) ([]*models.Note, error) {
	if limit <= 0 {
		limit = 50
	}

	notes, err := s.notes.List(ctx, account, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: note listing: %v", ErrStorage, err)
	}
	return notes, nil
}

// ListBans returns the full ban list.
func (s *MemberService) ListBans(ctx context.Context) ([]*models.Ban, error) {
	bans, err := s.bans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: ban listing: %v", ErrStorage, err)
	}
	return bans, nil
}
