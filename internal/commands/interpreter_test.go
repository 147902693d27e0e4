package commands

import (
	"context"
	"errors"
	"testing"

	"go-yob/internal/metrics"
	"go-yob/internal/models"
	"go-yob/internal/records"
	"go-yob/internal/state"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPermissions struct {
	mock.Mock
}

func (m *MockPermissions) MemberPermissions(guildID, userID string) (int64, error) {
	args := m.Called(guildID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) Reply(ctx context.Context, channelID string, rec *records.LogRecord) error {
	args := m.Called(ctx, channelID, rec)
	return args.Error(0)
}

func commandEvent(content string) *models.ChangeEvent {
	return &models.ChangeEvent{
		Kind:      models.EventKindCreated,
		MessageID: "1",
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		Author:    &models.Author{ID: "user-1", Username: "mod"},
		Content:   models.StringPtr(content),
	}
}

func newInterpreter(perms PermissionResolver, replier Replier) (*Interpreter, *state.LogDestination, *metrics.MetricsRegistry) {
	dest := state.NewLogDestination()
	reg := metrics.NewMetricsRegistry()
	return NewInterpreter("~ ", dest, perms, records.NewBuilder(nil), replier, reg), dest, reg
}

func TestSetLogChannel(t *testing.T) {
	perms := new(MockPermissions)
	perms.On("MemberPermissions", "guild-1", "user-1").Return(int64(discordgo.PermissionBanMembers), nil)

	replier := new(MockReplier)
	replier.On("Reply", mock.Anything, "chan-1", mock.MatchedBy(func(rec *records.LogRecord) bool {
		return rec.Title == "Set log channel as <#chan-1>" && rec.Color == records.ColorConfirm
	})).Return(nil).Once()

	in, dest, reg := newInterpreter(perms, replier)

	handled, err := in.Handle(context.Background(), commandEvent("~ setLogChannel"))
	require.NoError(t, err)
	assert.True(t, handled)

	id, ok := dest.Get()
	assert.True(t, ok)
	assert.Equal(t, "chan-1", id)
	assert.Equal(t, uint64(1), reg.Snapshot()[metrics.CommandsAccepted])
	replier.AssertExpectations(t)
}

func TestSetLogChannelOverwrites(t *testing.T) {
	perms := new(MockPermissions)
	perms.On("MemberPermissions", mock.Anything, mock.Anything).Return(int64(discordgo.PermissionAdministrator), nil)
	replier := new(MockReplier)
	replier.On("Reply", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	in, dest, _ := newInterpreter(perms, replier)
	dest.Set("old-channel")

	_, err := in.Handle(context.Background(), commandEvent("~ setLogChannel"))
	require.NoError(t, err)

	id, _ := dest.Get()
	assert.Equal(t, "chan-1", id)
}

func TestSetLogChannelRejections(t *testing.T) {
	cases := []struct {
		name  string
		event func() *models.ChangeEvent
		perms int64
		err   error
	}{
		{
			name: "bot author",
			event: func() *models.ChangeEvent {
				ev := commandEvent("~ setLogChannel")
				ev.Author.Bot = true
				return ev
			},
			perms: discordgo.PermissionAdministrator,
		},
		{
			name:  "missing ban members",
			event: func() *models.ChangeEvent { return commandEvent("~ setLogChannel") },
			perms: discordgo.PermissionSendMessages | discordgo.PermissionManageMessages,
		},
		{
			name:  "permission lookup fails",
			event: func() *models.ChangeEvent { return commandEvent("~ setLogChannel") },
			err:   errors.New("member not found"),
		},
		{
			name: "direct message",
			event: func() *models.ChangeEvent {
				ev := commandEvent("~ setLogChannel")
				ev.GuildID = ""
				return ev
			},
			perms: discordgo.PermissionAdministrator,
		},
		{
			name: "no author",
			event: func() *models.ChangeEvent {
				ev := commandEvent("~ setLogChannel")
				ev.Author = nil
				return ev
			},
			perms: discordgo.PermissionAdministrator,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			perms := new(MockPermissions)
			perms.On("MemberPermissions", mock.Anything, mock.Anything).Return(tc.perms, tc.err)
			replier := new(MockReplier)

			in, dest, reg := newInterpreter(perms, replier)
			dest.Set("existing")

			handled, err := in.Handle(context.Background(), tc.event())
			require.NoError(t, err)
			assert.False(t, handled)

			id, _ := dest.Get()
			assert.Equal(t, "existing", id)
			replier.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, uint64(1), reg.Snapshot()[metrics.CommandsRejected])
		})
	}
}

func TestNonCommandMessagesAreIgnored(t *testing.T) {
	perms := new(MockPermissions)
	replier := new(MockReplier)
	in, dest, _ := newInterpreter(perms, replier)

	for _, content := range []string{"", "hello", "~setLogChannel", "~ setLogChannel now", " ~ setLogChannel", "~ setlogchannel"} {
		handled, err := in.Handle(context.Background(), commandEvent(content))
		require.NoError(t, err)
		assert.False(t, handled, content)
	}

	ev := commandEvent("")
	ev.Content = nil
	handled, err := in.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.False(t, handled)

	assert.False(t, dest.IsSet())
	perms.AssertNotCalled(t, "MemberPermissions", mock.Anything, mock.Anything)
}

func TestSetLogChannelReplyFailure(t *testing.T) {
	perms := new(MockPermissions)
	perms.On("MemberPermissions", mock.Anything, mock.Anything).Return(int64(discordgo.PermissionBanMembers), nil)
	replier := new(MockReplier)
	replier.On("Reply", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("missing access"))

	in, dest, _ := newInterpreter(perms, replier)

	handled, err := in.Handle(context.Background(), commandEvent("~ setLogChannel"))
	assert.True(t, handled)
	assert.Error(t, err)
	assert.True(t, dest.IsSet())
}

func TestHasPermission(t *testing.T) {
	assert.True(t, hasPermission(discordgo.PermissionBanMembers, RequiredPermission))
	assert.True(t, hasPermission(discordgo.PermissionAdministrator, RequiredPermission))
	assert.False(t, hasPermission(discordgo.PermissionKickMembers, RequiredPermission))
	assert.False(t, hasPermission(0, RequiredPermission))
}
