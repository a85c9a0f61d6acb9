package praise

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/masoncj/praisebot/internal/models"
	"github.com/masoncj/praisebot/internal/parse"
)

type stubResolver struct {
	users    map[string]models.Identity
	channels map[string]models.Identity
	calls    []string
}

func (r *stubResolver) ResolveUser(ctx context.Context, id string) (models.Identity, error) {
	r.calls = append(r.calls, "user:"+id)
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return models.Identity{}, ErrUnknownIdentity
}

func (r *stubResolver) ResolveChannel(ctx context.Context, id string) (models.Identity, error) {
	r.calls = append(r.calls, "channel:"+id)
	if channel, ok := r.channels[id]; ok {
		return channel, nil
	}
	return models.Identity{}, ErrUnknownIdentity
}

func TestParseMessageOnlyTemplateAndUser(t *testing.T) {
	resolver := &stubResolver{}
	p, err := ParseMessage(context.Background(), "@praisebot highfive @cmason", resolver, nil)
	require.NoError(t, err)

	want := &models.Praise{
		BotUser:           "@praisebot",
		BotUserName:       "@praisebot",
		Recipient:         "@cmason",
		RecipientName:     "@cmason",
		RecipientKind:     models.RecipientKindUser,
		TemplateName:      "highfive",
		Variables:         map[string]string{},
		BotIdentity:       models.BareIdentity("@praisebot"),
		RecipientIdentity: models.BareIdentity("@cmason"),
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("praise mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, resolver.calls, "bare references must not be resolved")
}

func TestBuildFillsBlankResolvedNames(t *testing.T) {
	resolver := &stubResolver{
		users: map[string]models.Identity{
			"UBOT": {ID: "UBOT"},
			"U1":   {},
		},
	}
	p, err := ParseMessage(context.Background(), "<@UBOT> thank <@U1|chris>", resolver, nil)
	require.NoError(t, err)

	require.Equal(t, "UBOT", p.BotUser)
	require.Equal(t, "UBOT", p.BotUserName)
	require.Equal(t, "<@U1|chris>", p.Recipient)
	require.Equal(t, "<@U1|chris>", p.RecipientName)
	require.Equal(t, models.Identity{}, p.RecipientIdentity)
}

func TestParseMessageWithVariable(t *testing.T) {
	defaults := map[string]string{"icon": "default", "sender": "@pricilla"}
	p, err := ParseMessage(context.Background(), "@praisebot thank @cmason for being awesome with icon=bob", nil, defaults)
	require.NoError(t, err)

	require.Equal(t, "being awesome", p.Text)
	require.Equal(t, "for being awesome", p.Message)
	require.True(t, p.HasFor)
	require.True(t, p.HasWith)
	require.Equal(t, "thank", p.TemplateName)
	require.Equal(t, map[string]string{"icon": "bob", "sender": "@pricilla"}, p.Variables)
	require.Equal(t, "default", defaults["icon"])
}

func TestParseMessageWithoutAssignment(t *testing.T) {
	p, err := ParseMessage(context.Background(), "@praisebot thank @cmason for being awesome with mentoring new grads", nil, nil)
	require.NoError(t, err)

	require.Equal(t, "being awesome with mentoring new grads", p.Text)
	require.True(t, p.HasFor)
	require.False(t, p.HasWith)
	require.Empty(t, p.Variables)
}

func TestParseMessageResolvesWrappedReferences(t *testing.T) {
	resolver := &stubResolver{users: map[string]models.Identity{
		"U4BS8BZL1": {ID: "U4BS8BZL1", DisplayName: "foo", FullName: "Foo"},
		"U040EJF77": {ID: "U040EJF77", DisplayName: "bar", FullName: "Bar", IconURL: "https://example.com/bar.png"},
	}}

	p, err := ParseMessage(context.Background(), "<@U4BS8BZL1> thank <@U040EJF77> for being awesome", resolver, nil)
	require.NoError(t, err)

	require.Equal(t, "foo", p.BotUser)
	require.Equal(t, "Foo", p.BotUserName)
	require.Equal(t, "bar", p.Recipient)
	require.Equal(t, "Bar", p.RecipientName)
	require.Equal(t, "being awesome", p.Text)
	require.Equal(t, "https://example.com/bar.png", p.RecipientIdentity.IconURL)
	require.Equal(t, []string{"user:U4BS8BZL1", "user:U040EJF77"}, resolver.calls)
}

func TestParseMessageResolvesChannel(t *testing.T) {
	resolver := &stubResolver{channels: map[string]models.Identity{
		"C1": {ID: "C1", DisplayName: "launch", FullName: "#launch"},
	}}

	p, err := ParseMessage(context.Background(), "@bot kudos <#C1> for shipping", resolver, nil)
	require.NoError(t, err)

	require.Equal(t, models.RecipientKindChannel, p.RecipientKind)
	require.Equal(t, "launch", p.Recipient)
	require.Equal(t, []string{"channel:C1"}, resolver.calls)
}

func TestParseMessageUnknownIdentity(t *testing.T) {
	resolver := &stubResolver{users: map[string]models.Identity{
		"U1": {ID: "U1", DisplayName: "foo", FullName: "Foo"},
	}}

	p, err := ParseMessage(context.Background(), "<@U1> thank <@U404> for trying", resolver, nil)
	require.Nil(t, p)

	var resErr *IdentityResolutionError
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, "U404", resErr.ID)
	require.Equal(t, "<@U404>", resErr.Ref)
	require.True(t, errors.Is(err, ErrUnknownIdentity))
}

func TestParseMessageWrappedWithoutResolver(t *testing.T) {
	_, err := ParseMessage(context.Background(), "<@U1> thank @x", nil, nil)

	var resErr *IdentityResolutionError
	require.True(t, errors.As(err, &resErr))
}

func TestParseMessagePropagatesParseError(t *testing.T) {
	_, err := ParseMessage(context.Background(), "thank you all", nil, nil)

	var perr *parse.Error
	require.True(t, errors.As(err, &perr))
}

func TestParseMessageIsDeterministic(t *testing.T) {
	const text = "@praisebot thank @cmason for being awesome with icon=bob"
	first, err := ParseMessage(context.Background(), text, nil, nil)
	require.NoError(t, err)
	second, err := ParseMessage(context.Background(), text, nil, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
